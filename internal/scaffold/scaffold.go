// Package scaffold creates a WPNuxt project from resolved init options.
//
// The Scaffolder is the single place that decides which failures abort the
// run: a failed template download or .env write is fatal, while feature
// wiring, blueprint patching, dependency installation and git setup only
// produce warnings.
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/wpnuxt/wpnuxi/internal/config"
	"github.com/wpnuxt/wpnuxi/internal/envfile"
	"github.com/wpnuxt/wpnuxi/internal/features"
	"github.com/wpnuxt/wpnuxi/internal/pkgmanager"
)

const (
	// DefaultWordPressURL is where the bundled Blueprint Playground listens.
	DefaultWordPressURL = "http://127.0.0.1:9400"
	DefaultProjectName  = "my-wpnuxt-app"
	HowItWorksURL       = "https://wpnuxt.com/getting-started/how-it-works"

	RepoFull    = "github:wpnuxt/starter"
	RepoMinimal = "github:wpnuxt/starter-minimal"
)

// Repo returns the giget source of a template flavor.
func Repo(template string) string {
	if template == config.TemplateMinimal {
		return RepoMinimal
	}
	return RepoFull
}

// Downloader fetches a remote template into a directory.
type Downloader interface {
	Download(ctx context.Context, repo, dir string) error
}

// Installer installs project dependencies.
type Installer interface {
	Install(ctx context.Context, dir string, pm pkgmanager.Name) error
}

// GitInitializer creates a repository with an initial commit.
type GitInitializer interface {
	InitialCommit(ctx context.Context, dir string) error
}

// Progress receives user-facing updates while the scaffolder runs.
type Progress interface {
	Step(message string)
	Warn(message string)
}

type nopProgress struct{}

func (nopProgress) Step(string) {}
func (nopProgress) Warn(string) {}

// InitOptions are fully resolved scaffold parameters.
type InitOptions struct {
	// Dir is the absolute target directory.
	Dir string
	// DisplayDir is the directory as the user typed it, used for "cd".
	DisplayDir     string
	WordPressURL   string
	Playground     bool
	Template       string
	Features       features.Set
	PackageManager pkgmanager.Name
	SkipInstall    bool
	InitGit        bool
}

// Summary describes the outcome of a run.
type Summary struct {
	Dir              string            `json:"dir"`
	Template         string            `json:"template"`
	Repo             string            `json:"repo"`
	WordPressURL     string            `json:"wordpressUrl"`
	Playground       bool              `json:"playground"`
	PackageManager   string            `json:"packageManager"`
	Features         []features.Report `json:"features,omitempty"`
	BlueprintPatched bool              `json:"blueprintPatched"`
	RequiredPlugins  []string          `json:"requiredPlugins,omitempty"`
	Installed        bool              `json:"installed"`
	GitInitialized   bool              `json:"gitInitialized"`
	Warnings         []string          `json:"warnings,omitempty"`
	NextSteps        []string          `json:"nextSteps"`
}

// Scaffolder runs the init pipeline.
type Scaffolder struct {
	Downloader Downloader
	Installer  Installer
	Git        GitInitializer
	Progress   Progress
	Logger     *zap.Logger
}

// Run creates the project described by opts.
func (s *Scaffolder) Run(ctx context.Context, opts InitOptions) (Summary, error) {
	log := s.Logger
	if log == nil {
		log = zap.NewNop()
	}
	progress := s.Progress
	if progress == nil {
		progress = nopProgress{}
	}
	r := &run{log: log, progress: progress}

	sum := Summary{
		Dir:            opts.Dir,
		Template:       opts.Template,
		Repo:           Repo(opts.Template),
		WordPressURL:   opts.WordPressURL,
		Playground:     opts.Playground,
		PackageManager: opts.PackageManager.String(),
	}

	log.Debug("downloading template", zap.String("repo", sum.Repo), zap.String("dir", opts.Dir))
	if err := s.Downloader.Download(ctx, sum.Repo, opts.Dir); err != nil {
		return sum, fmt.Errorf("failed to download template: %w", err)
	}
	progress.Step("Template downloaded.")

	envPath := filepath.Join(opts.Dir, envfile.FileName)
	if err := envfile.Write(envPath, map[string]string{envfile.WordPressURLKey: opts.WordPressURL}); err != nil {
		return sum, fmt.Errorf("write %s: %w", envfile.FileName, err)
	}
	log.Debug("wrote file", zap.String("path", envPath))
	progress.Step("Environment configured.")

	if opts.Template == config.TemplateMinimal {
		sum.Features = r.addFeatures(opts)
		if opts.Playground && opts.Features.Any() {
			sum.BlueprintPatched = r.patchBlueprint(opts)
		}
	}

	if !opts.Playground {
		plugins := features.RequiredPlugins(opts.Template == config.TemplateFull, opts.Features)
		for _, p := range plugins {
			sum.RequiredPlugins = append(sum.RequiredPlugins, p.Name)
		}
		r.warn(pluginWarning(opts.WordPressURL, sum.RequiredPlugins))
	}

	if !opts.SkipInstall && s.Installer != nil {
		log.Debug("installing dependencies", zap.String("pm", opts.PackageManager.String()))
		if err := s.Installer.Install(ctx, opts.Dir, opts.PackageManager); err != nil {
			r.warn(fmt.Sprintf("Dependency installation with %s reported an error: %v", opts.PackageManager, err))
		} else {
			sum.Installed = true
			progress.Step("Dependencies installed.")
		}
	}

	if opts.InitGit && s.Git != nil {
		if err := s.Git.InitialCommit(ctx, opts.Dir); err != nil {
			r.warn("Failed to initialize git repository: " + err.Error())
		} else {
			sum.GitInitialized = true
			progress.Step("Git repository initialized.")
		}
	}

	sum.NextSteps = NextSteps(opts)
	sum.Warnings = r.warnings
	return sum, nil
}

type run struct {
	log      *zap.Logger
	progress Progress
	warnings []string
}

func (r *run) warn(message string) {
	r.warnings = append(r.warnings, message)
	r.log.Debug("warning", zap.String("message", message))
	r.progress.Warn(message)
}

func (r *run) addFeatures(opts InitOptions) []features.Report {
	var reports []features.Report
	for _, name := range opts.Features.Names() {
		report, err := features.Add(name, features.Options{Dir: opts.Dir, Logger: r.log})
		if err != nil {
			r.warn(fmt.Sprintf("Failed to add %s: %v", name.Module(), err))
			continue
		}
		reports = append(reports, report)
		r.progress.Step(name.Module() + " added.")
		for _, missing := range report.Missing {
			r.warn(fmt.Sprintf("%s: could not find %s; add the login link manually", name.Module(), missing))
		}
	}
	return reports
}

func (r *run) patchBlueprint(opts InitOptions) bool {
	patched, err := features.PatchBlueprint(opts.Dir, opts.Features)
	if err != nil {
		r.warn("Failed to update blueprint.json: " + err.Error())
		return false
	}
	if patched {
		r.progress.Step("Blueprint updated with required WordPress plugins.")
	}
	return patched
}

func pluginWarning(url string, plugins []string) string {
	var b strings.Builder
	if len(plugins) > 1 {
		fmt.Fprintf(&b, "Make sure the following WordPress plugins are installed on %s:\n", url)
	} else {
		fmt.Fprintf(&b, "Make sure the following WordPress plugin is installed on %s:\n", url)
	}
	for _, p := range plugins {
		fmt.Fprintf(&b, "  - %s\n", p)
	}
	fmt.Fprintf(&b, "\n  See %s for setup instructions.", features.WordPressSetupURL)
	return b.String()
}

// NextSteps lists the commands the user runs after scaffolding.
func NextSteps(opts InitOptions) []string {
	var steps []string
	if opts.DisplayDir != "" && opts.DisplayDir != "." {
		steps = append(steps, "cd "+opts.DisplayDir)
	}
	script := "dev"
	if opts.Playground {
		script = "dev:blueprint"
	}
	return append(steps, pkgmanager.RunScript(opts.PackageManager, script))
}

// ErrDirNotEmpty is returned by CheckTarget for a non-empty directory.
var ErrDirNotEmpty = errors.New("directory is not empty")

// CheckTarget accepts a missing or empty directory.
func CheckTarget(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return ErrDirNotEmpty
	}
	return nil
}
