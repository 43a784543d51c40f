package cli

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wpnuxt/wpnuxi/internal/config"
	"github.com/wpnuxt/wpnuxi/internal/envfile"
	"github.com/wpnuxt/wpnuxi/internal/events"
	"github.com/wpnuxt/wpnuxi/internal/features"
	"github.com/wpnuxt/wpnuxi/internal/pkgmanager"
	"github.com/wpnuxt/wpnuxi/internal/scaffold"
)

func TestInitBlueprintMinimalWithModules(t *testing.T) {
	env := newTestEnv(t)
	env.runner.download = minimalStarter()

	output, err := env.run("init", "my-app", "--blueprint", "--template", "minimal", "--add", "auth,blocks", "--pm", "pnpm")
	require.NoError(t, err, output)

	dir := filepath.Join(env.cwd, "my-app")
	assert.Empty(t, env.prompter.asked)
	assert.Equal(t, []string{
		"npx --yes giget@latest github:wpnuxt/starter-minimal " + dir + " --force",
		"pnpm install --ignore-workspace",
		"git init",
		"git add -A",
		"git commit -m initial commit",
	}, env.runner.calls)

	dotenv, err := envfile.ParseDir(dir)
	require.NoError(t, err)
	assert.Equal(t, scaffold.DefaultWordPressURL, dotenv[envfile.WordPressURLKey])

	assert.Contains(t, readFile(t, filepath.Join(dir, "nuxt.config.ts")), "'@wpnuxt/blocks', '@wpnuxt/auth'")
	assert.FileExists(t, filepath.Join(dir, "app", "pages", "login.vue"))

	var bp struct {
		Steps []map[string]interface{} `json:"steps"`
	}
	require.NoError(t, json.Unmarshal([]byte(readFile(t, filepath.Join(dir, "blueprint.json"))), &bp))
	assert.Len(t, bp.Steps, 5)

	assertContains(t, output,
		"Welcome to WPNuxt!",
		"Template downloaded.",
		"Blueprint updated with required WordPress plugins.",
		"cd my-app",
		"pnpm run dev:blueprint",
		"Check out how WPNuxt works: "+scaffold.HowItWorksURL,
		"Project created!",
	)
}

func TestInitJSONEmitsEvents(t *testing.T) {
	env := newTestEnv(t)
	env.runner.download = minimalStarter()

	output, err := env.run("init", "site", "--blueprint", "--template", "full", "--skip-install", "--skip-git", "--json")
	require.NoError(t, err, output)

	lines := strings.Split(strings.TrimSpace(output), "\n")
	var last events.Event
	for _, line := range lines {
		var evt events.Event
		require.NoError(t, json.Unmarshal([]byte(line), &evt), line)
		last = evt
	}
	assert.Equal(t, events.TypeDone, last.Type)
	summary, ok := last.Fields["summary"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, scaffold.RepoFull, summary["repo"])
	assert.Equal(t, []interface{}{"cd site", "pnpm run dev:blueprint"}, summary["nextSteps"])
	assert.Len(t, env.runner.calls, 1)
}

func TestInitValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "template", args: []string{"init", "app", "--template", "huge"}, want: `invalid template "huge"`},
		{name: "wordpress url", args: []string{"init", "app", "--wordpress-url", "cms.example.com"}, want: "Must start with http:// or https://"},
		{name: "package manager", args: []string{"init", "app", "--pm", "deno"}, want: "unsupported package manager"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := env.run(tt.args...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation), "expected validation error, got %v", err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, env.runner.calls)
		})
	}
}

func TestInitRejectsNonEmptyDirectory(t *testing.T) {
	env := newTestEnv(t)
	mustWriteFiles(t, env.cwd, map[string]string{"my-app/README.md": "hi"})

	_, err := env.run("init", "my-app", "--blueprint")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Directory my-app is not empty.", err.Error())
	assert.Empty(t, env.runner.calls)
}

func TestInitBlueprintIgnoresConfiguredURL(t *testing.T) {
	env := newTestEnv(t)
	env.runner.download = minimalStarter()
	t.Setenv("WPNUXI_WORDPRESS_URL", "not a url")

	output, err := env.run("init", "app", "-b", "-t", "full", "--skip-install", "--skip-git")
	require.NoError(t, err, output)

	dotenv, err := envfile.ParseDir(filepath.Join(env.cwd, "app"))
	require.NoError(t, err)
	assert.Equal(t, scaffold.DefaultWordPressURL, dotenv[envfile.WordPressURLKey])
}

func TestInitDownloadFailureIsFatal(t *testing.T) {
	env := newTestEnv(t)
	env.runner.failing = map[string]error{"npx": errors.New("exit status 1")}

	_, err := env.run("init", "app", "--blueprint", "--template", "full")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to download template")
	assert.NoFileExists(t, filepath.Join(env.cwd, "app", ".env"))
}

func TestInitInstallAndGitFailuresOnlyWarn(t *testing.T) {
	env := newTestEnv(t)
	env.runner.download = minimalStarter()
	env.runner.failing = map[string]error{
		"npm": errors.New("ERESOLVE"),
		"git": errors.New("no identity"),
	}

	output, err := env.run("init", "app", "--blueprint", "--template", "full", "--pm", "npm")
	require.NoError(t, err, output)
	assertContains(t, output,
		"Dependency installation with npm reported an error",
		"Failed to initialize git repository",
		"npm run dev:blueprint",
		"Project created!",
	)
}

func TestInitCustomWordPressWarnsAboutPlugins(t *testing.T) {
	env := newTestEnv(t)
	env.runner.download = minimalStarter()

	output, err := env.run("init", "app", "-w", "https://cms.example.com/", "-t", "full", "--skip-install", "--skip-git")
	require.NoError(t, err, output)

	dotenv, err := envfile.ParseDir(filepath.Join(env.cwd, "app"))
	require.NoError(t, err)
	assert.Equal(t, "https://cms.example.com", dotenv[envfile.WordPressURLKey])
	assertContains(t, output, "WordPress plugins are installed on https://cms.example.com", "pnpm run dev")
	assert.NotContains(t, output, "dev:blueprint")
}

func TestResolveInitOptionsPromptsInOrder(t *testing.T) {
	cwd := t.TempDir()
	mustWriteFiles(t, cwd, map[string]string{"package-lock.json": "{}"})
	p := &scriptedPrompter{
		inputs: map[string]string{
			"Project name":       "blog",
			"WordPress site URL": "https://cms.example.com//",
		},
		selects: map[string]string{
			"WordPress environment": envCustom,
			"Template":              config.TemplateMinimal,
		},
		confirms: map[string]bool{
			"Add @wpnuxt/auth? (WordPress user authentication)": true,
			"Initialize a git repository?":                      false,
		},
	}

	opts, err := resolveInitOptions(initInputs{
		prompter: p,
		progress: &printer{out: &strings.Builder{}},
		cwd:      cwd,
	})
	require.NoError(t, err)

	want := scaffold.InitOptions{
		Dir:            filepath.Join(cwd, "blog"),
		DisplayDir:     "blog",
		WordPressURL:   "https://cms.example.com",
		Template:       config.TemplateMinimal,
		Features:       features.Set{Auth: true},
		PackageManager: pkgmanager.NPM,
	}
	if diff := cmp.Diff(want, opts); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, []string{
		"Project name",
		"WordPress environment",
		"WordPress site URL",
		"Template",
		"Add @wpnuxt/blocks? (render Gutenberg blocks as Vue components)",
		"Add @wpnuxt/auth? (WordPress user authentication)",
		"Package manager",
		"Initialize a git repository?",
	}, p.asked)
}

func TestResolveInitOptionsRejectsInvalidPromptedURL(t *testing.T) {
	p := &scriptedPrompter{
		inputs:  map[string]string{"WordPress site URL": "ftp://cms"},
		selects: map[string]string{"WordPress environment": envCustom},
	}

	_, err := resolveInitOptions(initInputs{prompter: p, cwd: t.TempDir(), args: []string{"app"}})
	require.Error(t, err)
	assert.Equal(t, "Please enter a valid URL (http:// or https://)", err.Error())
}

func TestResolveInitOptionsWarnsOnUnknownModules(t *testing.T) {
	warnings := &strings.Builder{}
	progress := &printer{out: warnings}
	cfg := config.RuntimeConfig{Template: config.TemplateMinimal, PackageManager: "bun", SkipGit: true}

	opts, err := resolveInitOptions(initInputs{
		prompter: &scriptedPrompter{},
		progress: progress,
		cwd:      t.TempDir(),
		cfg:      cfg,
		flags:    initFlagSet{add: "blocks,seo", blueprint: true},
		args:     []string{"app"},
	})
	require.NoError(t, err)
	assert.Equal(t, features.Set{Blocks: true}, opts.Features)
	assert.True(t, opts.Playground)
	assert.False(t, opts.InitGit)
	assert.Equal(t, pkgmanager.Bun, opts.PackageManager)
	assert.Contains(t, warnings.String(), `Unknown module "seo" ignored`)
}

func TestInitFlagsToOverrides(t *testing.T) {
	env := newTestEnv(t)
	cmd := newInitCmd(env.deps)
	require.NoError(t, cmd.ParseFlags([]string{"--pm", "yarn", "--skip-git"}))

	flags := initFlagSet{pm: "yarn", skipGit: true}
	ov := flags.toOverrides(cmd)
	assert.Equal(t, "yarn", ov.PackageManager)
	require.NotNil(t, ov.SkipGit)
	assert.True(t, *ov.SkipGit)
	assert.Nil(t, ov.SkipInstall)
	assert.Empty(t, ov.Template)
}
