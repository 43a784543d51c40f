package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wpnuxt/wpnuxi/internal/config"
	"github.com/wpnuxt/wpnuxi/internal/events"
	"github.com/wpnuxt/wpnuxi/internal/features"
	"github.com/wpnuxt/wpnuxi/internal/pkgmanager"
	"github.com/wpnuxt/wpnuxi/internal/prompt"
	"github.com/wpnuxt/wpnuxi/internal/scaffold"
	"github.com/wpnuxt/wpnuxi/internal/toolchain"
	"github.com/wpnuxt/wpnuxi/internal/wordpress"
)

const (
	envPlayground = "playground"
	envCustom     = "custom"
)

func newInitCmd(d *deps) *cobra.Command {
	flags := &initFlagSet{}

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a new WPNuxt project",
		Long: `Scaffold a Nuxt project wired to WordPress through WPNuxt.

Missing options are asked interactively. Without a terminal every prompt
takes its default, so flags or the config file must carry the rest.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := d.loader.Load(flags.toOverrides(cmd))
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if flags.blueprint {
				// The playground URL wins over any configured site.
				cfg.WordPressURL = ""
			}
			if err := cfg.Validate(); err != nil {
				return invalid(err)
			}

			cwd, err := d.getwd()
			if err != nil {
				return err
			}

			out := newPrinter(cmd, flags.jsonOutput)
			out.banner("Welcome to WPNuxt!")

			p := d.prompter(cmd)
			if flags.jsonOutput {
				p = prompt.Defaults{}
			}
			opts, err := resolveInitOptions(initInputs{
				prompter:  p,
				progress:  out,
				cwd:       cwd,
				userAgent: d.getenv(pkgmanager.UserAgentEnv),
				cfg:       cfg,
				flags:     *flags,
				args:      args,
			})
			if err != nil {
				return err
			}

			var installOut io.Writer
			if d.verbose && !out.json() {
				installOut = cmd.ErrOrStderr()
			}
			sc := &scaffold.Scaffolder{
				Downloader: toolchain.Giget{Runner: d.runner},
				Installer:  toolchain.Installer{Runner: d.runner, Output: installOut},
				Git:        toolchain.Git{Runner: d.runner},
				Progress:   out,
				Logger:     d.logger,
			}
			summary, err := sc.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}

			printInitSummary(out, summary)
			return nil
		},
	}

	bindInitFlags(cmd, flags)
	return cmd
}

type initInputs struct {
	prompter  prompt.Prompter
	progress  scaffold.Progress
	cwd       string
	userAgent string
	cfg       config.RuntimeConfig
	flags     initFlagSet
	args      []string
}

// resolveInitOptions fills every scaffold option from flags, config and
// prompts, in the order the user is asked.
func resolveInitOptions(in initInputs) (scaffold.InitOptions, error) {
	cfg := in.cfg
	p := in.prompter
	opts := scaffold.InitOptions{
		SkipInstall: cfg.SkipInstall,
	}

	dir := ""
	if len(in.args) > 0 {
		dir = in.args[0]
	} else {
		var err error
		dir, err = p.Input("Project name", scaffold.DefaultProjectName, scaffold.DefaultProjectName, requireValue("Project name is required"))
		if err != nil {
			return opts, err
		}
	}
	opts.DisplayDir = dir
	opts.Dir = resolveDir(in.cwd, dir)
	if err := scaffold.CheckTarget(opts.Dir); err != nil {
		if errors.Is(err, scaffold.ErrDirNotEmpty) {
			return opts, invalidf("Directory %s is not empty.", dir)
		}
		return opts, err
	}

	switch {
	case in.flags.blueprint:
		opts.WordPressURL = scaffold.DefaultWordPressURL
		opts.Playground = true
	case cfg.WordPressURL != "":
		opts.WordPressURL = cfg.WordPressURL
	default:
		env, err := p.Select("WordPress environment", []prompt.Option{
			{Label: "Blueprint Playground (included)", Value: envPlayground, Hint: "no WordPress setup needed"},
			{Label: "Existing WordPress instance", Value: envCustom, Hint: "requires WPGraphQL plugin"},
		}, envPlayground)
		if err != nil {
			return opts, err
		}
		if env == envPlayground {
			opts.WordPressURL = scaffold.DefaultWordPressURL
			opts.Playground = true
		} else {
			url, err := p.Input("WordPress site URL", "https://my-wordpress-site.com", "", validateSiteURL)
			if err != nil {
				return opts, err
			}
			opts.WordPressURL = url
		}
	}
	opts.WordPressURL = wordpress.TrimTrailingSlashes(opts.WordPressURL)

	opts.Template = cfg.Template
	if opts.Template == "" {
		tmpl, err := p.Select("Template", []prompt.Option{
			{Label: "Full (recommended)", Value: config.TemplateFull, Hint: "core + blocks + auth + Nuxt UI"},
			{Label: "Minimal", Value: config.TemplateMinimal, Hint: "core only, without Nuxt UI"},
		}, config.TemplateFull)
		if err != nil {
			return opts, err
		}
		opts.Template = tmpl
	}

	if opts.Template == config.TemplateMinimal {
		set, err := resolveFeatures(in)
		if err != nil {
			return opts, err
		}
		opts.Features = set
	}

	if cfg.PackageManager != "" {
		pm, err := pkgmanager.Parse(cfg.PackageManager)
		if err != nil {
			return opts, invalid(err)
		}
		opts.PackageManager = pm
	} else {
		options := make([]prompt.Option, 0, len(pkgmanager.All))
		for _, pm := range pkgmanager.All {
			options = append(options, prompt.Option{Label: pm.String(), Value: pm.String()})
		}
		value, err := p.Select("Package manager", options, pkgmanager.Preferred(in.cwd, in.userAgent).String())
		if err != nil {
			return opts, err
		}
		opts.PackageManager = pkgmanager.Name(value)
	}

	opts.InitGit = !cfg.SkipGit
	if opts.InitGit && len(in.args) == 0 {
		ok, err := p.Confirm("Initialize a git repository?", true)
		if err != nil {
			return opts, err
		}
		opts.InitGit = ok
	}

	return opts, nil
}

func resolveFeatures(in initInputs) (features.Set, error) {
	if in.flags.add != "" {
		set, unknown := features.ParseSet(in.flags.add)
		for _, name := range unknown {
			in.progress.Warn(fmt.Sprintf("Unknown module %q ignored. Available: blocks, auth", name))
		}
		return set, nil
	}

	var (
		set features.Set
		err error
	)
	set.Blocks, err = in.prompter.Confirm("Add @wpnuxt/blocks? (render Gutenberg blocks as Vue components)", false)
	if err != nil {
		return set, err
	}
	set.Auth, err = in.prompter.Confirm("Add @wpnuxt/auth? (WordPress user authentication)", false)
	return set, err
}

func requireValue(message string) func(string) error {
	return func(value string) error {
		if value == "" {
			return errors.New(message)
		}
		return nil
	}
}

func validateSiteURL(value string) error {
	if value == "" {
		return errors.New("URL is required")
	}
	if !wordpress.IsValidURL(value) {
		return errors.New("Please enter a valid URL (http:// or https://)")
	}
	return nil
}

func printInitSummary(out *printer, summary scaffold.Summary) {
	if out.json() {
		_ = out.emitter.Record(events.TypeDone, "Project created!", map[string]interface{}{
			"summary": summary,
		})
		return
	}

	fmt.Fprintf(out.out, "\n%s\n", bold("Next steps:"))
	out.box(summary.NextSteps)
	fmt.Fprintf(out.out, "\nCheck out how WPNuxt works: %s\n", cyan(scaffold.HowItWorksURL))
	fmt.Fprintf(out.out, "\n%s\n", green("Project created!"))
}
