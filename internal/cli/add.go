package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wpnuxt/wpnuxi/internal/config"
	"github.com/wpnuxt/wpnuxi/internal/events"
	"github.com/wpnuxt/wpnuxi/internal/features"
	"github.com/wpnuxt/wpnuxi/internal/pkgmanager"
	"github.com/wpnuxt/wpnuxi/internal/toolchain"
)

func newAddCmd(d *deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a WPNuxt module to an existing project",
	}
	cmd.AddCommand(
		newAddFeatureCmd(d, features.Auth, "Add WordPress user authentication (@wpnuxt/auth)"),
		newAddFeatureCmd(d, features.Blocks, "Render Gutenberg blocks as Vue components (@wpnuxt/blocks)"),
	)
	return cmd
}

func newAddFeatureCmd(d *deps, name features.Name, short string) *cobra.Command {
	var (
		cwd         string
		force       bool
		skipInstall bool
		pm          string
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   string(name),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ov := config.Overrides{PackageManager: pm}
			if cmd.Flags().Changed("skip-install") {
				ov.SkipInstall = &skipInstall
			}
			cfg, err := d.loader.Load(ov)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			dir, err := d.projectDir(cwd)
			if err != nil {
				return err
			}

			manager := pkgmanager.DetectFromLockfile(dir)
			if cfg.PackageManager != "" {
				if manager, err = pkgmanager.Parse(cfg.PackageManager); err != nil {
					return invalid(err)
				}
			} else if manager == pkgmanager.Unknown {
				manager = pkgmanager.Default
			}

			report, err := features.Add(name, features.Options{Dir: dir, Force: force, Logger: d.logger})
			if err != nil {
				return err
			}

			out := newPrinter(cmd, jsonOutput)
			printFeatureReport(out, report)

			if cfg.SkipInstall {
				return nil
			}
			installer := toolchain.Installer{Runner: d.runner}
			if d.verbose && !out.json() {
				installer.Output = cmd.ErrOrStderr()
			}
			if err := installer.Install(cmd.Context(), dir, manager); err != nil {
				out.Warn(fmt.Sprintf("Failed to install dependencies: %v. Run \"%s install\" manually.", err, manager))
				return nil
			}
			out.Step("Dependencies installed.")
			return nil
		},
	}

	cmd.Flags().StringVar(&cwd, "cwd", ".", "Project directory")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite files that already exist")
	cmd.Flags().BoolVar(&skipInstall, "skip-install", false, "Skip installing dependencies")
	cmd.Flags().StringVar(&pm, "pm", "", "Package manager used for the install")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit NDJSON events instead of text")

	return cmd
}

func printFeatureReport(out *printer, report features.Report) {
	if out.json() {
		_ = out.emitter.Record(events.TypeFeature, report.Feature.Module()+" added.", map[string]interface{}{
			"report": report,
		})
		return
	}
	for _, path := range report.Written {
		fmt.Fprintf(out.out, "%s %s\n", green("updated"), path)
	}
	for _, path := range report.Kept {
		fmt.Fprintf(out.out, "%s %s (unchanged)\n", yellow("kept"), path)
	}
	for _, missing := range report.Missing {
		out.Warn("Could not patch " + missing + ". Add it by hand.")
	}
	out.Step(report.Feature.Module() + " added.")
}
