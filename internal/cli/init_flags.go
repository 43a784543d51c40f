package cli

import (
	"github.com/spf13/cobra"

	"github.com/wpnuxt/wpnuxi/internal/config"
)

// initFlagSet tracks init flags before they are converted into config overrides.
type initFlagSet struct {
	wordpressURL string
	template     string
	pm           string
	skipInstall  bool
	skipGit      bool
	add          string
	blueprint    bool
	jsonOutput   bool
}

func bindInitFlags(cmd *cobra.Command, flags *initFlagSet) {
	cmd.Flags().StringVarP(&flags.wordpressURL, "wordpress-url", "w", "", "WordPress site URL")
	cmd.Flags().StringVarP(&flags.template, "template", "t", "", "Template: full or minimal")
	cmd.Flags().StringVar(&flags.pm, "pm", "", "Package manager: pnpm, npm, yarn, or bun")
	cmd.Flags().BoolVar(&flags.skipInstall, "skip-install", false, "Skip installing dependencies")
	cmd.Flags().BoolVar(&flags.skipGit, "skip-git", false, "Skip git initialization")
	cmd.Flags().StringVar(&flags.add, "add", "", "Modules to add with the minimal template (blocks,auth)")
	cmd.Flags().BoolVarP(&flags.blueprint, "blueprint", "b", false, "Use the bundled WordPress Playground")
	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "Emit NDJSON events instead of text and never prompt")
}

func (f initFlagSet) toOverrides(cmd *cobra.Command) config.Overrides {
	ov := config.Overrides{}
	if cmd.Flags().Changed("wordpress-url") {
		ov.WordPressURL = f.wordpressURL
	}

	if cmd.Flags().Changed("template") {
		ov.Template = f.template
	}

	if cmd.Flags().Changed("pm") {
		ov.PackageManager = f.pm
	}

	if cmd.Flags().Changed("skip-install") {
		ov.SkipInstall = &f.skipInstall
	}

	if cmd.Flags().Changed("skip-git") {
		ov.SkipGit = &f.skipGit
	}

	return ov
}
