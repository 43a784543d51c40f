package cli

import (
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wpnuxt/wpnuxi/internal/config"
	"github.com/wpnuxt/wpnuxi/internal/prompt"
	"github.com/wpnuxt/wpnuxi/internal/toolchain"
)

var version = "0.1.0"

// deps carries everything commands reach outside the process for, so tests
// can swap them.
type deps struct {
	loader     *config.Loader
	runner     toolchain.Runner
	httpClient *http.Client
	prompter   func(cmd *cobra.Command) prompt.Prompter
	getwd      func() (string, error)
	getenv     func(string) string
	logger     *zap.Logger

	configPath string
	verbose    bool
}

func defaultDeps() *deps {
	d := &deps{
		loader:     &config.Loader{},
		httpClient: http.DefaultClient,
		prompter: func(cmd *cobra.Command) prompt.Prompter {
			return prompt.New(os.Stdin, cmd.OutOrStdout())
		},
		getwd:  os.Getwd,
		getenv: os.Getenv,
	}
	return d
}

// Execute builds the wpnuxi command tree and runs the CLI.
func Execute() error {
	return newRootCmd(defaultDeps()).Execute()
}

// ExecuteCreate runs the create-wpnuxt entry point, whose root command is init.
func ExecuteCreate() error {
	return newCreateCmd(defaultDeps()).Execute()
}

func newRootCmd(d *deps) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wpnuxi",
		Short:         "WPNuxt CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}
	rootCmd.SetVersionTemplate("wpnuxi version {{.Version}}\n")
	d.bindPersistent(rootCmd)

	rootCmd.AddCommand(
		newInitCmd(d),
		newDoctorCmd(d),
		newInfoCmd(d),
		newAddCmd(d),
	)
	return rootCmd
}

func newCreateCmd(d *deps) *cobra.Command {
	cmd := newInitCmd(d)
	cmd.Use = "create-wpnuxt [dir]"
	cmd.Short = "Scaffold a WPNuxt project"
	cmd.Version = version
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetVersionTemplate("create-wpnuxt version {{.Version}}\n")
	d.bindPersistent(cmd)
	return cmd
}

func (d *deps) bindPersistent(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&d.configPath, "config", "", "Path to config.yml (default $WPNUXI_CONFIG or ~/.config/wpnuxi/config.yml)")
	cmd.PersistentFlags().BoolVarP(&d.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if d.configPath != "" {
			d.loader.ConfigPath = d.configPath
		}
		if !cmd.Flags().Changed("verbose") {
			if cfg, err := d.loader.Load(config.Overrides{}); err == nil {
				d.verbose = cfg.Verbose
			}
		}
		if d.logger == nil {
			d.logger = newLogger(cmd.ErrOrStderr(), d.verbose)
		}
		if d.runner == nil {
			d.runner = toolchain.NewRunner(d.logger)
		}
		return nil
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if d.logger != nil {
			_ = d.logger.Sync()
		}
	}
}

// newLogger writes console-encoded records to w. Only warnings and errors
// are shown unless verbose is set.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		level.SetLevel(zapcore.DebugLevel)
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}
