package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wpnuxt/wpnuxi/internal/envfile"
	"github.com/wpnuxt/wpnuxi/internal/events"
	"github.com/wpnuxt/wpnuxi/internal/pkgjson"
	"github.com/wpnuxt/wpnuxi/internal/wordpress"
)

type checkStatus string

const (
	statusPass checkStatus = "pass"
	statusWarn checkStatus = "warn"
	statusFail checkStatus = "fail"
)

type doctorCheck struct {
	Label    string      `json:"label"`
	Status   checkStatus `json:"status"`
	Message  string      `json:"message,omitempty"`
	Critical bool        `json:"critical"`
}

func newDoctorCmd(d *deps) *cobra.Command {
	var (
		cwd        string
		timeout    time.Duration
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the WPNuxt setup of a project",
		Long: `The doctor subcommand validates a WPNuxt project:
- WPNUXT_WORDPRESS_URL in .env and its format
- GraphQL endpoint reachability and introspection
- @wpnuxt/core and nuxt in package.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := d.projectDir(cwd)
			if err != nil {
				return err
			}

			prober := wordpress.NewProber(d.httpClient).WithTimeout(timeout)
			checks, err := runDoctorChecks(cmd.Context(), dir, prober, d.logger)
			if err != nil {
				return err
			}

			failures := criticalFailures(checks)
			if jsonOutput {
				emitDoctorReport(cmd, checks, failures)
			} else {
				printDoctorReport(cmd, checks, failures)
			}

			if failures > 0 {
				return errDoctorFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cwd, "cwd", ".", "Project directory")
	cmd.Flags().DurationVar(&timeout, "timeout", wordpress.DefaultProbeTimeout, "Timeout for each network probe")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit NDJSON events instead of text")

	return cmd
}

func runDoctorChecks(ctx context.Context, dir string, prober *wordpress.Prober, logger *zap.Logger) ([]doctorCheck, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	env, err := envfile.ParseDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", envfile.FileName, err)
	}

	checks := []doctorCheck{}

	siteURL := env[envfile.WordPressURLKey]
	if siteURL != "" {
		checks = append(checks, passed(".env has "+envfile.WordPressURLKey, siteURL, true))
	} else {
		checks = append(checks, failedCheck(".env has "+envfile.WordPressURLKey, envfile.WordPressURLKey+" not found in .env", true))
	}

	validURL := siteURL != "" && wordpress.IsValidURL(siteURL)
	switch {
	case validURL:
		checks = append(checks, passed("WordPress URL is valid", "", true))
	case siteURL != "":
		checks = append(checks, failedCheck("WordPress URL is valid", "Invalid URL: "+siteURL, true))
	default:
		checks = append(checks, failedCheck("WordPress URL is valid", "No URL to validate", true))
	}

	if validURL {
		endpoint := wordpress.ResolveGraphQLURL(siteURL)

		health := prober.CheckHealth(ctx, endpoint)
		logger.Debug("graphql health probe", zap.String("endpoint", endpoint), zap.Bool("ok", health.OK), zap.String("error", health.Error))
		if health.OK {
			checks = append(checks, passed("GraphQL endpoint reachable", endpoint, true))
		} else {
			checks = append(checks, failedCheck("GraphQL endpoint reachable", health.Error, true))
		}

		intro := prober.CheckIntrospection(ctx, endpoint)
		logger.Debug("graphql introspection probe", zap.String("endpoint", endpoint), zap.Bool("ok", intro.OK), zap.String("error", intro.Error))
		if intro.OK {
			checks = append(checks, passed("WPGraphQL introspection enabled", "", false))
		} else {
			checks = append(checks, doctorCheck{Label: "WPGraphQL introspection enabled", Status: statusWarn, Message: intro.Error})
		}
	} else {
		checks = append(checks,
			failedCheck("GraphQL endpoint reachable", "Skipped (no valid URL)", true),
			doctorCheck{Label: "WPGraphQL introspection enabled", Status: statusWarn, Message: "Skipped (no valid URL)"},
		)
	}

	return append(checks, checkDependencies(dir)...), nil
}

func checkDependencies(dir string) []doctorCheck {
	names := []string{"@wpnuxt/core", "nuxt"}
	checks := make([]doctorCheck, 0, len(names))

	manifest, err := pkgjson.LoadDir(dir)
	for _, name := range names {
		label := name + " in " + pkgjson.FileName
		switch {
		case errors.Is(err, os.ErrNotExist):
			checks = append(checks, failedCheck(label, pkgjson.FileName+" not found", true))
		case err != nil:
			checks = append(checks, failedCheck(label, err.Error(), true))
		case manifest.HasDependency(name):
			checks = append(checks, passed(label, manifest.Version(name), true))
		default:
			checks = append(checks, failedCheck(label, "Not found in dependencies", true))
		}
	}
	return checks
}

func passed(label, message string, critical bool) doctorCheck {
	return doctorCheck{Label: label, Status: statusPass, Message: message, Critical: critical}
}

func failedCheck(label, message string, critical bool) doctorCheck {
	return doctorCheck{Label: label, Status: statusFail, Message: message, Critical: critical}
}

func criticalFailures(checks []doctorCheck) int {
	n := 0
	for _, check := range checks {
		if check.Critical && check.Status == statusFail {
			n++
		}
	}
	return n
}

func printDoctorReport(cmd *cobra.Command, checks []doctorCheck, failures int) {
	out := newPrinter(cmd, false)
	out.banner("WPNuxt Doctor")

	for _, check := range checks {
		line := fmt.Sprintf("  %s %s", statusTag(check.Status), check.Label)
		if check.Message != "" {
			line += dim(" - " + check.Message)
		}
		fmt.Fprintln(out.out, line)
	}

	fmt.Fprintln(out.out)
	if failures > 0 {
		fmt.Fprintln(out.out, red(fmt.Sprintf("%d critical issue(s) found.", failures)))
		return
	}
	fmt.Fprintln(out.out, green("All critical checks passed."))
}

func emitDoctorReport(cmd *cobra.Command, checks []doctorCheck, failures int) {
	emitter := events.NewEmitter(cmd.OutOrStdout())
	for _, check := range checks {
		_ = emitter.Record(events.TypeCheck, check.Label, map[string]interface{}{
			"status":   check.Status,
			"message":  check.Message,
			"critical": check.Critical,
		})
	}
	_ = emitter.Record(events.TypeVerdict, "doctor finished", map[string]interface{}{
		"criticalFailures": failures,
		"ok":               failures == 0,
	})
}

func statusTag(status checkStatus) string {
	switch status {
	case statusPass:
		return green("[PASS]")
	case statusWarn:
		return yellow("[WARN]")
	default:
		return red("[FAIL]")
	}
}
