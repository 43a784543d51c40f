package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wpnuxt/wpnuxi/internal/envfile"
	"github.com/wpnuxt/wpnuxi/internal/events"
	"github.com/wpnuxt/wpnuxi/internal/pkgjson"
	"github.com/wpnuxt/wpnuxi/internal/pkgmanager"
	"github.com/wpnuxt/wpnuxi/internal/toolchain"
	"github.com/wpnuxt/wpnuxi/internal/wordpress"
)

type infoRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

var infoPackages = []string{"@wpnuxt/core", "nuxt", "@nuxt/ui"}

func newInfoCmd(d *deps) *cobra.Command {
	var (
		cwd        string
		remote     bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show environment and project information",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := d.projectDir(cwd)
			if err != nil {
				return err
			}

			rows, err := collectInfo(cmd.Context(), d, dir, remote)
			if err != nil {
				return err
			}

			if jsonOutput {
				emitter := events.NewEmitter(cmd.OutOrStdout())
				for _, row := range rows {
					_ = emitter.Record(events.TypeInfo, row.Label, map[string]interface{}{"value": row.Value})
				}
				return nil
			}

			out := newPrinter(cmd, false)
			out.banner("WPNuxt Project Info")
			printInfoTable(out, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&cwd, "cwd", ".", "Project directory")
	cmd.Flags().BoolVar(&remote, "remote", false, "Also fetch the WordPress version from the site")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit NDJSON events instead of text")

	return cmd
}

func collectInfo(ctx context.Context, d *deps, dir string, remote bool) ([]infoRow, error) {
	rows := []infoRow{{Label: "OS", Value: runtime.GOOS + " " + runtime.GOARCH}}

	node := "not found"
	if d.runner != nil {
		if version, err := toolchain.NodeVersion(ctx, d.runner); err == nil {
			node = version
		}
	}
	rows = append(rows, infoRow{Label: "Node.js", Value: node})

	pm := pkgmanager.DetectFromLockfile(dir)
	rows = append(rows, infoRow{Label: "Package Manager", Value: pm.String()})

	manifest, err := pkgjson.LoadDir(dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		rows = append(rows, infoRow{Label: pkgjson.FileName, Value: "not found"})
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", pkgjson.FileName, err)
	default:
		for _, name := range infoPackages {
			if version := manifest.Version(name); version != "" {
				rows = append(rows, infoRow{Label: name, Value: version})
			}
		}
	}

	env, err := envfile.ParseDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", envfile.FileName, err)
	}
	siteURL := env[envfile.WordPressURLKey]
	if siteURL == "" {
		return append(rows, infoRow{Label: "WordPress URL", Value: "not set"}), nil
	}
	rows = append(rows,
		infoRow{Label: "WordPress URL", Value: siteURL},
		infoRow{Label: "GraphQL Endpoint", Value: wordpress.ResolveGraphQLURL(siteURL)},
	)

	if remote {
		version, err := wordpress.NewProber(d.httpClient).DetectVersion(ctx, siteURL)
		if err != nil {
			if d.logger != nil {
				d.logger.Debug("wordpress version lookup failed", zap.String("url", siteURL), zap.Error(err))
			}
			version = "unknown"
		}
		rows = append(rows, infoRow{Label: "WordPress Version", Value: version})
	}
	return rows, nil
}

func printInfoTable(out *printer, rows []infoRow) {
	width := 0
	for _, row := range rows {
		if w := lipgloss.Width(row.Label); w > width {
			width = w
		}
	}
	for _, row := range rows {
		pad := strings.Repeat(" ", width-lipgloss.Width(row.Label))
		fmt.Fprintf(out.out, "  %s%s  %s\n", cyan(row.Label+":"), pad, row.Value)
	}
}
