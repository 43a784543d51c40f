package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wpnuxt/wpnuxi/internal/events"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// themeColor is the WPNuxt accent.
const themeColor = lipgloss.Color("#00DC82")

// printer renders progress either for humans or as NDJSON events.
type printer struct {
	out      io.Writer
	emitter  *events.Emitter
	renderer *lipgloss.Renderer
}

func newPrinter(cmd *cobra.Command, jsonOutput bool) *printer {
	p := &printer{out: cmd.OutOrStdout()}
	if jsonOutput {
		p.emitter = events.NewEmitter(p.out)
	}
	p.renderer = lipgloss.NewRenderer(p.out)
	return p
}

func (p *printer) json() bool { return p.emitter != nil }

// Step implements scaffold.Progress.
func (p *printer) Step(message string) {
	if p.json() {
		_ = p.emitter.Record(events.TypeStep, message, nil)
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", green("✓"), message)
}

// Warn implements scaffold.Progress.
func (p *printer) Warn(message string) {
	if p.json() {
		_ = p.emitter.Record(events.TypeWarning, message, nil)
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", yellow("!"), message)
}

func (p *printer) banner(title string) {
	if p.json() {
		return
	}
	style := p.renderer.NewStyle().Bold(true).Foreground(themeColor)
	fmt.Fprintf(p.out, "\n%s\n\n", style.Render(title))
}

// box frames lines in a rounded border.
func (p *printer) box(lines []string) {
	style := p.renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	fmt.Fprintln(p.out, style.Render(strings.Join(lines, "\n")))
}
