package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	boxChecked   = "☑"
	boxUnchecked = "☐"
)

// styles renders through a renderer bound to the destination writer, so
// colors are dropped when output is not a terminal.
type styles struct {
	title   lipgloss.Style
	success lipgloss.Style
	pending lipgloss.Style
	muted   lipgloss.Style
	errStr  lipgloss.Style
	done    lipgloss.Style
	border  lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Bold(true),
		success: r.NewStyle().Foreground(lipgloss.Color("42")),
		pending: r.NewStyle().Foreground(lipgloss.Color("214")),
		muted:   r.NewStyle().Faint(true),
		errStr:  r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		done:    r.NewStyle().Faint(true).Strikethrough(true),
		border: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1),
	}
}

func (r *runner) ok(msg string) {
	fmt.Fprintln(r.out, r.outStyles.success.Render("✔ "+msg))
}

func (r *runner) fail(msg string) {
	fmt.Fprintln(r.errOut, r.errStyles.errStr.Render("✖ "+msg))
}

func (r *runner) panel(lines []string) {
	fmt.Fprintln(r.out, r.outStyles.border.Render(strings.Join(lines, "\n")))
}

func progressBar(done, total, width int) string {
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + fmt.Sprintf("] %d/%d", done, total)
}
