package render

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/tartampluch/life-in-weeks/internal/engine"
)

// Captions carries the already translated stats labels.
type Captions struct {
	TotalWeeks     string
	WeeksLived     string
	WeeksRemaining string
	Age            string
	// Number formats counts for display; nil uses strconv.Itoa.
	Number func(int) string
}

// TerminalOptions tunes the terminal renderer.
type TerminalOptions struct {
	PastColor string
	// Width is the available column count. Zero asks the terminal and
	// means unlimited when the writer is not a TTY.
	Width    int
	Captions Captions
}

// GridWidth returns the columns a grid row needs, with or without spacing.
func GridWidth(compact bool) int {
	if compact {
		return config.TermLabelWidth + config.WeeksPerYear
	}
	return config.TermLabelWidth + config.WeeksPerYear*config.TermCellWidth
}

// TerminalWidth reports the width of w when it is a terminal.
func TerminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0, false
	}
	return width, true
}

// Terminal writes a stats box followed by the grid: lived weeks as filled
// dots in the past color, future weeks as hollow dots, weeks before birth
// as faint points. Unlabeled rows keep a blank label column.
func Terminal(w io.Writer, lc *engine.LifeCalendar, opts TerminalOptions) error {
	past, err := HexColor(pastColor(opts.PastColor, lc))
	if err != nil {
		return err
	}

	width := opts.Width
	if width == 0 {
		width, _ = TerminalWidth(w)
	}
	compact := width > 0 && width < GridWidth(false)
	if compact {
		slog.Debug(config.MsgTermNarrow,
			config.LogKeyComponent, config.CompRender,
			config.LogKeyWidth, width)
	}

	r := lipgloss.NewRenderer(w)
	glyphs := map[engine.Status]string{
		engine.StatusLived:       r.NewStyle().Foreground(lipgloss.Color(past)).Render(config.GlyphLived),
		engine.StatusFuture:      r.NewStyle().Foreground(lipgloss.Color(config.TermFutureColor)).Render(config.GlyphFuture),
		engine.StatusBeforeBirth: r.NewStyle().Foreground(lipgloss.Color(config.TermBeforeColor)).Faint(true).Render(config.GlyphBeforeBirth),
	}
	sep := " "
	if compact {
		sep = ""
	}

	var b strings.Builder
	b.WriteString(statsBox(r, lc.Stats, opts.Captions))
	b.WriteString("\n\n")

	for _, row := range lc.Grid.Rows {
		fmt.Fprintf(&b, "%-*s", config.TermLabelWidth, row.Label)
		for i, cell := range row.Cells {
			if i > 0 {
				b.WriteString(sep)
			}
			b.WriteString(glyphs[cell.Status])
		}
		b.WriteString("\n")
	}

	_, err = io.WriteString(w, b.String())
	return err
}

func statsBox(r *lipgloss.Renderer, stats engine.Stats, c Captions) string {
	number := c.Number
	if number == nil {
		number = strconv.Itoa
	}

	lines := []string{
		c.TotalWeeks + ": " + number(stats.TotalWeeks),
		c.WeeksLived + ": " + number(stats.WeeksLived),
		c.WeeksRemaining + ": " + number(stats.WeeksRemaining),
		c.Age + ": " + strconv.Itoa(stats.CurrentAge),
	}

	return r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(config.TermBorderColor)).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}
