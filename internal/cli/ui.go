package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan   = lipgloss.Color("36")  // Teal - headings
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - missing counts
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHeader for table header cells.
	StyleHeader = lipgloss.NewStyle().Bold(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleMissing for missing counts and reasons.
	StyleMissing = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
)

const (
	iconSuccess = "✓"
	iconArrow   = "→"
	noValue     = "-"
)

func printTitle(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf(format, args...)))
}

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// grid renders rows as left-aligned columns. Each cell is styled by the
// style of its column; header cells use StyleHeader.
type grid struct {
	header []string
	styles []lipgloss.Style
	rows   [][]string
}

func newGrid(header []string, styles ...lipgloss.Style) *grid {
	return &grid{header: header, styles: styles}
}

func (g *grid) add(cells ...string) {
	g.rows = append(g.rows, cells)
}

func (g *grid) render(w io.Writer) {
	widths := make([]int, len(g.header))
	for j, h := range g.header {
		widths[j] = lipgloss.Width(h)
	}
	for _, row := range g.rows {
		for j, cell := range row {
			widths[j] = max(widths[j], lipgloss.Width(cell))
		}
	}

	line := func(cells []string, style func(j int) lipgloss.Style) string {
		parts := make([]string, len(cells))
		for j, cell := range cells {
			parts[j] = style(j).Width(widths[j]).Render(cell)
		}

		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	fmt.Fprintln(w, line(g.header, func(int) lipgloss.Style { return StyleHeader }))
	for _, row := range g.rows {
		fmt.Fprintln(w, line(row, func(j int) lipgloss.Style {
			if j < len(g.styles) {
				return g.styles[j]
			}

			return StyleValue
		}))
	}
}
