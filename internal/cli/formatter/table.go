package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders aligned columns with a styled header row and a separator
// line. Column widths are the maximum visible width across headers and
// cells; lipgloss.Width keeps ANSI escape sequences out of the measurement.
type Table struct {
	Headers []string
	Rows    [][]string
	// RightAlign lists column indexes padded on the left, for numeric
	// columns such as points and day counts.
	RightAlign []int
}

const tableColGap = 2

// Render produces the table as a newline-terminated string.
func (t Table) Render() string {
	cols := len(t.Headers)
	if cols == 0 {
		return ""
	}

	widths := make([]int, cols)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i := 0; i < cols && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	right := make(map[int]bool, len(t.RightAlign))
	for _, i := range t.RightAlign {
		right[i] = true
	}

	var b strings.Builder
	for i, h := range t.Headers {
		t.writeCell(&b, StyleHeader.Render(h), lipgloss.Width(h), widths[i], right[i], i == cols-1)
	}
	b.WriteString("\n")

	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", tableColGap))
		}
	}
	b.WriteString("\n")

	for _, row := range t.Rows {
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			t.writeCell(&b, cell, lipgloss.Width(cell), widths[i], right[i], i == cols-1)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// writeCell pads one cell to width and appends the column gap. The last
// column is never padded on the right, keeping trailing whitespace out of
// the output.
func (t Table) writeCell(b *strings.Builder, cell string, visible, width int, alignRight, last bool) {
	pad := width - visible
	if pad < 0 {
		pad = 0
	}
	if alignRight {
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(cell)
		if !last {
			b.WriteString(strings.Repeat(" ", tableColGap))
		}
		return
	}
	b.WriteString(cell)
	if !last {
		b.WriteString(strings.Repeat(" ", pad+tableColGap))
	}
}

// RenderTable renders a left-aligned table, the common case.
func RenderTable(headers []string, rows [][]string) string {
	return Table{Headers: headers, Rows: rows}.Render()
}
