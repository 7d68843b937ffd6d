package display

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Table renders an aligned text table. Widths are measured in terminal
// cells so Arabic month names and box glyphs line up.
type Table struct {
	headers []string
	rows    [][]string
	// highlight is the 0-based row drawn with Accent, -1 for none.
	highlight int
	// warn marks rows drawn with Warning.
	warn map[int]bool
}

// NewTable creates a table with the given column headers.
func NewTable(headers []string) *Table {
	return &Table{headers: headers, highlight: -1, warn: map[int]bool{}}
}

// AddRow appends a row of values.
func (t *Table) AddRow(values []string) {
	t.rows = append(t.rows, values)
}

// SetHighlightRow sets which row is highlighted.
func (t *Table) SetHighlightRow(idx int) {
	t.highlight = idx
}

// SetWarnRow marks a row as untrustworthy.
func (t *Table) SetWarnRow(idx int) {
	t.warn[idx] = true
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Render produces the table with a two-space indent.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}

	var sb strings.Builder
	sb.WriteString("  " + Bold(formatRow(t.headers, widths)) + "\n")

	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("─", w)
	}
	sb.WriteString(Dim("  "+strings.Join(sep, "  ")) + "\n")

	for i, row := range t.rows {
		line := formatRow(row, widths)
		switch {
		case i == t.highlight:
			line = Accent(line)
		case t.warn[i]:
			line = Warning(line)
		}
		sb.WriteString("  " + line + "\n")
	}
	return sb.String()
}

func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if i == len(widths)-1 {
			parts[i] = cell
			continue
		}
		parts[i] = runewidth.FillRight(cell, w)
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}
