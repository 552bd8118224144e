// Package formatter renders aligned markdown tables for the summary report.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// minColumnWidth keeps the separator at least "---".
const minColumnWidth = 3

// Table is a markdown table with a header row.
type Table struct {
	Header []string
	Rows   [][]string
}

// NewTable creates a table with the given header.
func NewTable(header ...string) *Table {
	return &Table{Header: header}
}

// Append adds a row. Missing cells render empty, extra cells widen the table.
func (t *Table) Append(cells ...string) *Table {
	t.Rows = append(t.Rows, cells)

	return t
}

// Lines renders the table, one string per line. Columns are padded to the
// display width of their widest cell, so wide runes line up too.
func (t *Table) Lines() []string {
	colCount := len(t.Header)
	for _, row := range t.Rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)

	measure := func(row []string) {
		for i := 0; i < len(row) && i < colCount; i++ {
			if w := runewidth.StringWidth(escapeCell(row[i])); w > widths[i] {
				widths[i] = w
			}
		}
	}

	measure(t.Header)

	for _, row := range t.Rows {
		measure(row)
	}

	for i := range widths {
		if widths[i] < minColumnWidth {
			widths[i] = minColumnWidth
		}
	}

	lines := make([]string, 0, len(t.Rows)+2)
	lines = append(lines, renderRow(t.Header, widths))

	separator := make([]string, colCount)
	for i, w := range widths {
		separator[i] = strings.Repeat("-", w)
	}

	lines = append(lines, renderRow(separator, widths))

	for _, row := range t.Rows {
		lines = append(lines, renderRow(row, widths))
	}

	return lines
}

// String renders the table with a trailing newline.
func (t *Table) String() string {
	lines := t.Lines()
	if len(lines) == 0 {
		return ""
	}

	return strings.Join(lines, "\n") + "\n"
}

func renderRow(row []string, widths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range widths {
		content := ""
		if j < len(row) {
			content = escapeCell(row[j])
		}

		sb.WriteString(" ")
		sb.WriteString(content)

		if padding := width - runewidth.StringWidth(content); padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}

		sb.WriteString(" |")
	}

	return sb.String()
}

// escapeCell keeps a cell on one line and stops pipes from splitting it.
func escapeCell(cell string) string {
	cell = strings.Join(strings.Fields(cell), " ")

	return strings.ReplaceAll(cell, "|", `\|`)
}
