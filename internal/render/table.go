// Package render formats command output for terminals.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

const columnGap = "  "

// Column describes one table column. Style, when set, decorates a cell after
// it has been padded, so escape codes never disturb alignment.
type Column struct {
	Header   string
	MaxWidth int
	Right    bool
	Style    func(cell, padded string) string
}

// Table is a width-aware text table.
type Table struct {
	columns []Column
	rows    [][]string
}

// NewTable creates a table with the given columns.
func NewTable(columns ...Column) *Table {
	return &Table{columns: columns}
}

// Append adds a row. Missing cells render empty; extra cells are dropped.
func (t *Table) Append(cells ...string) {
	row := make([]string, len(t.columns))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the header, a rule and every row to w.
func (t *Table) Render(w io.Writer) error {
	widths := t.widths()

	header := make([]string, len(t.columns))
	rule := make([]string, len(t.columns))
	for i, c := range t.columns {
		header[i] = pad(t.fit(i, c.Header), widths[i], c.Right)
		rule[i] = strings.Repeat("─", widths[i])
	}
	if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(header, columnGap), " ")); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Join(rule, columnGap)); err != nil {
		return err
	}

	for _, row := range t.rows {
		cells := make([]string, len(t.columns))
		for i, c := range t.columns {
			text := t.fit(i, row[i])
			padded := pad(text, widths[i], c.Right)
			if c.Style != nil {
				padded = c.Style(row[i], padded)
			}
			cells[i] = padded
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, columnGap), " ")); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) fit(col int, s string) string {
	limit := t.columns[col].MaxWidth
	if limit > 0 && runewidth.StringWidth(s) > limit {
		return runewidth.Truncate(s, limit, "…")
	}
	return s
}

func (t *Table) widths() []int {
	widths := make([]int, len(t.columns))
	for i, c := range t.columns {
		widths[i] = runewidth.StringWidth(t.fit(i, c.Header))
	}
	for _, row := range t.rows {
		for i := range t.columns {
			widths[i] = max(widths[i], runewidth.StringWidth(t.fit(i, row[i])))
		}
	}
	return widths
}

func pad(s string, width int, right bool) string {
	if right {
		return runewidth.FillLeft(s, width)
	}
	return runewidth.FillRight(s, width)
}
