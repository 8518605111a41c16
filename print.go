package sqlw

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Print writes the rows of the open result that have not been fetched yet
// to w as a text table and returns how many it wrote. It leaves the cursor
// exhausted but does not free the result.
//
//	+----+------+
//	| id | name |
//	+----+------+
//	| 1  | a    |
//	+----+------+
//	1 row
func (c *Cursor) Print(w io.Writer) (int, error) {
	if c.stmt == nil {
		return 0, ErrNoResult
	}
	t := table{headers: c.Columns()}
	for c.FetchRow() {
		row := make([]string, len(c.cols))
		for i := range row {
			row[i] = c.stmt.Column(i).String()
		}
		t.rows = append(t.rows, row)
	}
	if err := c.Err(); err != nil {
		return len(t.rows), err
	}
	if err := t.render(w); err != nil {
		return len(t.rows), err
	}
	suffix := "s"
	if len(t.rows) == 1 {
		suffix = ""
	}
	_, err := fmt.Fprintf(w, "%d row%s\n", len(t.rows), suffix)
	return len(t.rows), err
}

// table is a minimal boxed text table.
type table struct {
	headers []string
	rows    [][]string
}

func (t *table) render(w io.Writer) error {
	widths := t.widths()
	if len(widths) == 0 {
		return nil
	}
	sep := separator(widths)
	var b strings.Builder
	b.WriteString(sep)
	b.WriteString(formatRow(t.headers, widths))
	b.WriteString(sep)
	for _, row := range t.rows {
		b.WriteString(formatRow(row, widths))
	}
	if len(t.rows) > 0 {
		b.WriteString(sep)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (t *table) widths() []int {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = max(1, utf8.RuneCountInString(h))
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(cell))
			}
		}
	}
	return widths
}

func separator(widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("-", w+2)
	}
	return "+" + strings.Join(parts, "+") + "+\n"
}

func formatRow(row []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		parts[i] = " " + cell + strings.Repeat(" ", w-utf8.RuneCountInString(cell)+1)
	}
	return "|" + strings.Join(parts, "|") + "|\n"
}
