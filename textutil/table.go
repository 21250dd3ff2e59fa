package textutil

import (
	"errors"
	"strings"

	"golang.org/x/text/width"
)

// ErrNoTable is returned when text has content but no header separator
var ErrNoTable = errors.New("no table header found")

// Table is a fixed-width console table such as PowerShell's Format-Table
type Table struct {
	Columns []string
	Rows    [][]string
}

// Index returns the position of the named column or -1
func (t Table) Index(name string) int {
	for i, c := range t.Columns {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

// Value returns the cell of row in the named column
func (t Table) Value(row []string, name string) string {
	i := t.Index(name)
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

type span struct{ start, end int }

// ParseTable reads a header line, a separator line of dashes and the rows
// below it. Column boundaries come from the dash runs, so cells may hold
// spaces and column widths may vary between invocations. Widths are
// measured in console cells: East Asian wide runes count twice.
func ParseTable(text string) (Table, error) {
	var t Table

	lines := Lines(text)
	sep := -1
	for i := 1; i < len(lines); i++ {
		if isSeparator(lines[i]) {
			sep = i
			break
		}
	}
	if sep < 0 {
		if len(NonEmptyLines(text)) == 0 {
			return t, nil
		}
		return t, ErrNoTable
	}

	spans := dashSpans(lines[sep])
	for _, h := range cells(lines[sep-1], spans) {
		t.Columns = append(t.Columns, h)
	}

	for _, line := range lines[sep+1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		t.Rows = append(t.Rows, cells(line, spans))
	}
	return t, nil
}

func isSeparator(line string) bool {
	line = strings.TrimSpace(line)
	return line != "" && strings.Trim(line, "- ") == ""
}

// dashSpans returns each dash run as a column. A column runs up to the
// start of the next one; the last one runs to the end of the line.
func dashSpans(line string) []span {
	var (
		spans []span
		col   int
		in    bool
	)
	for _, r := range line {
		if r == '-' && !in {
			spans = append(spans, span{start: col})
			in = true
		} else if r != '-' {
			in = false
		}
		col += runeCells(r)
	}
	for i := range spans {
		if i+1 < len(spans) {
			spans[i].end = spans[i+1].start
		} else {
			spans[i].end = -1
		}
	}
	return spans
}

func cells(line string, spans []span) []string {
	out := make([]string, len(spans))
	var (
		col int
		b   = make([]strings.Builder, len(spans))
	)
	for _, r := range line {
		for i, s := range spans {
			if col >= s.start && (s.end < 0 || col < s.end) {
				b[i].WriteRune(r)
				break
			}
		}
		col += runeCells(r)
	}
	for i := range out {
		out[i] = strings.TrimSpace(b[i].String())
	}
	return out
}

func runeCells(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}
