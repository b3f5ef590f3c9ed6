package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

const columnGap = 2

// table collects rows and prints them aligned when w is a terminal, or as
// tab-separated values otherwise.
type table struct {
	w       io.Writer
	headers []string
	rows    [][]string
	aligned bool
	width   int
}

func newTable(w io.Writer, headers ...string) *table {
	t := &table{w: w, headers: headers}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		t.aligned = true
		if width, _, err := term.GetSize(int(f.Fd())); err == nil {
			t.width = width
		}
	}
	return t
}

func (t *table) Row(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) Flush() error {
	var lines []string
	if t.aligned {
		lines = alignRows(t.headers, t.rows, t.width)
	} else {
		lines = tsvRows(t.headers, t.rows)
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(t.w, line); err != nil {
			return err
		}
	}
	return nil
}

func tsvRows(headers []string, rows [][]string) []string {
	out := make([]string, 0, len(rows)+1)
	out = append(out, strings.Join(headers, "\t"))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.NewReplacer("\t", " ", "\n", " ").Replace(c)
		}
		out = append(out, strings.Join(cells, "\t"))
	}
	return out
}

// alignRows pads every column to its widest cell. When maxWidth is positive
// each line is cut to fit it.
func alignRows(headers []string, rows [][]string, maxWidth int) []string {
	widths := make([]int, len(headers))
	measure := func(row []string) {
		for i, c := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(c))
			}
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}

	format := func(row []string) string {
		var b strings.Builder
		for i, c := range row {
			if i >= len(widths) {
				break
			}
			b.WriteString(c)
			if i < len(row)-1 && i < len(widths)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(c)+columnGap))
			}
		}
		return fitWidth(b.String(), maxWidth)
	}

	out := make([]string, 0, len(rows)+1)
	out = append(out, format(headers))
	for _, row := range rows {
		out = append(out, format(row))
	}
	return out
}

func fitWidth(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	if width <= 3 {
		return string([]rune(s)[:width])
	}
	return string([]rune(s)[:width-3]) + "..."
}
