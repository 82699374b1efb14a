// Package table renders rows of strings as an ASCII table with +-|
// borders. Cell content may contain ANSI color codes; widths are
// computed on the stripped text so colored cells stay aligned.
package table

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Alignment controls how cell content is padded within its column.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

var ansiPattern = regexp.MustCompile("\x1b\\[[0-9;]*m")

func stripAnsi(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// Table accumulates rows and renders them to a writer.
type Table struct {
	writer          io.Writer
	header          []string
	rows            [][]string
	columnAlignment []Alignment
	headerAlignment []Alignment
}

// NewTable creates a table that renders to the given writer.
func NewTable(writer io.Writer) *Table {
	return &Table{writer: writer}
}

// WithHeader sets the header row.
func (t *Table) WithHeader(header []string) *Table {
	t.header = header
	return t
}

// WithColumnAlignment sets per-column alignment for body rows.
func (t *Table) WithColumnAlignment(alignment []Alignment) *Table {
	t.columnAlignment = alignment
	return t
}

// WithHeaderAlignment sets per-column alignment for the header row.
func (t *Table) WithHeaderAlignment(alignment []Alignment) *Table {
	t.headerAlignment = alignment
	return t
}

// Append adds one body row.
func (t *Table) Append(row []string) *Table {
	t.rows = append(t.rows, row)
	return t
}

// WithRows replaces all body rows.
func (t *Table) WithRows(rows [][]string) *Table {
	t.rows = rows
	return t
}

func (t *Table) columnCount() int {
	count := len(t.header)
	for _, row := range t.rows {
		if len(row) > count {
			count = len(row)
		}
	}
	return count
}

func (t *Table) columnWidths() []int {
	widths := make([]int, t.columnCount())
	measure := func(row []string) {
		for i, cell := range row {
			if w := len(stripAnsi(cell)); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.header)
	for _, row := range t.rows {
		measure(row)
	}
	return widths
}

// pad aligns content within width, accounting for invisible ANSI codes.
func pad(content string, width int, alignment Alignment) string {
	visible := len(stripAnsi(content))
	if visible >= width {
		return content
	}
	gap := width - visible
	switch alignment {
	case AlignRight:
		return strings.Repeat(" ", gap) + content
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + content + strings.Repeat(" ", gap-left)
	default:
		return content + strings.Repeat(" ", gap)
	}
}

func (t *Table) alignmentFor(alignments []Alignment, col int) Alignment {
	if col < len(alignments) {
		return alignments[col]
	}
	return AlignLeft
}

func (t *Table) writeSeparator(widths []int) {
	var sb strings.Builder
	for _, w := range widths {
		sb.WriteString("+")
		sb.WriteString(strings.Repeat("-", w+2))
	}
	sb.WriteString("+\n")
	fmt.Fprint(t.writer, sb.String())
}

func (t *Table) writeRow(row []string, widths []int, alignments []Alignment) {
	var sb strings.Builder
	for i, w := range widths {
		var cell string
		if i < len(row) {
			cell = row[i]
		}
		sb.WriteString("| ")
		sb.WriteString(pad(cell, w, t.alignmentFor(alignments, i)))
		sb.WriteString(" ")
	}
	sb.WriteString("|\n")
	fmt.Fprint(t.writer, sb.String())
}

// Render writes the complete table.
func (t *Table) Render() {
	widths := t.columnWidths()
	if len(widths) == 0 {
		return
	}
	t.writeSeparator(widths)
	if len(t.header) > 0 {
		t.writeRow(t.header, widths, t.headerAlignment)
		t.writeSeparator(widths)
	}
	for _, row := range t.rows {
		t.writeRow(row, widths, t.columnAlignment)
	}
	t.writeSeparator(widths)
}
