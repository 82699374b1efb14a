package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf)
	table.WithHeader([]string{"HEADER1", "H2", "h3"})
	table.WithColumnAlignment([]Alignment{AlignLeft, AlignRight, AlignLeft})
	table.WithHeaderAlignment([]Alignment{AlignCenter, AlignCenter, AlignRight})
	table.Append([]string{"ROW1", "ROW2", "foo bar"})
	table.Append([]string{"a", "b", "c"})
	table.Render()

	expected := `
+---------+------+---------+
| HEADER1 |  H2  |      h3 |
+---------+------+---------+
| ROW1    | ROW2 | foo bar |
| a       |    b | c       |
+---------+------+---------+
`
	require.Equal(t, strings.TrimSpace(expected)+"\n", buf.String())
}

func TestColoredTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf)
	table.WithHeader([]string{"HEADER1", "HEADER2"})
	table.WithColumnAlignment([]Alignment{AlignLeft, AlignRight})
	table.Append([]string{"\x1b[1mBold text\x1b[0m", "12345"})
	table.Append([]string{"Normal", "\x1b[32m999\x1b[0m"})
	table.Render()

	// Color codes must not affect column widths.
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.True(t, len(lines) >= 5)
	width := len(lines[0])
	for i, line := range lines {
		require.Equal(t, width, len(stripAnsi(line)), "line %d has wrong width", i)
	}
}

func TestWithRows(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf).
		WithHeader([]string{"A", "B"}).
		WithRows([][]string{{"1", "2"}, {"3", "4"}}).
		Render()
	expected := `
+---+---+
| A | B |
+---+---+
| 1 | 2 |
| 3 | 4 |
+---+---+
`
	require.Equal(t, strings.TrimSpace(expected)+"\n", buf.String())
}

func TestEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf).Render()
	require.Equal(t, "", buf.String())
}

func TestStripAnsi(t *testing.T) {
	require.Equal(t, "plain", stripAnsi("plain"))
	require.Equal(t, "red", stripAnsi("\x1b[31mred\x1b[0m"))
}
