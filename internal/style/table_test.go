package style

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestTable_NoColumns(t *testing.T) {
	assert.Empty(t, NewTable().Render())
}

func TestTable_HeaderAndRows(t *testing.T) {
	SetColorMode("never")
	tbl := NewTable(
		Column{Name: "ID", Width: 8},
		Column{Name: "NAME", Width: 16},
		Column{Name: "FIELDS", Width: 6, Align: AlignRight},
	)
	tbl.AddRow("3f2a9c1e", "web tier", "4")
	tbl.AddRow("b71d0e44", "state backend", "2")

	got := lines(tbl.Render())
	require.Len(t, got, 4)
	assert.Equal(t, "  ID        NAME              FIELDS", got[0])
	assert.Equal(t, "  3f2a9c1e  web tier               4", got[2])
	assert.Contains(t, got[1], "────────")
}

func TestTable_ShortAndLongRows(t *testing.T) {
	SetColorMode("never")
	tbl := NewTable(Column{Name: "A", Width: 5}, Column{Name: "B", Width: 5})
	tbl.AddRow("x")
	tbl.AddRow("1", "2", "3")

	got := lines(tbl.Render())
	require.Len(t, got, 4)
	assert.Equal(t, "  x", got[2])
	assert.Equal(t, "  1      2", got[3])
}

func TestTable_Truncation(t *testing.T) {
	SetColorMode("never")
	tbl := NewTable(Column{Name: "Val", Width: 8})
	tbl.AddRow("provider \"aws\" {\n  region = x\n}")

	row := strings.TrimSpace(lines(tbl.Render())[2])
	assert.Equal(t, `provi...`, row)
}

func TestTable_StripsCallerStyling(t *testing.T) {
	SetColorMode("never")
	tbl := NewTable(Column{Name: "Val", Width: 4})
	tbl.AddRow("\x1b[31mok\x1b[0m")
	assert.Equal(t, "  ok", lines(tbl.Render())[2])
}

func TestTable_IndentAndSeparator(t *testing.T) {
	tbl := NewTable(Column{Name: "Col", Width: 5})
	tbl.SetIndent("> ")
	tbl.SetHeaderSeparator(false)
	tbl.AddRow("hi")

	got := lines(tbl.Render())
	require.Len(t, got, 2)
	for _, l := range got {
		assert.True(t, strings.HasPrefix(l, "> "), l)
	}
}

func TestPad(t *testing.T) {
	tbl := NewTable()
	assert.Equal(t, "hi    ", tbl.pad("hi", "hi", 6, AlignLeft))
	assert.Equal(t, "    hi", tbl.pad("hi", "hi", 6, AlignRight))
	assert.Equal(t, "  hi  ", tbl.pad("hi", "hi", 6, AlignCenter))
	assert.Equal(t, "hello", tbl.pad("hello", "hello", 5, AlignLeft))
}

func TestStripAnsi(t *testing.T) {
	assert.Equal(t, "hello", stripAnsi("hello"))
	assert.Equal(t, "text", stripAnsi("\x1b[1m\x1b[31mtext\x1b[0m"))
	assert.Equal(t, "", stripAnsi(""))
}
