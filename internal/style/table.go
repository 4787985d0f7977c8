package style

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Align positions a cell within its column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
)

// Column describes one table column. Cells longer than Width are truncated
// with "...".
type Column struct {
	Name  string
	Width int
	Align Align
	Style Style
}

// Table renders fixed-width rows such as the saved-configuration list.
type Table struct {
	columns   []Column
	rows      [][]string
	indent    string
	separator bool
}

// NewTable returns a table with a two-space indent and a header separator.
func NewTable(columns ...Column) *Table {
	return &Table{columns: columns, indent: "  ", separator: true}
}

// SetIndent sets the prefix written before every line.
func (t *Table) SetIndent(indent string) { t.indent = indent }

// SetHeaderSeparator toggles the rule under the header.
func (t *Table) SetHeaderSeparator(on bool) { t.separator = on }

// AddRow appends a row. Missing trailing cells render empty; extra cells are
// dropped.
func (t *Table) AddRow(values ...string) {
	row := make([]string, len(t.columns))
	copy(row, values)
	t.rows = append(t.rows, row)
}

// Render returns the table, or "" when it has no columns.
func (t *Table) Render() string {
	if len(t.columns) == 0 {
		return ""
	}
	var b strings.Builder

	header := make([]string, len(t.columns))
	for i, c := range t.columns {
		text := truncate(c.Name, c.Width)
		header[i] = t.pad(Bold.Render(text), text, c.Width, c.Align)
	}
	t.writeLine(&b, header)

	if t.separator {
		rules := make([]string, len(t.columns))
		for i, c := range t.columns {
			rules[i] = Dim.Render(strings.Repeat("─", c.Width))
		}
		t.writeLine(&b, rules)
	}

	for _, row := range t.rows {
		cells := make([]string, len(t.columns))
		for i, c := range t.columns {
			text := truncate(stripAnsi(row[i]), c.Width)
			cells[i] = t.pad(c.Style.Render(text), text, c.Width, c.Align)
		}
		t.writeLine(&b, cells)
	}
	return b.String()
}

func (t *Table) writeLine(b *strings.Builder, cells []string) {
	b.WriteString(t.indent)
	b.WriteString(strings.TrimRight(strings.Join(cells, "  "), " "))
	b.WriteByte('\n')
}

// pad widens styled to width using the visible width of text.
func (t *Table) pad(styled, text string, width int, align Align) string {
	gap := width - lipgloss.Width(text)
	if gap <= 0 {
		return styled
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", gap) + styled
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + styled + strings.Repeat(" ", gap-left)
	default:
		return styled + strings.Repeat(" ", gap)
	}
}

func truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	if width <= 3 {
		return strings.Repeat(".", width)
	}
	r := []rune(s)
	if len(r) > width-3 {
		r = r[:width-3]
	}
	return string(r) + "..."
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripAnsi(s string) string { return ansiPattern.ReplaceAllString(s, "") }
