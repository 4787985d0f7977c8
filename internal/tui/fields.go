package tui

import (
	"fmt"
	"strings"

	"github.com/automize/automize/internal/iac"
)

// fieldsView renders the checkbox list with the cursor row highlighted and
// the editor, if any, under its field.
func fieldsView(fields []iac.Field, cursor, width int, editor *editorModel) string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Fields"))
	b.WriteByte('\n')

	for i, f := range fields {
		value := f.Value
		if f.Key.Multiline() {
			value = strings.ReplaceAll(value, "\n", " ⏎ ")
		}
		if limit := width - 22; limit > 3 && len([]rune(value)) > limit {
			value = string([]rune(value)[:limit-3]) + "..."
		}
		line := fmt.Sprintf("%s %-14s %s", checkbox(f.Selected), f.Label, styleDim.Render(value))
		if i == cursor && editor == nil {
			line = styleSelected.Width(width).Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
		if editor != nil && editor.key == f.Key {
			b.WriteString(editor.view())
			b.WriteByte('\n')
		}
	}
	return b.String()
}
