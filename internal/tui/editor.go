package tui

import (
	"github.com/automize/automize/internal/iac"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	bubbletea "github.com/charmbracelet/bubbletea"
)

// editorModel edits one field value. Multiline fields get a textarea, the
// rest a single-line input.
type editorModel struct {
	key       iac.FieldKey
	multiline bool
	input     textinput.Model
	area      textarea.Model
}

func newEditor(f iac.Field, width int) *editorModel {
	e := &editorModel{key: f.Key, multiline: f.Key.Multiline()}
	if e.multiline {
		ta := textarea.New()
		ta.SetWidth(max(width, 20))
		ta.SetHeight(6)
		ta.ShowLineNumbers = false
		ta.SetValue(f.Value)
		ta.Focus()
		e.area = ta
		return e
	}
	ti := textinput.New()
	ti.Placeholder = "Enter " + f.Label
	ti.CharLimit = 500
	ti.Width = max(width, 20)
	ti.SetValue(f.Value)
	ti.CursorEnd()
	ti.Focus()
	e.input = ti
	return e
}

// finishes reports whether msg ends editing: esc always, enter only for
// single-line fields.
func (e *editorModel) finishes(msg bubbletea.KeyMsg) bool {
	if msg.Type == bubbletea.KeyEsc {
		return true
	}
	return !e.multiline && msg.Type == bubbletea.KeyEnter
}

func (e *editorModel) update(msg bubbletea.Msg) bubbletea.Cmd {
	var cmd bubbletea.Cmd
	if e.multiline {
		e.area, cmd = e.area.Update(msg)
	} else {
		e.input, cmd = e.input.Update(msg)
	}
	return cmd
}

func (e *editorModel) value() string {
	if e.multiline {
		return e.area.Value()
	}
	return e.input.Value()
}

func (e *editorModel) view() string {
	if e.multiline {
		return e.area.View()
	}
	return e.input.View()
}
