// Package tui provides the interactive IaC editor: a checkbox list of
// fields, value editing, and a live preview of the rendered document.
package tui

import (
	"fmt"
	"strings"

	"github.com/automize/automize/internal/iac"
	"github.com/charmbracelet/bubbles/key"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Config holds the parameters needed to launch the editor.
type Config struct {
	Form      *iac.Form     // edited in place; nil starts empty
	User      string        // shown in the status bar
	Clipboard iac.Clipboard // nil disables copy
	OutDir    string        // where w writes terraform-config.tf

	// Save stores the form in the library and returns the saved name.
	// Nil disables saving.
	Save func(form *iac.Form) (string, error)
}

// Model is the root editor model.
type Model struct {
	cfg     Config
	form    *iac.Form
	cursor  int
	focus   focusArea
	editor  *editorModel
	preview previewModel
	bar     statusBar
	result  string
	width   int
	height  int
}

// New creates the editor model.
func New(cfg Config) Model {
	loadTheme()
	if cfg.Form == nil {
		cfg.Form = iac.EmptyForm()
	}
	m := Model{
		cfg:     cfg,
		form:    cfg.Form,
		preview: newPreviewModel(),
		bar:     newStatusBar(cfg.User),
	}
	m.resize(100, 30)
	m.refresh()
	return m
}

// Form returns the form being edited.
func (m Model) Form() *iac.Form { return m.form }

// Init implements bubbletea.Model.
func (m Model) Init() bubbletea.Cmd { return nil }

// Update processes messages.
func (m Model) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case bubbletea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case copiedMsg:
		m.result = resultText(msg.err, "Copied to clipboard")
		return m, nil

	case writtenMsg:
		m.result = resultText(msg.err, "Wrote "+msg.path)
		return m, nil

	case savedMsg:
		m.result = resultText(msg.err, fmt.Sprintf("Saved %q", msg.name))
		return m, nil

	case bubbletea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, bubbletea.Quit
		}
		switch m.focus {
		case focusEditor:
			return m.updateEditor(msg)
		case focusPreview:
			return m.updatePreview(msg)
		default:
			return m.updateFields(msg)
		}
	}

	if m.focus == focusEditor && m.editor != nil {
		return m, m.editor.update(msg)
	}
	return m, nil
}

func (m Model) updateFields(msg bubbletea.KeyMsg) (bubbletea.Model, bubbletea.Cmd) {
	cur := iac.FieldKey(m.cursor)
	switch {
	case key.Matches(msg, keys.Quit):
		return m, bubbletea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(iac.Keys())-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Toggle):
		m.form.Toggle(cur)
		m.refresh()

	case key.Matches(msg, keys.Edit):
		m.form.Select(cur, true)
		f, _ := m.form.Field(cur)
		m.editor = newEditor(f, m.listWidth()-4)
		m.focus = focusEditor
		m.refresh()

	case key.Matches(msg, keys.Focus):
		m.focus = focusPreview

	case key.Matches(msg, keys.Clear):
		m.form.Clear()
		m.result = ""
		m.refresh()

	case key.Matches(msg, keys.Copy):
		if m.cfg.Clipboard == nil {
			m.result = styleError.Render("clipboard unavailable")
			return m, nil
		}
		return m, copyDocument(m.cfg.Clipboard, m.form.Render())

	case key.Matches(msg, keys.Write):
		return m, writeDocument(m.cfg.OutDir, m.form.Render())

	case key.Matches(msg, keys.Save):
		if m.cfg.Save == nil {
			m.result = styleError.Render("sign in to save configurations")
			return m, nil
		}
		return m, saveForm(m.cfg.Save, m.form.Clone())
	}
	return m, nil
}

func (m Model) updateEditor(msg bubbletea.KeyMsg) (bubbletea.Model, bubbletea.Cmd) {
	if m.editor.finishes(msg) {
		m.editor = nil
		m.focus = focusFields
		return m, nil
	}
	cmd := m.editor.update(msg)
	m.form.Set(m.editor.key, m.editor.value())
	m.refresh()
	return m, cmd
}

func (m Model) updatePreview(msg bubbletea.KeyMsg) (bubbletea.Model, bubbletea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, bubbletea.Quit
	case key.Matches(msg, keys.Focus), key.Matches(msg, keys.Done):
		m.focus = focusFields
		return m, nil
	}
	var cmd bubbletea.Cmd
	m.preview, cmd = m.preview.update(msg)
	return m, cmd
}

// refresh re-renders the preview from the form.
func (m *Model) refresh() {
	m.preview.setDocument(m.form.Render())
}

func (m *Model) resize(w, h int) {
	m.width = w
	m.height = h
	m.bar.width = w
	// title + status bar + pane borders
	m.preview.setSize(max(w-m.listWidth()-6, 10), max(h-4, 3))
}

func (m Model) listWidth() int {
	return max(m.width*2/5, 30)
}

// View renders the editor.
func (m Model) View() string {
	title := styleTitle.Render("Create IaC Configuration")

	list := stylePane
	prev := stylePane
	if m.focus == focusPreview {
		prev = stylePaneFocused
	} else {
		list = stylePaneFocused
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		list.Width(m.listWidth()).Render(fieldsView(m.form.Fields(), m.cursor, m.listWidth()-2, m.editor)),
		prev.Render(styleTitle.Render("Preview")+"\n"+m.preview.view()),
	)
	return strings.Join([]string{title, body, m.bar.render(m.hints(), m.result)}, "\n")
}

func (m Model) hints() string {
	switch m.focus {
	case focusEditor:
		if m.editor != nil && m.editor.multiline {
			return "esc: done"
		}
		return "enter/esc: done"
	case focusPreview:
		return "j/k: scroll  tab: fields  q: quit"
	}
	hints := "space: toggle  enter: edit  c: copy  w: write  x: clear"
	if m.cfg.Save != nil {
		hints += "  s: save"
	}
	return hints + "  q: quit"
}

func resultText(err error, ok string) string {
	if err != nil {
		return styleError.Render("Error: " + err.Error())
	}
	return styleSuccess.Render(ok)
}

func copyDocument(cb iac.Clipboard, doc string) bubbletea.Cmd {
	return func() bubbletea.Msg {
		return copiedMsg{err: iac.Copy(cb, doc)}
	}
}

func writeDocument(dir, doc string) bubbletea.Cmd {
	return func() bubbletea.Msg {
		path, err := iac.WriteDocument(dir, doc)
		return writtenMsg{path: path, err: err}
	}
}

func saveForm(save func(*iac.Form) (string, error), form *iac.Form) bubbletea.Cmd {
	return func() bubbletea.Msg {
		name, err := save(form)
		return savedMsg{name: name, err: err}
	}
}

// Run starts the editor on the terminal and returns the final form.
func Run(cfg Config) (*iac.Form, error) {
	m := New(cfg)
	final, err := bubbletea.NewProgram(m, bubbletea.WithAltScreen()).Run()
	if err != nil {
		return nil, err
	}
	return final.(Model).Form(), nil
}
