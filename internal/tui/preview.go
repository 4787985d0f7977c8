package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	bubbletea "github.com/charmbracelet/bubbletea"
)

// previewModel shows the rendered document in a scrollable viewport.
type previewModel struct {
	viewport viewport.Model
	doc      string
}

func newPreviewModel() previewModel {
	return previewModel{viewport: viewport.New(40, 20)}
}

func (m *previewModel) setSize(w, h int) {
	m.viewport.Width = w
	m.viewport.Height = h
	m.viewport.SetContent(styleCode.Render(m.doc))
}

// setDocument replaces the content. The viewport clamps the scroll offset
// when the document shrinks.
func (m *previewModel) setDocument(doc string) {
	m.doc = doc
	m.viewport.SetContent(styleCode.Render(doc))
}

func (m previewModel) update(msg bubbletea.Msg) (previewModel, bubbletea.Cmd) {
	var cmd bubbletea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m previewModel) view() string {
	return m.viewport.View()
}
