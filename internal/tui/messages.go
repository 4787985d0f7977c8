package tui

// focusArea identifies which pane receives keys.
type focusArea int

const (
	focusFields focusArea = iota
	focusEditor
	focusPreview
)

// copiedMsg carries the result of a clipboard copy.
type copiedMsg struct {
	err error
}

// writtenMsg carries the result of writing the document to disk.
type writtenMsg struct {
	path string
	err  error
}

// savedMsg carries the result of saving the form to the library.
type savedMsg struct {
	name string
	err  error
}
