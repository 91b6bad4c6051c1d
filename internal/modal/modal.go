// Package modal is an open/closed overlay controller for the board.
package modal

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true)

	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Modal tracks whether an overlay is shown. The zero value is closed.
type Modal struct {
	Title string

	// OnClose runs once per transition from open to closed.
	OnClose func()

	open bool
}

// New returns a closed modal with a title.
func New(title string) *Modal {
	return &Modal{Title: title}
}

// Open shows the modal.
func (m *Modal) Open() {
	m.open = true
}

// Close hides the modal. Closing a closed modal does nothing.
func (m *Modal) Close() {
	if !m.open {
		return
	}
	m.open = false
	if m.OnClose != nil {
		m.OnClose()
	}
}

// Toggle flips between open and closed.
func (m *Modal) Toggle() {
	if m.open {
		m.Close()
		return
	}
	m.Open()
}

// IsOpen reports whether the modal is shown.
func (m *Modal) IsOpen() bool {
	return m.open
}

// HandleKey closes the modal on esc while open and reports whether the key
// was consumed. Nothing is consumed while closed.
func (m *Modal) HandleKey(key string) bool {
	if !m.open {
		return false
	}
	if key == "esc" {
		m.Close()
		return true
	}
	return false
}

// Backdrop is a click outside the content. It closes the modal.
func (m *Modal) Backdrop() {
	m.Close()
}

// Render draws the modal around body. While closed it returns "" without
// calling body.
func (m *Modal) Render(width int, body func() string) string {
	if !m.open {
		return ""
	}

	content := body()
	if m.Title != "" {
		content = titleStyle.Render(m.Title) + "\n\n" + content
	}
	content += "\n\n" + hintStyle.Render("esc to close")

	style := boxStyle
	if width > 4 {
		style = style.Width(width - 2)
	}
	return style.Render(content)
}
