package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/output"
)

var (
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	focusedPaneStyle = paneStyle.BorderForeground(lipgloss.Color("62"))

	headerStyle   = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const keysHelp = `tab      switch pane
j / k    move down / up
n        new task in the selected list
x        mark the selected task done or pending
d        delete the selected task
r        reload everything
?        show or hide this help
q        quit`

const helpLine = "tab pane  j/k move  n new  x done  d delete  r reload  ? keys  q quit"

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("taskboard"))
	b.WriteString("\n")

	if m.modal.IsOpen() {
		b.WriteString(m.modal.Render(m.modalWidth(), m.modalBody))
		b.WriteString("\n")
		return b.String()
	}

	left, right := paneStyle, paneStyle
	if m.focus == PaneWorkspaces {
		left = focusedPaneStyle
	} else {
		right = focusedPaneStyle
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		left.Render(m.renderWorkspaces()),
		right.Render(m.renderLists()),
	))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("error: " + m.err.Error()))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(helpLine))
	return b.String()
}

func (m *Model) modalWidth() int {
	if m.width > 0 && m.width < 60 {
		return m.width
	}
	return 60
}

func (m *Model) modalBody() string {
	switch m.mode {
	case modalNewTask:
		return m.input.View() + "\n\nenter to create"
	case modalConfirmDelete:
		return fmt.Sprintf("%s\n\ny to delete, n to keep", m.pending.Title)
	case modalKeys:
		return keysHelp
	}
	return ""
}

func (m *Model) renderWorkspaces() string {
	st := m.workspaces.State()
	items := m.workspaces.Items()
	if st.Loading && len(items) == 0 {
		return "loading..."
	}
	if len(items) == 0 {
		return "no workspaces"
	}

	lines := make([]string, len(items))
	for i, ws := range items {
		line := "  " + ws.Name
		if i == m.wsCursor {
			line = selectedStyle.Render("> " + ws.Name)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderLists() string {
	st := m.lists.State()
	rows := m.rows()
	if st.Loading && len(rows) == 0 {
		return "loading..."
	}
	if len(rows) == 0 {
		return "no lists"
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		var line string
		if r.isTask {
			var sb strings.Builder
			output.FormatTaskIndented(&sb, r.task)
			line = strings.TrimRight(sb.String(), "\n")
		} else {
			line = headerStyle.Render(r.list.Title)
		}
		if m.focus == PaneLists && i == m.rowCursor {
			line = selectedStyle.Render(line)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
