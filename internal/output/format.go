// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskboard/internal/service"
)

const (
	// ListSeparator is the separator line for list sections.
	ListSeparator = "------------"

	// DateLayout is used for due dates.
	DateLayout = "2006-01-02"
)

// FormatTask formats a task line.
// Format: "{ID:>4}  [{S}] {TITLE}  ({PRIORITY}[, due {DATE}])\n"
// where S is ' ' pending, '~' in progress, 'x' completed.
func FormatTask(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "%4d  %s\n", task.ID, taskLine(task))
}

// FormatTaskIndented formats a task line inside a list section.
func FormatTaskIndented(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "    %4d  %s\n", task.ID, taskLine(task))
}

func taskLine(task service.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%c] %s  (%s", statusMark(task.Status), normalizeTitle(task.Title), priorityName(task.Priority))
	if !task.DueDate.IsZero() {
		fmt.Fprintf(&b, ", due %s", task.DueDate.UTC().Format(DateLayout))
	}
	b.WriteString(")")
	if len(task.Labels) > 0 {
		titles := make([]string, len(task.Labels))
		for i, l := range task.Labels {
			titles[i] = "#" + l.Title
		}
		b.WriteString("  " + strings.Join(titles, " "))
	}
	return b.String()
}

func statusMark(s service.Status) rune {
	switch s {
	case service.StatusInProgress:
		return '~'
	case service.StatusCompleted:
		return 'x'
	}
	return ' '
}

// priorityName shows a missing priority as low, the default for new tasks.
func priorityName(p service.Priority) string {
	if p == 0 {
		return service.PriorityLow.String()
	}
	return p.String()
}

// FormatListHeader formats a list section header.
func FormatListHeader(w io.Writer, list service.List) {
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintf(w, "%d  %s\n", list.ID, normalizeTitle(list.Title))
	fmt.Fprintln(w, ListSeparator)
}

// FormatList formats a list line for the lists command.
func FormatList(w io.Writer, list service.List) {
	fmt.Fprintf(w, "%4d  %s\n", list.ID, normalizeTitle(list.Title))
}

// FormatWorkspace formats a workspace line.
// Format: "{ID:>4}  {NAME}  [{private|public}] {ACCESS CODE}\n"
func FormatWorkspace(w io.Writer, ws service.Workspace) {
	fmt.Fprintf(w, "%4d  %s  [%s]", ws.ID, normalizeTitle(ws.Name), strings.ToLower(string(ws.Type)))
	if ws.AccessCode != "" {
		fmt.Fprintf(w, " %s", ws.AccessCode)
	}
	fmt.Fprintln(w)
}

// FormatLabel formats a label line.
func FormatLabel(w io.Writer, l service.Label) {
	color := l.Color
	if color == "" {
		color = "-"
	}
	fmt.Fprintf(w, "%4d  %-7s  %s\n", l.ID, color, normalizeTitle(l.Title))
}

// FormatAttachment formats an attachment line.
func FormatAttachment(w io.Writer, a service.Attachment) {
	fmt.Fprintf(w, "%4d  %s", a.ID, normalizeTitle(a.FileName))
	if a.URL != "" {
		fmt.Fprintf(w, "  %s", a.URL)
	}
	fmt.Fprintln(w)
}

// FormatUser formats the account summary.
func FormatUser(w io.Writer, u service.User) {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = "(no name)"
	}
	fmt.Fprintf(w, "%s <%s>\n", name, u.Email)
}

// normalizeTitle normalizes a title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
