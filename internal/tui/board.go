// Package tui is the interactive board: workspaces on the left, the lists of
// the selected workspace and their tasks on the right.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/collection"
	"taskboard/internal/compose"
	"taskboard/internal/logging"
	"taskboard/internal/modal"
	"taskboard/internal/service"
)

// Pane is the focused half of the board.
type Pane int

const (
	PaneWorkspaces Pane = iota
	PaneLists
)

type modalMode int

const (
	modalNone modalMode = iota
	modalNewTask
	modalConfirmDelete
	modalKeys
)

// Options configures the board.
type Options struct {
	// CreateTimeout bounds the create step of a new task.
	CreateTimeout time.Duration
}

// row is one line of the right pane: a list header or one of its tasks.
type row struct {
	list   service.List
	task   service.Task
	isTask bool
}

// Model is the bubbletea model of the board.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	svc      service.Service
	userID   int64
	notifier *collection.Notifier
	creator  *compose.Creator

	workspaces *collection.Collection[service.Workspace]
	lists      *collection.Collection[service.List]
	tasks      map[int64]*collection.Collection[service.Task]

	changes     <-chan collection.Change
	unsubscribe func()
	listen      func() tea.Cmd

	focus     Pane
	wsCursor  int
	rowCursor int

	modal   *modal.Modal
	mode    modalMode
	input   textinput.Model
	pending service.Task

	status string
	err    error
	width  int
	height int
}

// Messages produced by backend commands.
type (
	workspacesLoadedMsg struct{ err error }
	listsLoadedMsg      struct {
		workspaceID int64
		err         error
	}
	tasksLoadedMsg struct {
		listID int64
		err    error
	}
	taskCreatedMsg struct {
		res compose.Result
		err error
	}
	taskUpdatedMsg struct {
		task service.Task
		err  error
	}
	taskDeletedMsg struct {
		task service.Task
		err  error
	}
	changeMsg struct{ change collection.Change }
)

// New builds a board for userID. Call Close when the program exits.
func New(ctx context.Context, svc service.Service, userID int64, opts Options) *Model {
	ctx, cancel := context.WithCancel(ctx)
	n := collection.NewNotifier()

	m := &Model{
		ctx:      ctx,
		cancel:   cancel,
		svc:      svc,
		userID:   userID,
		notifier: n,
		creator:  &compose.Creator{Service: svc, Notifier: n, CreateTimeout: opts.CreateTimeout},
		workspaces: collection.New(collection.Loader[service.Workspace](svc.ListWorkspaces),
			func(w service.Workspace) int64 { return w.ID }),
		lists: collection.New(collection.Loader[service.List](svc.ListLists),
			func(l service.List) int64 { return l.ID }),
		tasks: make(map[int64]*collection.Collection[service.Task]),
		modal: modal.New(""),
		input: textinput.New(),
	}
	m.input.Placeholder = "Title"
	m.input.CharLimit = 200
	m.input.Width = 40
	m.modal.OnClose = m.resetModal

	m.changes, m.unsubscribe = n.Subscribe(collection.KindTask, 0)
	m.listen = m.waitForChange
	return m
}

// Run starts the board and blocks until the user quits.
func Run(ctx context.Context, svc service.Service, userID int64, opts Options) error {
	m := New(ctx, svc, userID, opts)
	defer m.Close()

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Close cancels in-flight loads and stops listening for changes.
func (m *Model) Close() {
	m.cancel()
	m.unsubscribe()
	m.workspaces.Close()
	m.lists.Close()
	for _, c := range m.tasks {
		c.Close()
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadWorkspaces(), m.listen())
}

func (m *Model) waitForChange() tea.Cmd {
	ch := m.changes
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case c, ok := <-ch:
			if !ok {
				return nil
			}
			return changeMsg{change: c}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *Model) loadWorkspaces() tea.Cmd {
	ws, ctx, userID := m.workspaces, m.ctx, m.userID
	return func() tea.Msg {
		return workspacesLoadedMsg{err: ws.SetParent(ctx, userID)}
	}
}

func (m *Model) loadLists(workspaceID int64) tea.Cmd {
	lists, ctx := m.lists, m.ctx
	return func() tea.Msg {
		return listsLoadedMsg{workspaceID: workspaceID, err: lists.SetParent(ctx, workspaceID)}
	}
}

func (m *Model) loadTasks(listID int64, reload bool) tea.Cmd {
	coll, ok := m.tasks[listID]
	if !ok {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		var err error
		if reload {
			err = coll.Reload(ctx)
		} else {
			err = coll.SetParent(ctx, listID)
		}
		return tasksLoadedMsg{listID: listID, err: err}
	}
}

// createTask runs the composite flow and appends the created task to its
// list as soon as the backend returns it.
func (m *Model) createTask(d compose.TaskDraft) tea.Cmd {
	creator, ctx := m.creator, m.ctx
	coll, ok := m.tasks[d.ListID]
	return func() tea.Msg {
		if !ok {
			res, err := creator.Create(ctx, d)
			return taskCreatedMsg{res: res, err: err}
		}
		var res compose.Result
		_, err := coll.Create(ctx, func(ctx context.Context) (service.Task, error) {
			var err error
			res, err = creator.Create(ctx, d)
			return res.Task, err
		})
		return taskCreatedMsg{res: res, err: err}
	}
}

// toggleTask flips t between completed and pending.
func (m *Model) toggleTask(t service.Task) tea.Cmd {
	coll, ok := m.tasks[t.ListID]
	if !ok {
		return nil
	}
	if t.Status == service.StatusCompleted {
		t.Status = service.StatusPending
	} else {
		t.Status = service.StatusCompleted
	}
	svc, ctx, n := m.svc, m.ctx, m.notifier
	return func() tea.Msg {
		updated, err := coll.Update(ctx, func(ctx context.Context) (service.Task, error) {
			return svc.UpdateTask(ctx, t)
		})
		if err == nil {
			n.Publish(collection.Change{Kind: collection.KindTask, Op: collection.Updated, ParentID: t.ListID, ID: t.ID, Entity: updated})
		}
		return taskUpdatedMsg{task: updated, err: err}
	}
}

func (m *Model) deleteTask(t service.Task) tea.Cmd {
	coll, ok := m.tasks[t.ListID]
	if !ok {
		return nil
	}
	svc, ctx, n := m.svc, m.ctx, m.notifier
	return func() tea.Msg {
		err := coll.Delete(ctx, t.ID, func(ctx context.Context) error {
			return svc.DeleteTask(ctx, t.ID)
		})
		if err == nil {
			n.Publish(collection.Change{Kind: collection.KindTask, Op: collection.Deleted, ParentID: t.ListID, ID: t.ID})
		}
		return taskDeletedMsg{task: t, err: err}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case workspacesLoadedMsg:
		if ignorable(msg.err) {
			return m, nil
		}
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.clampWorkspace()
		return m, m.selectWorkspace()

	case listsLoadedMsg:
		if ignorable(msg.err) || msg.workspaceID != m.lists.Parent() {
			return m, nil
		}
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		return m, m.syncTaskCollections()

	case tasksLoadedMsg:
		if ignorable(msg.err) {
			return m, nil
		}
		if msg.err != nil {
			m.err = fmt.Errorf("list %d: %w", msg.listID, msg.err)
		}
		m.clampRow()
		return m, nil

	case taskCreatedMsg:
		switch {
		case msg.err != nil:
			m.err = msg.err
		case msg.res.Partial():
			m.err = fmt.Errorf("task %d created, %d label(s) failed", msg.res.Task.ID, len(msg.res.Failed))
		default:
			m.err = nil
			m.status = fmt.Sprintf("created task %d", msg.res.Task.ID)
		}
		return m, nil

	case taskUpdatedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("task %d is %s", msg.task.ID, msg.task.Status)
		return m, nil

	case taskDeletedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("deleted task %d", msg.task.ID)
		m.clampRow()
		return m, nil

	case changeMsg:
		// Only the list the change belongs to reloads.
		return m, tea.Batch(m.loadTasks(msg.change.ParentID, true), m.listen())
	}

	if m.mode == modalNewTask {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// ignorable reports errors that carry no news for the user.
func ignorable(err error) bool {
	return errors.Is(err, collection.ErrStale) || errors.Is(err, collection.ErrClosed) || errors.Is(err, context.Canceled)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, m.quit()
	}

	if m.modal.IsOpen() {
		if m.modal.HandleKey(key) {
			return m, nil
		}
		switch m.mode {
		case modalNewTask:
			if key == "enter" {
				return m, m.submitNewTask()
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		case modalConfirmDelete:
			switch key {
			case "y", "enter":
				t := m.pending
				m.modal.Close()
				return m, m.deleteTask(t)
			case "n":
				m.modal.Close()
			}
		case modalKeys:
			if key == "?" {
				m.modal.Toggle()
			}
		}
		return m, nil
	}

	switch key {
	case "q":
		return m, m.quit()
	case "tab":
		if m.focus == PaneWorkspaces {
			m.focus = PaneLists
		} else {
			m.focus = PaneWorkspaces
		}
	case "j", "down":
		return m, m.move(1)
	case "k", "up":
		return m, m.move(-1)
	case "n":
		return m, m.openNewTask()
	case "d":
		m.openConfirmDelete()
	case "x":
		if r, ok := m.current(); ok && r.isTask {
			return m, m.toggleTask(r.task)
		}
	case "?":
		m.mode = modalKeys
		m.modal.Title = "Keys"
		m.modal.Toggle()
	case "r":
		return m, m.reload()
	}
	return m, nil
}

// handleMouse closes the open modal on a click outside its box. The box is
// drawn below the one-line header.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	if !m.modal.IsOpen() || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}
	box := m.modal.Render(m.modalWidth(), m.modalBody)
	inside := msg.X < lipgloss.Width(box) && msg.Y >= 1 && msg.Y < 1+lipgloss.Height(box)
	if !inside {
		m.modal.Backdrop()
	}
}

func (m *Model) quit() tea.Cmd {
	m.Close()
	return tea.Quit
}

func (m *Model) move(delta int) tea.Cmd {
	if m.focus == PaneWorkspaces {
		prev := m.wsCursor
		m.wsCursor += delta
		m.clampWorkspace()
		if m.wsCursor == prev {
			return nil
		}
		m.rowCursor = 0
		return m.selectWorkspace()
	}
	m.rowCursor += delta
	m.clampRow()
	return nil
}

func (m *Model) clampWorkspace() {
	n := m.workspaces.Len()
	if m.wsCursor >= n {
		m.wsCursor = n - 1
	}
	if m.wsCursor < 0 {
		m.wsCursor = 0
	}
}

func (m *Model) clampRow() {
	n := len(m.rows())
	if m.rowCursor >= n {
		m.rowCursor = n - 1
	}
	if m.rowCursor < 0 {
		m.rowCursor = 0
	}
}

// selectedWorkspace returns the workspace under the cursor, if any.
func (m *Model) selectedWorkspace() (service.Workspace, bool) {
	items := m.workspaces.Items()
	if m.wsCursor < 0 || m.wsCursor >= len(items) {
		return service.Workspace{}, false
	}
	return items[m.wsCursor], true
}

// selectWorkspace re-scopes the lists to the selected workspace. A load for
// the previous workspace still in flight is cancelled and discarded.
func (m *Model) selectWorkspace() tea.Cmd {
	ws, ok := m.selectedWorkspace()
	if !ok {
		return m.loadLists(0)
	}
	return m.loadLists(ws.ID)
}

// syncTaskCollections keeps one task collection per visible list.
func (m *Model) syncTaskCollections() tea.Cmd {
	visible := make(map[int64]bool)
	var cmds []tea.Cmd
	for _, l := range m.lists.Items() {
		visible[l.ID] = true
		if _, ok := m.tasks[l.ID]; !ok {
			m.tasks[l.ID] = collection.New(collection.Loader[service.Task](m.svc.ListTasks),
				func(t service.Task) int64 { return t.ID })
		}
		cmds = append(cmds, m.loadTasks(l.ID, false))
	}
	for id, c := range m.tasks {
		if !visible[id] {
			c.Close()
			delete(m.tasks, id)
		}
	}
	m.clampRow()
	return tea.Batch(cmds...)
}

func (m *Model) reload() tea.Cmd {
	m.err = nil
	m.status = "reloading"
	ws, lists, ctx := m.workspaces, m.lists, m.ctx
	cmds := []tea.Cmd{
		func() tea.Msg { return workspacesLoadedMsg{err: ws.Reload(ctx)} },
		func() tea.Msg { return listsLoadedMsg{workspaceID: lists.Parent(), err: lists.Reload(ctx)} },
	}
	for id := range m.tasks {
		cmds = append(cmds, m.loadTasks(id, true))
	}
	return tea.Batch(cmds...)
}

// rows flattens the right pane.
func (m *Model) rows() []row {
	var out []row
	for _, l := range m.lists.Items() {
		out = append(out, row{list: l})
		if c, ok := m.tasks[l.ID]; ok {
			for _, t := range c.Items() {
				out = append(out, row{list: l, task: t, isTask: true})
			}
		}
	}
	return out
}

// current returns the row under the right-pane cursor.
func (m *Model) current() (row, bool) {
	rows := m.rows()
	if m.rowCursor < 0 || m.rowCursor >= len(rows) {
		return row{}, false
	}
	return rows[m.rowCursor], true
}

func (m *Model) openNewTask() tea.Cmd {
	r, ok := m.current()
	if !ok {
		m.err = errors.New("no list selected")
		return nil
	}
	m.mode = modalNewTask
	m.modal.Title = "New task in " + r.list.Title
	m.pending = service.Task{ListID: r.list.ID}
	m.input.Reset()
	m.modal.Open()
	return m.input.Focus()
}

func (m *Model) openConfirmDelete() {
	r, ok := m.current()
	if !ok || !r.isTask {
		return
	}
	m.mode = modalConfirmDelete
	m.modal.Title = "Delete task?"
	m.pending = r.task
	m.modal.Open()
}

func (m *Model) submitNewTask() tea.Cmd {
	title := strings.TrimSpace(m.input.Value())
	if title == "" {
		m.err = compose.ErrTitleRequired
		return nil
	}
	d := compose.TaskDraft{Title: title, ListID: m.pending.ListID}
	m.modal.Close()
	logging.Logger.WithField("list_id", d.ListID).Debug("creating task from board")
	return m.createTask(d)
}

// resetModal runs whenever the modal closes.
func (m *Model) resetModal() {
	m.mode = modalNone
	m.input.Blur()
	m.input.Reset()
}
