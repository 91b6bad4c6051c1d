// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"taskboard/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
// Every call is appended to a log so tests can assert ordering.
type FakeService struct {
	mu          sync.RWMutex
	nextID      int64
	users       map[int64]service.User
	workspaces  []service.Workspace
	owners      map[int64]int64 // workspaceID -> userID
	lists       []service.List
	tasks       []service.Task
	labels      []service.Label
	taskLabels  map[int64][]int64 // taskID -> labelIDs
	attachments []service.Attachment
	calls       []string

	// LoginToken is returned by Login when LoginErr is nil.
	LoginToken string

	// Error injection for testing
	LoginErr            error
	RegisterErr         error
	GetUserErr          error
	UpdateUserErr       error
	ListWorkspacesErr   error
	CreateWorkspaceErr  error
	UpdateWorkspaceErr  error
	DeleteWorkspaceErr  error
	ListListsErr        error
	CreateListErr       error
	UpdateListErr       error
	DeleteListErr       error
	ListTasksErr        error
	CreateTaskErr       error
	UpdateTaskErr       error
	DeleteTaskErr       error
	ListLabelsErr       error
	CreateLabelErr      error
	UpdateLabelErr      error
	DeleteLabelErr      error
	AttachLabelErr      map[int64]error // labelID -> error
	DetachLabelErr      error
	ListAttachmentsErr  error
	CreateAttachmentErr error
	DeleteAttachmentErr error
}

var _ service.Service = (*FakeService)(nil)

// NewFakeService creates an empty FakeService. IDs are allocated from 100.
func NewFakeService() *FakeService {
	return &FakeService{
		nextID:         100,
		users:          make(map[int64]service.User),
		owners:         make(map[int64]int64),
		taskLabels:     make(map[int64][]int64),
		AttachLabelErr: make(map[int64]error),
	}
}

// Calls returns the call log, e.g. "CreateTask" or "AttachLabel 7 100".
func (f *FakeService) Calls() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *FakeService) record(format string, args ...interface{}) {
	f.mu.Lock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	f.mu.Unlock()
}

func (f *FakeService) id() int64 {
	id := f.nextID
	f.nextID++
	return id
}

// AddUser seeds a user.
func (f *FakeService) AddUser(u service.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
}

// AddWorkspace seeds a workspace owned by userID.
func (f *FakeService) AddWorkspace(userID int64, w service.Workspace) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.workspaces = append(f.workspaces, w)
	f.owners[w.ID] = userID
}

// AddList seeds a list.
func (f *FakeService) AddList(l service.List) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, l)
}

// AddTask seeds a task.
func (f *FakeService) AddTask(t service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.Status == "" {
		t.Status = service.StatusPending
	}
	f.tasks = append(f.tasks, t)
}

// AddLabel seeds a label.
func (f *FakeService) AddLabel(l service.Label) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.labels = append(f.labels, l)
}

// AddAttachment seeds an attachment.
func (f *FakeService) AddAttachment(a service.Attachment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attachments = append(f.attachments, a)
}

// Tasks returns a snapshot of all tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// LabelsOf returns the label ids associated with a task, in attach order.
func (f *FakeService) LabelsOf(taskID int64) []int64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]int64(nil), f.taskLabels[taskID]...)
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, creds service.Credentials) (string, error) {
	f.record("Login %s", creds.Email)
	if f.LoginErr != nil {
		return "", f.LoginErr
	}
	return f.LoginToken, nil
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, reg service.Registration) error {
	f.record("Register %s", reg.Email)
	if f.RegisterErr != nil {
		return f.RegisterErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.id()
	f.users[id] = service.User{ID: id, FirstName: reg.FirstName, LastName: reg.LastName, Email: reg.Email}
	return nil
}

// GetUser implements service.Service.
func (f *FakeService) GetUser(ctx context.Context, userID int64) (service.User, error) {
	f.record("GetUser %d", userID)
	if f.GetUserErr != nil {
		return service.User{}, f.GetUserErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	u, ok := f.users[userID]
	if !ok {
		return service.User{}, service.ErrNotFound
	}
	return u, nil
}

// UpdateUser implements service.Service.
func (f *FakeService) UpdateUser(ctx context.Context, userID int64, upd service.ProfileUpdate) (service.User, error) {
	f.record("UpdateUser %d", userID)
	if f.UpdateUserErr != nil {
		return service.User{}, f.UpdateUserErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return service.User{}, service.ErrNotFound
	}
	if upd.FirstName != "" {
		u.FirstName = upd.FirstName
	}
	if upd.LastName != "" {
		u.LastName = upd.LastName
	}
	if upd.Email != "" {
		u.Email = upd.Email
	}
	if len(upd.ProfileImage) > 0 {
		u.ProfileImage = upd.ProfileImage
	}
	f.users[userID] = u
	return u, nil
}

// ListWorkspaces implements service.Service.
func (f *FakeService) ListWorkspaces(ctx context.Context, userID int64) ([]service.Workspace, error) {
	f.record("ListWorkspaces %d", userID)
	if f.ListWorkspacesErr != nil {
		return nil, f.ListWorkspacesErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []service.Workspace
	for _, w := range f.workspaces {
		if f.owners[w.ID] == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

// GetWorkspace implements service.Service.
func (f *FakeService) GetWorkspace(ctx context.Context, workspaceID int64) (service.Workspace, error) {
	f.record("GetWorkspace %d", workspaceID)
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, w := range f.workspaces {
		if w.ID == workspaceID {
			return w, nil
		}
	}
	return service.Workspace{}, service.ErrNotFound
}

// CreateWorkspace implements service.Service.
func (f *FakeService) CreateWorkspace(ctx context.Context, userID int64, w service.Workspace) (service.Workspace, error) {
	f.record("CreateWorkspace %s", w.Name)
	if f.CreateWorkspaceErr != nil {
		return service.Workspace{}, f.CreateWorkspaceErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	w.ID = f.id()
	if w.Type == "" {
		w.Type = service.WorkspacePrivate
	}
	f.workspaces = append(f.workspaces, w)
	f.owners[w.ID] = userID
	return w, nil
}

// UpdateWorkspace implements service.Service.
func (f *FakeService) UpdateWorkspace(ctx context.Context, w service.Workspace) (service.Workspace, error) {
	f.record("UpdateWorkspace %d", w.ID)
	if f.UpdateWorkspaceErr != nil {
		return service.Workspace{}, f.UpdateWorkspaceErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.workspaces {
		if f.workspaces[i].ID == w.ID {
			f.workspaces[i] = w
			return w, nil
		}
	}
	return service.Workspace{}, service.ErrNotFound
}

// DeleteWorkspace implements service.Service.
func (f *FakeService) DeleteWorkspace(ctx context.Context, workspaceID int64) error {
	f.record("DeleteWorkspace %d", workspaceID)
	if f.DeleteWorkspaceErr != nil {
		return f.DeleteWorkspaceErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, w := range f.workspaces {
		if w.ID == workspaceID {
			f.workspaces = append(f.workspaces[:i], f.workspaces[i+1:]...)
			delete(f.owners, workspaceID)
			return nil
		}
	}
	return service.ErrNotFound
}

// ListLists implements service.Service.
func (f *FakeService) ListLists(ctx context.Context, workspaceID int64) ([]service.List, error) {
	f.record("ListLists %d", workspaceID)
	if f.ListListsErr != nil {
		return nil, f.ListListsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []service.List
	for _, l := range f.lists {
		if l.WorkspaceID == workspaceID {
			out = append(out, l)
		}
	}
	return out, nil
}

// CreateList implements service.Service.
func (f *FakeService) CreateList(ctx context.Context, l service.List) (service.List, error) {
	f.record("CreateList %s", l.Title)
	if f.CreateListErr != nil {
		return service.List{}, f.CreateListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	l.ID = f.id()
	f.lists = append(f.lists, l)
	return l, nil
}

// UpdateList implements service.Service.
func (f *FakeService) UpdateList(ctx context.Context, l service.List) (service.List, error) {
	f.record("UpdateList %d", l.ID)
	if f.UpdateListErr != nil {
		return service.List{}, f.UpdateListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.lists {
		if f.lists[i].ID == l.ID {
			f.lists[i] = l
			return l, nil
		}
	}
	return service.List{}, service.ErrNotFound
}

// DeleteList implements service.Service.
func (f *FakeService) DeleteList(ctx context.Context, listID int64) error {
	f.record("DeleteList %d", listID)
	if f.DeleteListErr != nil {
		return f.DeleteListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.lists {
		if l.ID == listID {
			f.lists = append(f.lists[:i], f.lists[i+1:]...)
			return nil
		}
	}
	return service.ErrNotFound
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, listID int64) ([]service.Task, error) {
	f.record("ListTasks %d", listID)
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []service.Task
	for _, t := range f.tasks {
		if t.ListID == listID {
			out = append(out, t)
		}
	}
	return out, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, t service.Task) (service.Task, error) {
	f.record("CreateTask %s", t.Title)
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t.ID = f.id()
	if t.Status == "" {
		t.Status = service.StatusPending
	}
	f.tasks = append(f.tasks, t)
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, t service.Task) (service.Task, error) {
	f.record("UpdateTask %d", t.ID)
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == t.ID {
			f.tasks[i] = t
			return t, nil
		}
	}
	return service.Task{}, service.ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, taskID int64) error {
	f.record("DeleteTask %d", taskID)
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == taskID {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			delete(f.taskLabels, taskID)
			return nil
		}
	}
	return service.ErrNotFound
}

// ListLabels implements service.Service.
func (f *FakeService) ListLabels(ctx context.Context) ([]service.Label, error) {
	f.record("ListLabels")
	if f.ListLabelsErr != nil {
		return nil, f.ListLabelsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Label, len(f.labels))
	copy(out, f.labels)
	return out, nil
}

// CreateLabel implements service.Service.
func (f *FakeService) CreateLabel(ctx context.Context, l service.Label) (service.Label, error) {
	f.record("CreateLabel %s", l.Title)
	if f.CreateLabelErr != nil {
		return service.Label{}, f.CreateLabelErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	l.ID = f.id()
	f.labels = append(f.labels, l)
	return l, nil
}

// UpdateLabel implements service.Service.
func (f *FakeService) UpdateLabel(ctx context.Context, l service.Label) (service.Label, error) {
	f.record("UpdateLabel %d", l.ID)
	if f.UpdateLabelErr != nil {
		return service.Label{}, f.UpdateLabelErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.labels {
		if f.labels[i].ID == l.ID {
			f.labels[i] = l
			return l, nil
		}
	}
	return service.Label{}, service.ErrNotFound
}

// DeleteLabel implements service.Service.
func (f *FakeService) DeleteLabel(ctx context.Context, labelID int64) error {
	f.record("DeleteLabel %d", labelID)
	if f.DeleteLabelErr != nil {
		return f.DeleteLabelErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.labels {
		if l.ID == labelID {
			f.labels = append(f.labels[:i], f.labels[i+1:]...)
			return nil
		}
	}
	return service.ErrNotFound
}

// AttachLabel implements service.Service.
func (f *FakeService) AttachLabel(ctx context.Context, labelID, taskID int64) error {
	f.record("AttachLabel %d %d", labelID, taskID)
	if err := f.AttachLabelErr[labelID]; err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.taskLabels[taskID] {
		if id == labelID {
			return nil
		}
	}
	f.taskLabels[taskID] = append(f.taskLabels[taskID], labelID)
	return nil
}

// DetachLabel implements service.Service.
func (f *FakeService) DetachLabel(ctx context.Context, labelID, taskID int64) error {
	f.record("DetachLabel %d %d", labelID, taskID)
	if f.DetachLabelErr != nil {
		return f.DetachLabelErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := f.taskLabels[taskID]
	for i, id := range ids {
		if id == labelID {
			f.taskLabels[taskID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return service.ErrNotFound
}

// TaskLabels implements service.Service.
func (f *FakeService) TaskLabels(ctx context.Context, taskID int64) ([]service.Label, error) {
	f.record("TaskLabels %d", taskID)
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []service.Label
	for _, id := range f.taskLabels[taskID] {
		for _, l := range f.labels {
			if l.ID == id {
				out = append(out, l)
			}
		}
	}
	return out, nil
}

// ListAttachments implements service.Service.
func (f *FakeService) ListAttachments(ctx context.Context, taskID int64) ([]service.Attachment, error) {
	f.record("ListAttachments %d", taskID)
	if f.ListAttachmentsErr != nil {
		return nil, f.ListAttachmentsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []service.Attachment
	for _, a := range f.attachments {
		if a.TaskID == taskID {
			out = append(out, a)
		}
	}
	return out, nil
}

// CreateAttachment implements service.Service.
func (f *FakeService) CreateAttachment(ctx context.Context, taskID int64, a service.Attachment) (service.Attachment, error) {
	f.record("CreateAttachment %d %s", taskID, a.FileName)
	if f.CreateAttachmentErr != nil {
		return service.Attachment{}, f.CreateAttachmentErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = f.id()
	a.TaskID = taskID
	f.attachments = append(f.attachments, a)
	return a, nil
}

// UpdateAttachment implements service.Service.
func (f *FakeService) UpdateAttachment(ctx context.Context, a service.Attachment) (service.Attachment, error) {
	f.record("UpdateAttachment %d", a.ID)
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.attachments {
		if f.attachments[i].ID == a.ID {
			f.attachments[i] = a
			return a, nil
		}
	}
	return service.Attachment{}, service.ErrNotFound
}

// DeleteAttachment implements service.Service.
func (f *FakeService) DeleteAttachment(ctx context.Context, attachmentID int64) error {
	f.record("DeleteAttachment %d", attachmentID)
	if f.DeleteAttachmentErr != nil {
		return f.DeleteAttachmentErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, a := range f.attachments {
		if a.ID == attachmentID {
			f.attachments = append(f.attachments[:i], f.attachments[i+1:]...)
			return nil
		}
	}
	return service.ErrNotFound
}
