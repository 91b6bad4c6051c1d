package service

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the backend rejects the session token.
	ErrUnauthorized = errors.New("token expired or revoked")

	// ErrInvalidCredentials is returned when login is rejected.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Service defines the interface for board backend operations.
// All REST calls go through this interface.
// Commands never import the transport directly.
//
// Create and Update methods return the entity as stored by the backend;
// callers must use that value rather than the one they sent.
type Service interface {
	// Login exchanges credentials for a session token.
	Login(ctx context.Context, creds Credentials) (string, error)

	// Register creates a user account.
	Register(ctx context.Context, reg Registration) error

	GetUser(ctx context.Context, userID int64) (User, error)
	UpdateUser(ctx context.Context, userID int64, upd ProfileUpdate) (User, error)

	// ListWorkspaces returns the workspaces owned by a user.
	ListWorkspaces(ctx context.Context, userID int64) ([]Workspace, error)
	GetWorkspace(ctx context.Context, workspaceID int64) (Workspace, error)
	CreateWorkspace(ctx context.Context, userID int64, w Workspace) (Workspace, error)
	UpdateWorkspace(ctx context.Context, w Workspace) (Workspace, error)
	DeleteWorkspace(ctx context.Context, workspaceID int64) error

	// ListLists returns the lists of a workspace in backend order.
	ListLists(ctx context.Context, workspaceID int64) ([]List, error)
	CreateList(ctx context.Context, l List) (List, error)
	UpdateList(ctx context.Context, l List) (List, error)
	DeleteList(ctx context.Context, listID int64) error

	// ListTasks returns the tasks of a list in backend order.
	ListTasks(ctx context.Context, listID int64) ([]Task, error)
	CreateTask(ctx context.Context, t Task) (Task, error)

	// UpdateTask sends the full task; moving between lists is an update
	// with a different ListID.
	UpdateTask(ctx context.Context, t Task) (Task, error)
	DeleteTask(ctx context.Context, taskID int64) error

	ListLabels(ctx context.Context) ([]Label, error)
	CreateLabel(ctx context.Context, l Label) (Label, error)
	UpdateLabel(ctx context.Context, l Label) (Label, error)
	DeleteLabel(ctx context.Context, labelID int64) error

	// AttachLabel and DetachLabel manage the (task, label) association only;
	// the label itself is never modified.
	AttachLabel(ctx context.Context, labelID, taskID int64) error
	DetachLabel(ctx context.Context, labelID, taskID int64) error
	TaskLabels(ctx context.Context, taskID int64) ([]Label, error)

	ListAttachments(ctx context.Context, taskID int64) ([]Attachment, error)
	CreateAttachment(ctx context.Context, taskID int64, a Attachment) (Attachment, error)
	UpdateAttachment(ctx context.Context, a Attachment) (Attachment, error)
	DeleteAttachment(ctx context.Context, attachmentID int64) error
}
