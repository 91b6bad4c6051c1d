package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"taskboard/internal/service"
)

// Workspaces

func (c *Client) ListWorkspaces(ctx context.Context, userID int64) ([]service.Workspace, error) {
	var out []service.Workspace
	if err := c.get(ctx, c.url("/workspaces/user/%d", userID), &out); err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return out, nil
}

func (c *Client) GetWorkspace(ctx context.Context, workspaceID int64) (service.Workspace, error) {
	var out service.Workspace
	if err := c.get(ctx, c.url("/workspaces/%d", workspaceID), &out); err != nil {
		return service.Workspace{}, fmt.Errorf("failed to get workspace: %w", err)
	}
	return out, nil
}

// CreateWorkspace generates an access code when w has none.
func (c *Client) CreateWorkspace(ctx context.Context, userID int64, w service.Workspace) (service.Workspace, error) {
	if w.AccessCode == "" {
		w.AccessCode = NewAccessCode()
	}
	if w.Type == "" {
		w.Type = service.WorkspacePrivate
	}
	var out service.Workspace
	if err := c.send(ctx, http.MethodPost, c.url("/workspaces/user/%d", userID), w, http.StatusCreated, &out); err != nil {
		return service.Workspace{}, fmt.Errorf("failed to create workspace: %w", err)
	}
	return out, nil
}

// UpdateWorkspace writes w and then reads it back, returning the stored copy.
func (c *Client) UpdateWorkspace(ctx context.Context, w service.Workspace) (service.Workspace, error) {
	if err := c.send(ctx, http.MethodPut, c.url("/workspaces/%d", w.ID), w, http.StatusOK, nil); err != nil {
		return service.Workspace{}, fmt.Errorf("failed to update workspace: %w", err)
	}
	return c.GetWorkspace(ctx, w.ID)
}

func (c *Client) DeleteWorkspace(ctx context.Context, workspaceID int64) error {
	if err := c.acknowledge(ctx, http.MethodDelete, c.url("/workspaces/%d", workspaceID)); err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}
	return nil
}

// NewAccessCode returns an 8-character share code.
func NewAccessCode() string {
	return uuid.New().String()[:8]
}

// Lists

func (c *Client) ListLists(ctx context.Context, workspaceID int64) ([]service.List, error) {
	var out []service.List
	if err := c.get(ctx, c.url("/lists/workspace/%d", workspaceID), &out); err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	return out, nil
}

func (c *Client) CreateList(ctx context.Context, l service.List) (service.List, error) {
	var out service.List
	if err := c.send(ctx, http.MethodPost, c.url("/lists"), l, http.StatusCreated, &out); err != nil {
		return service.List{}, fmt.Errorf("failed to create list: %w", err)
	}
	return out, nil
}

func (c *Client) UpdateList(ctx context.Context, l service.List) (service.List, error) {
	var out service.List
	if err := c.send(ctx, http.MethodPut, c.url("/lists/%d", l.ID), l, http.StatusOK, &out); err != nil {
		return service.List{}, fmt.Errorf("failed to update list: %w", err)
	}
	return out, nil
}

func (c *Client) DeleteList(ctx context.Context, listID int64) error {
	if err := c.acknowledge(ctx, http.MethodDelete, c.url("/lists/%d", listID)); err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return nil
}

// Tasks

func (c *Client) ListTasks(ctx context.Context, listID int64) ([]service.Task, error) {
	var out []service.Task
	if err := c.get(ctx, c.url("/tasks/list/%d", listID), &out); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return out, nil
}

func (c *Client) CreateTask(ctx context.Context, t service.Task) (service.Task, error) {
	var out service.Task
	if err := c.send(ctx, http.MethodPost, c.url("/tasks"), t, http.StatusCreated, &out); err != nil {
		return service.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return out, nil
}

func (c *Client) UpdateTask(ctx context.Context, t service.Task) (service.Task, error) {
	var out service.Task
	if err := c.send(ctx, http.MethodPut, c.url("/tasks/%d", t.ID), t, http.StatusOK, &out); err != nil {
		return service.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	return out, nil
}

func (c *Client) DeleteTask(ctx context.Context, taskID int64) error {
	if err := c.acknowledge(ctx, http.MethodDelete, c.url("/tasks/%d", taskID)); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// Labels

func (c *Client) ListLabels(ctx context.Context) ([]service.Label, error) {
	var out []service.Label
	if err := c.get(ctx, c.url("/labels"), &out); err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	return out, nil
}

func (c *Client) CreateLabel(ctx context.Context, l service.Label) (service.Label, error) {
	var out service.Label
	if err := c.send(ctx, http.MethodPost, c.url("/labels"), l, http.StatusCreated, &out); err != nil {
		return service.Label{}, fmt.Errorf("failed to create label: %w", err)
	}
	return out, nil
}

func (c *Client) UpdateLabel(ctx context.Context, l service.Label) (service.Label, error) {
	var out service.Label
	if err := c.send(ctx, http.MethodPut, c.url("/labels/%d", l.ID), l, http.StatusOK, &out); err != nil {
		return service.Label{}, fmt.Errorf("failed to update label: %w", err)
	}
	return out, nil
}

func (c *Client) DeleteLabel(ctx context.Context, labelID int64) error {
	if err := c.acknowledge(ctx, http.MethodDelete, c.url("/labels/%d", labelID)); err != nil {
		return fmt.Errorf("failed to delete label: %w", err)
	}
	return nil
}

func (c *Client) AttachLabel(ctx context.Context, labelID, taskID int64) error {
	if err := c.acknowledge(ctx, http.MethodPost, c.url("/labels/%d/tasks/%d", labelID, taskID)); err != nil {
		return fmt.Errorf("failed to attach label %d: %w", labelID, err)
	}
	return nil
}

func (c *Client) DetachLabel(ctx context.Context, labelID, taskID int64) error {
	if err := c.acknowledge(ctx, http.MethodDelete, c.url("/labels/%d/tasks/%d", labelID, taskID)); err != nil {
		return fmt.Errorf("failed to detach label %d: %w", labelID, err)
	}
	return nil
}

func (c *Client) TaskLabels(ctx context.Context, taskID int64) ([]service.Label, error) {
	var out []service.Label
	if err := c.get(ctx, c.url("/labels/tasks/%d", taskID), &out); err != nil {
		return nil, fmt.Errorf("failed to list task labels: %w", err)
	}
	return out, nil
}

// Attachments

func (c *Client) ListAttachments(ctx context.Context, taskID int64) ([]service.Attachment, error) {
	var out []service.Attachment
	if err := c.get(ctx, c.url("/attachments/task/%d", taskID), &out); err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	for i := range out {
		out[i].TaskID = taskID
	}
	return out, nil
}

func (c *Client) CreateAttachment(ctx context.Context, taskID int64, a service.Attachment) (service.Attachment, error) {
	var out service.Attachment
	if err := c.send(ctx, http.MethodPost, c.url("/attachments/task/%d", taskID), a, http.StatusCreated, &out); err != nil {
		return service.Attachment{}, fmt.Errorf("failed to create attachment: %w", err)
	}
	out.TaskID = taskID
	return out, nil
}

func (c *Client) UpdateAttachment(ctx context.Context, a service.Attachment) (service.Attachment, error) {
	var out service.Attachment
	if err := c.send(ctx, http.MethodPut, c.url("/attachments/%d", a.ID), a, http.StatusOK, &out); err != nil {
		return service.Attachment{}, fmt.Errorf("failed to update attachment: %w", err)
	}
	out.TaskID = a.TaskID
	return out, nil
}

func (c *Client) DeleteAttachment(ctx context.Context, attachmentID int64) error {
	if err := c.acknowledge(ctx, http.MethodDelete, c.url("/attachments/%d", attachmentID)); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	return nil
}
