package commands

import (
	"context"
	"fmt"

	"taskboard/internal/service"
)

// findTask returns the task with taskID from list listID. The backend has no
// single-task read, so the list is fetched and searched.
func findTask(ctx context.Context, svc service.Service, listID, taskID int64) (service.Task, error) {
	tasks, err := svc.ListTasks(ctx, listID)
	if err != nil {
		return service.Task{}, err
	}
	for _, t := range tasks {
		if t.ID == taskID {
			return t, nil
		}
	}
	return service.Task{}, fmt.Errorf("task %d in list %d: %w", taskID, listID, service.ErrNotFound)
}

// findLabel returns the label with labelID.
func findLabel(ctx context.Context, svc service.Service, labelID int64) (service.Label, error) {
	labels, err := svc.ListLabels(ctx)
	if err != nil {
		return service.Label{}, err
	}
	for _, l := range labels {
		if l.ID == labelID {
			return l, nil
		}
	}
	return service.Label{}, fmt.Errorf("label %d: %w", labelID, service.ErrNotFound)
}

// findList returns the list with listID from workspace workspaceID.
func findList(ctx context.Context, svc service.Service, workspaceID, listID int64) (service.List, error) {
	lists, err := svc.ListLists(ctx, workspaceID)
	if err != nil {
		return service.List{}, err
	}
	for _, l := range lists {
		if l.ID == listID {
			return l, nil
		}
	}
	return service.List{}, fmt.Errorf("list %d: %w", listID, service.ErrNotFound)
}

// findAttachment returns the attachment with attachmentID from task taskID.
func findAttachment(ctx context.Context, svc service.Service, taskID, attachmentID int64) (service.Attachment, error) {
	atts, err := svc.ListAttachments(ctx, taskID)
	if err != nil {
		return service.Attachment{}, err
	}
	for _, a := range atts {
		if a.ID == attachmentID {
			a.TaskID = taskID
			return a, nil
		}
	}
	return service.Attachment{}, fmt.Errorf("attachment %d: %w", attachmentID, service.ErrNotFound)
}
