// Package compose creates a task together with its label associations.
package compose

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"taskboard/internal/collection"
	"taskboard/internal/logging"
	"taskboard/internal/service"
)

var (
	// ErrTitleRequired is returned for a blank title.
	ErrTitleRequired = errors.New("title is required")

	// ErrListRequired is returned when no target list is set.
	ErrListRequired = errors.New("list is required")
)

// TaskDraft is the user's input for a new task.
type TaskDraft struct {
	Title       string
	Description string
	Priority    service.Priority
	Status      service.Status
	DueDate     service.Timestamp
	ListID      int64
	LabelIDs    []int64
}

// Validate checks the draft before any backend call.
func (d TaskDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrTitleRequired
	}
	if d.ListID <= 0 {
		return ErrListRequired
	}
	return nil
}

// LabelFailure is one association that the backend rejected.
type LabelFailure struct {
	LabelID int64
	Err     error
}

// Result reports the created task and the outcome of each association.
type Result struct {
	Task     service.Task
	Attached []int64
	Failed   []LabelFailure
}

// Partial reports whether some associations failed.
func (r Result) Partial() bool {
	return len(r.Failed) > 0
}

// Creator runs the create-then-associate flow.
type Creator struct {
	Service       service.Service
	Notifier      *collection.Notifier // optional
	CreateTimeout time.Duration
}

// Create validates d, creates the task and then attaches each selected label
// in order, one at a time. A failed create stops the flow before any
// association. A failed association is recorded and the loop continues;
// nothing is rolled back.
func (c *Creator) Create(ctx context.Context, d TaskDraft) (Result, error) {
	if err := d.Validate(); err != nil {
		return Result{}, err
	}

	task, err := c.createTask(ctx, d)
	if err != nil {
		return Result{}, err
	}

	res := Result{Task: task}
	log := logging.Logger.WithFields(logrus.Fields{"task_id": task.ID, "list_id": task.ListID})

	seen := make(map[int64]bool, len(d.LabelIDs))
	for _, labelID := range d.LabelIDs {
		if seen[labelID] {
			continue
		}
		seen[labelID] = true

		if err := c.Service.AttachLabel(ctx, labelID, task.ID); err != nil {
			log.WithError(err).WithField("label_id", labelID).Warn("label association failed")
			res.Failed = append(res.Failed, LabelFailure{LabelID: labelID, Err: err})
			continue
		}
		res.Attached = append(res.Attached, labelID)
	}

	if c.Notifier != nil {
		c.Notifier.Publish(collection.Change{
			Kind:     collection.KindTask,
			Op:       collection.Created,
			ParentID: task.ListID,
			ID:       task.ID,
			Entity:   task,
		})
	}
	log.WithField("labels", len(res.Attached)).Info("task created")
	return res, nil
}

func (c *Creator) createTask(ctx context.Context, d TaskDraft) (service.Task, error) {
	if c.CreateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.CreateTimeout)
		defer cancel()
	}

	t := service.Task{
		Title:       strings.TrimSpace(d.Title),
		Description: d.Description,
		Priority:    d.Priority,
		Status:      d.Status,
		DueDate:     d.DueDate,
		ListID:      d.ListID,
	}
	if t.Priority == 0 {
		t.Priority = service.PriorityLow
	}
	if t.Status == "" {
		t.Status = service.StatusPending
	}

	created, err := c.Service.CreateTask(ctx, t)
	if err != nil {
		return service.Task{}, fmt.Errorf("create task: %w", err)
	}
	// The backend may omit the list id in its reply.
	if created.ListID == 0 {
		created.ListID = d.ListID
	}
	return created, nil
}
