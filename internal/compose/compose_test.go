package compose_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"taskboard/internal/collection"
	"taskboard/internal/compose"
	"taskboard/internal/service"
	"taskboard/internal/testutil"
)

func TestCreate_TaskThenLabelsInOrder(t *testing.T) {
	fake := testutil.NewFakeService()
	c := &compose.Creator{Service: fake}

	res, err := c.Create(context.Background(), compose.TaskDraft{
		Title:    "T1",
		ListID:   42,
		LabelIDs: []int64{7, 9},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id := res.Task.ID
	want := []string{"CreateTask T1", "AttachLabel 7 100", "AttachLabel 9 100"}
	if got := fake.Calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected calls %v, got %v", want, got)
	}
	if id != 100 || res.Task.ListID != 42 {
		t.Errorf("unexpected task %+v", res.Task)
	}
	if !reflect.DeepEqual(res.Attached, []int64{7, 9}) || res.Partial() {
		t.Errorf("unexpected result %+v", res)
	}
	if got := fake.LabelsOf(id); !reflect.DeepEqual(got, []int64{7, 9}) {
		t.Errorf("expected associations [7 9], got %v", got)
	}
}

func TestCreate_Defaults(t *testing.T) {
	fake := testutil.NewFakeService()
	c := &compose.Creator{Service: fake}

	res, err := c.Create(context.Background(), compose.TaskDraft{Title: "  padded  ", ListID: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Task.Title != "padded" {
		t.Errorf("expected trimmed title, got %q", res.Task.Title)
	}
	if res.Task.Priority != service.PriorityLow || res.Task.Status != service.StatusPending {
		t.Errorf("unexpected defaults %+v", res.Task)
	}
}

func TestCreate_Validation(t *testing.T) {
	fake := testutil.NewFakeService()
	c := &compose.Creator{Service: fake}

	if _, err := c.Create(context.Background(), compose.TaskDraft{Title: "   ", ListID: 1}); !errors.Is(err, compose.ErrTitleRequired) {
		t.Errorf("expected ErrTitleRequired, got %v", err)
	}
	if _, err := c.Create(context.Background(), compose.TaskDraft{Title: "x"}); !errors.Is(err, compose.ErrListRequired) {
		t.Errorf("expected ErrListRequired, got %v", err)
	}
	if calls := fake.Calls(); len(calls) != 0 {
		t.Errorf("validation failures must not reach the backend, got %v", calls)
	}
}

func TestCreate_FailedCreateSkipsAssociations(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.CreateTaskErr = errors.New("backend down")
	c := &compose.Creator{Service: fake}

	_, err := c.Create(context.Background(), compose.TaskDraft{Title: "T1", ListID: 42, LabelIDs: []int64{7}})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := fake.Calls(); !reflect.DeepEqual(got, []string{"CreateTask T1"}) {
		t.Errorf("expected only the create call, got %v", got)
	}
}

func TestCreate_AssociationFailureContinues(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.AttachLabelErr[7] = errors.New("rejected")
	c := &compose.Creator{Service: fake}

	res, err := c.Create(context.Background(), compose.TaskDraft{Title: "T1", ListID: 42, LabelIDs: []int64{7, 9}})
	if err != nil {
		t.Fatalf("association failures are reported, not returned: %v", err)
	}
	if !res.Partial() || len(res.Failed) != 1 || res.Failed[0].LabelID != 7 {
		t.Errorf("expected label 7 in failures, got %+v", res.Failed)
	}
	if !reflect.DeepEqual(res.Attached, []int64{9}) {
		t.Errorf("expected label 9 attached, got %v", res.Attached)
	}
	if len(fake.Tasks()) != 1 {
		t.Error("task must not be rolled back")
	}
}

func TestCreate_DuplicateLabelsAttachedOnce(t *testing.T) {
	fake := testutil.NewFakeService()
	c := &compose.Creator{Service: fake}

	res, err := c.Create(context.Background(), compose.TaskDraft{Title: "T1", ListID: 42, LabelIDs: []int64{7, 7, 9, 7}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(res.Attached, []int64{7, 9}) {
		t.Errorf("expected [7 9], got %v", res.Attached)
	}
}

func TestCreate_PublishesToTargetList(t *testing.T) {
	fake := testutil.NewFakeService()
	n := collection.NewNotifier()
	target, cancelTarget := n.Subscribe(collection.KindTask, 42)
	defer cancelTarget()
	other, cancelOther := n.Subscribe(collection.KindTask, 43)
	defer cancelOther()

	c := &compose.Creator{Service: fake, Notifier: n}
	if _, err := c.Create(context.Background(), compose.TaskDraft{Title: "T1", ListID: 42}); err != nil {
		t.Fatal(err)
	}

	select {
	case ch := <-target:
		if ch.Op != collection.Created || ch.ParentID != 42 {
			t.Errorf("unexpected change %+v", ch)
		}
	default:
		t.Error("expected a change for list 42")
	}
	select {
	case ch := <-other:
		t.Errorf("list 43 must not be notified, got %+v", ch)
	default:
	}
}

// timedService delays backend calls and records whether AttachLabel saw a
// live context.
type timedService struct {
	*testutil.FakeService
	createDelay  time.Duration
	attachDelay  time.Duration
	attachCtxErr error
}

func (s *timedService) CreateTask(ctx context.Context, t service.Task) (service.Task, error) {
	select {
	case <-time.After(s.createDelay):
	case <-ctx.Done():
		return service.Task{}, ctx.Err()
	}
	return s.FakeService.CreateTask(ctx, t)
}

func (s *timedService) AttachLabel(ctx context.Context, labelID, taskID int64) error {
	time.Sleep(s.attachDelay)
	s.attachCtxErr = ctx.Err()
	return s.FakeService.AttachLabel(ctx, labelID, taskID)
}

func TestCreate_TimeoutAbortsSlowCreate(t *testing.T) {
	s := &timedService{FakeService: testutil.NewFakeService(), createDelay: 5 * time.Second}
	c := &compose.Creator{Service: s, CreateTimeout: 20 * time.Millisecond}

	start := time.Now()
	_, err := c.Create(context.Background(), compose.TaskDraft{Title: "T1", ListID: 42, LabelIDs: []int64{7}})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("create timeout was not applied")
	}
	if got := s.Calls(); len(got) != 0 {
		t.Errorf("expected no association calls, got %v", got)
	}
}

func TestCreate_TimeoutCoversCreateOnly(t *testing.T) {
	s := &timedService{FakeService: testutil.NewFakeService(), attachDelay: 50 * time.Millisecond}
	c := &compose.Creator{Service: s, CreateTimeout: 20 * time.Millisecond}

	res, err := c.Create(context.Background(), compose.TaskDraft{Title: "T1", ListID: 42, LabelIDs: []int64{7}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.attachCtxErr != nil {
		t.Errorf("association ran under the create deadline: %v", s.attachCtxErr)
	}
	if !reflect.DeepEqual(res.Attached, []int64{7}) {
		t.Errorf("unexpected result %+v", res)
	}
}
