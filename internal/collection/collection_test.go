package collection

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type item struct {
	ID    int64
	Title string
}

func itemID(i item) int64 { return i.ID }

func countingLoader(calls *atomic.Int32) Loader[item] {
	return func(ctx context.Context, parentID int64) ([]item, error) {
		calls.Add(1)
		return []item{{ID: parentID*10 + 1, Title: "a"}, {ID: parentID*10 + 2, Title: "b"}}, nil
	}
}

func TestSetParent_ZeroDoesNotFetch(t *testing.T) {
	var calls atomic.Int32
	c := New(countingLoader(&calls), itemID)

	if err := c.SetParent(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no fetch, got %d", calls.Load())
	}
	if c.Len() != 0 {
		t.Errorf("expected empty collection, got %v", c.Items())
	}
	if st := c.State(); st.Err != nil || st.Loading {
		t.Errorf("unexpected state %+v", st)
	}
}

func TestSetParent_FetchesOnChangeOnly(t *testing.T) {
	var calls atomic.Int32
	c := New(countingLoader(&calls), itemID)
	ctx := context.Background()

	if err := c.SetParent(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if err := c.SetParent(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 fetch, got %d", calls.Load())
	}

	if err := c.SetParent(ctx, 2); err != nil {
		t.Fatal(err)
	}
	items := c.Items()
	if len(items) != 2 || items[0].ID != 21 {
		t.Errorf("expected items of parent 2, got %v", items)
	}

	if err := c.SetParent(ctx, 0); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 || c.Len() != 0 {
		t.Errorf("clearing the parent should empty without fetching (calls=%d, items=%v)", calls.Load(), c.Items())
	}
}

func TestReload_OneFetchPerCall(t *testing.T) {
	var calls atomic.Int32
	c := New(countingLoader(&calls), itemID)
	ctx := context.Background()

	c.SetParent(ctx, 3)
	c.Reload(ctx)
	c.Reload(ctx)
	if calls.Load() != 3 {
		t.Errorf("expected 3 fetches, got %d", calls.Load())
	}
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	load := func(ctx context.Context, parentID int64) ([]item, error) {
		if parentID == 1 {
			close(started)
			select {
			case <-release:
			case <-ctx.Done():
			}
			return []item{{ID: 1, Title: "stale"}}, nil
		}
		return []item{{ID: 2, Title: "fresh"}}, nil
	}
	c := New(load, itemID)

	errc := make(chan error, 1)
	go func() { errc <- c.SetParent(context.Background(), 1) }()
	<-started

	if err := c.SetParent(context.Background(), 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	close(release)

	if err := <-errc; !errors.Is(err, ErrStale) {
		t.Errorf("expected ErrStale for the superseded load, got %v", err)
	}
	items := c.Items()
	if len(items) != 1 || items[0].Title != "fresh" {
		t.Errorf("stale result leaked into collection: %v", items)
	}
}

func TestClose_DiscardsInFlight(t *testing.T) {
	started := make(chan struct{})
	load := func(ctx context.Context, parentID int64) ([]item, error) {
		close(started)
		<-ctx.Done()
		return []item{{ID: 1}}, nil
	}
	c := New(load, itemID)

	errc := make(chan error, 1)
	go func() { errc <- c.SetParent(context.Background(), 1) }()
	<-started
	c.Close()

	if err := <-errc; !errors.Is(err, ErrStale) {
		t.Errorf("expected ErrStale, got %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("expected no items after close, got %v", c.Items())
	}
	if err := c.Reload(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestLoadError_RecordedInState(t *testing.T) {
	boom := errors.New("boom")
	c := New(func(ctx context.Context, parentID int64) ([]item, error) {
		return nil, boom
	}, itemID)

	if err := c.SetParent(context.Background(), 4); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	st := c.State()
	if st.Loading || !errors.Is(st.Err, boom) || st.ParentID != 4 {
		t.Errorf("unexpected state %+v", st)
	}
}

func TestApplyMutations(t *testing.T) {
	var calls atomic.Int32
	c := New(countingLoader(&calls), itemID)
	c.SetParent(context.Background(), 1) // items 11, 12

	c.ApplyCreated(item{ID: 13, Title: "c"})
	c.ApplyCreated(item{ID: 13, Title: "c2"})
	if c.Len() != 3 {
		t.Fatalf("expected created item once, got %v", c.Items())
	}
	if got := c.Items()[2].Title; got != "c2" {
		t.Errorf("expected replacement on duplicate id, got %q", got)
	}

	c.ApplyUpdated(item{ID: 11, Title: "a2"})
	c.ApplyUpdated(item{ID: 99, Title: "ghost"})
	items := c.Items()
	if items[0].Title != "a2" || len(items) != 3 {
		t.Errorf("unexpected items after update %v", items)
	}

	c.ApplyDeleted(12)
	items = c.Items()
	if len(items) != 2 || items[0].ID != 11 || items[1].ID != 13 {
		t.Errorf("unexpected items after delete %v", items)
	}
}

func TestConfirmedMutationsSurviveInFlightReload(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	load := func(ctx context.Context, parentID int64) ([]item, error) {
		if calls.Add(1) == 2 {
			close(started)
			<-release
		}
		// snapshot taken before the mutations below reached the backend
		return []item{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}, nil
	}
	c := New(load, itemID)
	ctx := context.Background()
	if err := c.SetParent(ctx, 1); err != nil {
		t.Fatal(err)
	}

	errc := make(chan error, 1)
	go func() { errc <- c.Reload(ctx) }()
	<-started

	if err := c.Delete(ctx, 2, func(context.Context) error { return nil }); err != nil {
		t.Fatal(err)
	}
	c.ApplyUpdated(item{ID: 1, Title: "a2"})
	c.ApplyCreated(item{ID: 3, Title: "c"})
	close(release)

	if err := <-errc; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	items := c.Items()
	if len(items) != 2 || items[0].ID != 1 || items[0].Title != "a2" || items[1].ID != 3 {
		t.Errorf("confirmed mutations lost to the in-flight reload: %v", items)
	}

	// a later reload starts from the backend again
	if err := c.Reload(ctx); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 || c.Items()[1].ID != 2 {
		t.Errorf("mutations replayed onto a later load: %v", c.Items())
	}
}

func TestCreate_AppliesOnlyOnSuccess(t *testing.T) {
	var calls atomic.Int32
	c := New(countingLoader(&calls), itemID)
	c.SetParent(context.Background(), 1)

	_, err := c.Create(context.Background(), func(ctx context.Context) (item, error) {
		return item{ID: 50}, errors.New("rejected")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if c.Len() != 2 {
		t.Errorf("failed create must not change the collection, got %v", c.Items())
	}

	err = c.Delete(context.Background(), 11, func(ctx context.Context) error {
		return errors.New("rejected")
	})
	if err == nil || c.Len() != 2 {
		t.Errorf("failed delete must keep the item (err=%v, items=%v)", err, c.Items())
	}
}

func TestNotifier_FiltersByKindAndParent(t *testing.T) {
	n := NewNotifier()
	list5, cancel5 := n.Subscribe(KindTask, 5)
	defer cancel5()
	all, cancelAll := n.Subscribe(KindTask, 0)
	defer cancelAll()

	n.Publish(Change{Kind: KindTask, Op: Created, ParentID: 6, ID: 1})
	n.Publish(Change{Kind: KindLabel, Op: Created, ParentID: 5, ID: 2})
	n.Publish(Change{Kind: KindTask, Op: Created, ParentID: 5, ID: 3})

	got := <-list5
	if got.ID != 3 {
		t.Errorf("expected change 3, got %+v", got)
	}
	select {
	case extra := <-list5:
		t.Errorf("unexpected extra change %+v", extra)
	default:
	}

	if a, b := <-all, <-all; a.ID != 1 || b.ID != 3 {
		t.Errorf("wildcard subscriber got %d, %d", a.ID, b.ID)
	}
}

func TestNotifier_FullSubscriberDoesNotBlock(t *testing.T) {
	n := NewNotifier()
	_, cancel := n.Subscribe(KindTask, 0)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*4; i++ {
			n.Publish(Change{Kind: KindTask, Op: Created, ParentID: 1})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}

func TestNotifier_CancelClosesChannel(t *testing.T) {
	n := NewNotifier()
	ch, cancel := n.Subscribe(KindList, 1)
	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Error("expected closed channel")
	}
	n.Publish(Change{Kind: KindList, ParentID: 1})
}
