// Package collection keeps a client-side copy of a backend collection scoped
// by a parent id, and applies confirmed mutations to it.
package collection

import (
	"context"
	"errors"
	"sync"

	"taskboard/internal/logging"
)

var (
	// ErrStale is returned by a load whose result was superseded by a newer
	// load or by Close. The result was discarded.
	ErrStale = errors.New("stale load discarded")

	// ErrClosed is returned by loads started after Close.
	ErrClosed = errors.New("collection closed")
)

// Loader fetches every entity under parentID.
type Loader[T any] func(ctx context.Context, parentID int64) ([]T, error)

// State is a snapshot of load status.
type State struct {
	Loading  bool
	Err      error
	ParentID int64
}

// Collection is a parent-scoped list of T. Loads for a parent id of 0 never
// reach the loader and leave the collection empty.
type Collection[T any] struct {
	load Loader[T]
	id   func(T) int64

	mu      sync.Mutex
	parent  int64
	items   []T
	loading bool
	err     error
	gen     uint64
	cancel  context.CancelFunc
	closed  bool

	// confirmed mutations applied while a load is in flight, replayed onto
	// its result
	replay []func([]T) []T
}

// New creates an empty collection.
func New[T any](load Loader[T], id func(T) int64) *Collection[T] {
	return &Collection[T]{load: load, id: id}
}

// SetParent re-scopes the collection and fetches when the parent changed.
// Setting the same parent again is a no-op.
func (c *Collection[T]) SetParent(ctx context.Context, parentID int64) error {
	c.mu.Lock()
	same := parentID == c.parent
	loaded := c.items != nil || c.loading
	if !same {
		c.items = nil
	}
	c.mu.Unlock()

	if same && loaded {
		return nil
	}
	return c.fetch(ctx, parentID)
}

// Reload fetches the current parent again. Each call is exactly one fetch.
func (c *Collection[T]) Reload(ctx context.Context) error {
	return c.fetch(ctx, c.Parent())
}

func (c *Collection[T]) fetch(ctx context.Context, parentID int64) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
	gen := c.gen
	c.parent = parentID
	c.err = nil
	c.replay = nil

	if parentID == 0 {
		c.items = nil
		c.loading = false
		c.mu.Unlock()
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.loading = true
	c.mu.Unlock()

	items, err := c.load(ctx, parentID)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.closed {
		logging.Logger.WithField("parent_id", parentID).Debug("discarding stale load")
		return ErrStale
	}
	c.cancel = nil
	c.loading = false
	replay := c.replay
	c.replay = nil
	if err != nil {
		c.err = err
		return err
	}
	if items == nil {
		items = []T{}
	}
	for _, fn := range replay {
		items = fn(items)
	}
	c.items = items
	return nil
}

// Close cancels any in-flight load. Results arriving afterwards are discarded.
func (c *Collection[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.gen++
	c.loading = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Parent returns the current parent id.
func (c *Collection[T]) Parent() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.parent
}

// Items returns a copy of the current items in backend order.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of items.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// State returns a snapshot of load status.
func (c *Collection[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Loading: c.loading, Err: c.err, ParentID: c.parent}
}

// ApplyCreated appends v, replacing an entity with the same id instead of
// duplicating it.
func (c *Collection[T]) ApplyCreated(v T) {
	c.apply(func(items []T) []T {
		if i := c.indexIn(items, c.id(v)); i >= 0 {
			items[i] = v
			return items
		}
		return append(items, v)
	})
}

// ApplyUpdated replaces the entity with v's id in place. Unknown ids are
// ignored.
func (c *Collection[T]) ApplyUpdated(v T) {
	c.apply(func(items []T) []T {
		if i := c.indexIn(items, c.id(v)); i >= 0 {
			items[i] = v
		}
		return items
	})
}

// ApplyDeleted removes the entity with id.
func (c *Collection[T]) ApplyDeleted(id int64) {
	c.apply(func(items []T) []T {
		if i := c.indexIn(items, id); i >= 0 {
			return append(items[:i], items[i+1:]...)
		}
		return items
	})
}

// apply runs fn on the current items and, while a load is in flight, keeps
// it for that load's result too.
func (c *Collection[T]) apply(fn func([]T) []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = fn(c.items)
	if c.loading {
		c.replay = append(c.replay, fn)
	}
}

func (c *Collection[T]) indexIn(items []T, id int64) int {
	for i, it := range items {
		if c.id(it) == id {
			return i
		}
	}
	return -1
}

// Create runs the backend call and applies its result only on success.
func (c *Collection[T]) Create(ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	v, err := fn(ctx)
	if err != nil {
		return v, err
	}
	c.ApplyCreated(v)
	return v, nil
}

// Update runs the backend call and applies its result only on success.
func (c *Collection[T]) Update(ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	v, err := fn(ctx)
	if err != nil {
		return v, err
	}
	c.ApplyUpdated(v)
	return v, nil
}

// Delete runs the backend call and removes id only on success.
func (c *Collection[T]) Delete(ctx context.Context, id int64, fn func(context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	c.ApplyDeleted(id)
	return nil
}
