package collection

import (
	"sync"

	"github.com/sirupsen/logrus"

	"taskboard/internal/logging"
)

// Kind names an entity type.
type Kind string

const (
	KindWorkspace  Kind = "workspace"
	KindList       Kind = "list"
	KindTask       Kind = "task"
	KindLabel      Kind = "label"
	KindAttachment Kind = "attachment"
)

// Op is the mutation that produced a Change.
type Op int

const (
	Created Op = iota + 1
	Updated
	Deleted
)

func (o Op) String() string {
	switch o {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Deleted:
		return "deleted"
	}
	return "unknown"
}

// Change describes one confirmed mutation.
type Change struct {
	Kind     Kind
	Op       Op
	ParentID int64
	ID       int64
	Entity   interface{}
}

const subscriberBuffer = 8

type subscriber struct {
	kind   Kind
	parent int64
	ch     chan Change
}

// Notifier fans changes out to subscribers filtered by kind and parent.
// Publishing never blocks: a change is dropped for a subscriber whose
// buffer is full.
type Notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]*subscriber
}

// NewNotifier returns a Notifier with no subscribers.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]*subscriber)}
}

// Subscribe returns a channel of changes of kind under parentID. A parentID
// of 0 matches every parent. The cancel func closes the channel.
func (n *Notifier) Subscribe(kind Kind, parentID int64) (<-chan Change, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.next
	n.next++
	sub := &subscriber{kind: kind, parent: parentID, ch: make(chan Change, subscriberBuffer)}
	n.subs[id] = sub

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.subs, id)
			close(sub.ch)
		})
	}
}

// Publish delivers c to every matching subscriber.
func (n *Notifier) Publish(c Change) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, sub := range n.subs {
		if sub.kind != c.Kind || (sub.parent != 0 && sub.parent != c.ParentID) {
			continue
		}
		select {
		case sub.ch <- c:
		default:
			logging.Logger.WithFields(logrus.Fields{
				"kind":      string(c.Kind),
				"op":        c.Op.String(),
				"parent_id": c.ParentID,
			}).Warn("dropping change for slow subscriber")
		}
	}
}
