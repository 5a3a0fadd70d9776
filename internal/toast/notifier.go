// Package toast keeps the ordered list of short-lived user notifications.
package toast

import (
	"sync"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/store"
)

type Type string

const (
	Success Type = "success"
	Error   Type = "error"
	Info    Type = "info"
	Warning Type = "warning"
)

// DefaultDuration is how long a toast stays visible unless dismissed.
const DefaultDuration = 2000 * time.Millisecond

type Toast struct {
	ID        int
	Message   string
	Type      Type
	CreatedAt time.Time
}

// Notifier is the only writer of its toast collection.
type Notifier struct {
	mu     sync.Mutex
	nextID int
	live   map[int]struct{}
	timers map[int]*time.Timer
	toasts *store.Signal[[]Toast]
	now    func() time.Time
}

func NewNotifier() *Notifier {
	return &Notifier{
		live:   map[int]struct{}{},
		timers: map[int]*time.Timer{},
		toasts: store.NewSignal([]Toast{}),
		now:    time.Now,
	}
}

// Show appends a toast and schedules its removal after d (DefaultDuration
// when d <= 0). It returns the toast id.
func (n *Notifier) Show(message string, typ Type, d time.Duration) int {
	if d <= 0 {
		d = DefaultDuration
	}

	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.live[id] = struct{}{}
	t := Toast{ID: id, Message: message, Type: typ, CreatedAt: n.now()}
	n.mu.Unlock()

	n.toasts.Update(func(ts []Toast) []Toast {
		if !n.isLive(id) {
			return ts
		}
		out := make([]Toast, 0, len(ts)+1)
		out = append(out, ts...)
		return append(out, t)
	})

	// A subscriber may already have dismissed the toast.
	n.mu.Lock()
	if _, ok := n.live[id]; ok {
		n.timers[id] = time.AfterFunc(d, func() { n.Remove(id) })
	}
	n.mu.Unlock()
	return id
}

func (n *Notifier) isLive(id int) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, ok := n.live[id]
	return ok
}

func (n *Notifier) Success(message string) int { return n.Show(message, Success, DefaultDuration) }

func (n *Notifier) Error(message string) int { return n.Show(message, Error, DefaultDuration) }

func (n *Notifier) Info(message string) int { return n.Show(message, Info, DefaultDuration) }

func (n *Notifier) Warning(message string) int { return n.Show(message, Warning, DefaultDuration) }

// Remove drops the toast with id. Unknown ids are ignored.
func (n *Notifier) Remove(id int) {
	n.mu.Lock()
	_, ok := n.live[id]
	delete(n.live, id)
	if timer, armed := n.timers[id]; armed {
		timer.Stop()
		delete(n.timers, id)
	}
	n.mu.Unlock()
	if !ok {
		return
	}

	n.toasts.Update(func(ts []Toast) []Toast {
		out := make([]Toast, 0, len(ts))
		for _, t := range ts {
			if t.ID != id {
				out = append(out, t)
			}
		}
		return out
	})
}

// Toasts returns the visible toasts in insertion order.
func (n *Notifier) Toasts() []Toast {
	ts := n.toasts.Get()
	out := make([]Toast, len(ts))
	copy(out, ts)
	return out
}

// Subscribe calls fn with the new collection after every change.
func (n *Notifier) Subscribe(fn func([]Toast)) (unsubscribe func()) {
	return n.toasts.Subscribe(fn)
}

// Close stops pending expiry timers and clears the collection.
func (n *Notifier) Close() {
	n.mu.Lock()
	for id, timer := range n.timers {
		timer.Stop()
		delete(n.timers, id)
	}
	clear(n.live)
	n.mu.Unlock()
	n.toasts.Set([]Toast{})
}
