// Package progress carries best-effort progress notifications from the
// transfer engine to whoever is listening. The engine depends only on the
// Reporter interface; delivery is fire-and-forget.
package progress

import (
	"sync"

	"github.com/pibridge/pibridge/pkg/types"
)

// Reporter receives (topic, value) events from an in-flight operation.
type Reporter interface {
	Emit(topic string, value uint64)
}

// Func adapts a function to the Reporter interface.
type Func func(topic string, value uint64)

// Emit calls the wrapped function.
func (f Func) Emit(topic string, value uint64) { f(topic, value) }

// Nop discards all events.
var Nop Reporter = Func(func(string, uint64) {})

// subscriberBuffer bounds how far a subscriber may fall behind before events
// are dropped for it.
const subscriberBuffer = 64

// Hub fans events out to all active subscribers. Slow subscribers lose
// events rather than stalling the emitting transfer.
type Hub struct {
	mu   sync.Mutex
	subs map[chan types.ProgressEvent]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan types.ProgressEvent]struct{})}
}

// Emit broadcasts one event to every subscriber without blocking.
func (h *Hub) Emit(topic string, value uint64) {
	ev := types.ProgressEvent{Topic: topic, Value: value}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
			// Subscriber is behind; drop rather than block the transfer.
		}
	}
}

// Subscribe registers a new subscriber and returns its event channel plus a
// cancel function that must be called when the subscriber goes away.
func (h *Hub) Subscribe() (<-chan types.ProgressEvent, func()) {
	ch := make(chan types.ProgressEvent, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
	return ch, cancel
}

// Subscribers returns the number of active subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Tee duplicates events to several reporters.
func Tee(reporters ...Reporter) Reporter {
	return Func(func(topic string, value uint64) {
		for _, r := range reporters {
			r.Emit(topic, value)
		}
	})
}
