package notify

import (
	"context"
	"log"
	"sync"
	"time"
)

// Level classifies an event for display purposes.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Event is a user-visible store notification: the operation that produced it
// and a short human-readable reason.
type Event struct {
	Op      string
	Level   Level
	Message string
	Time    time.Time
}

// Subscriber receives store events. Implementations must not block for long;
// delivery happens on a small worker pool shared by all subscribers.
type Subscriber interface {
	Notify(event Event)
}

// SubscriberFunc adapts a function to the Subscriber interface.
type SubscriberFunc func(event Event)

// Notify calls the function.
func (f SubscriberFunc) Notify(event Event) { f(event) }

// Notifier fans store events out to registered subscribers without blocking
// the store's mutating operations.
type Notifier struct {
	size   int
	events chan Event

	mu   sync.RWMutex
	subs []Subscriber
}

// NewNotifier creates a notifier with the given worker pool size and event
// buffer.
func NewNotifier(size, buffer int) *Notifier {
	if size <= 0 {
		size = 1
	}
	if buffer <= 0 {
		buffer = 64
	}
	return &Notifier{
		size:   size,
		events: make(chan Event, buffer),
	}
}

// Start launches the worker goroutines.
func (n *Notifier) Start(ctx context.Context) {
	for i := 0; i < n.size; i++ {
		go n.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (n *Notifier) worker(ctx context.Context, id int) {
	for {
		select {
		case event := <-n.events:
			n.deliver(event)
		case <-ctx.Done():
			log.Printf("Notifier worker %d shutting down", id)
			return
		}
	}
}

// Subscribe registers a subscriber for all future events.
func (n *Notifier) Subscribe(s Subscriber) {
	if s == nil {
		return
	}
	n.mu.Lock()
	n.subs = append(n.subs, s)
	n.mu.Unlock()
}

// Publish queues an event for delivery. When the buffer is full the event is
// dropped with a log line rather than blocking the caller.
func (n *Notifier) Publish(event Event) {
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}
	select {
	case n.events <- event:
	default:
		log.Printf("Notifier buffer full, dropping event %s: %s", event.Op, event.Message)
	}
}

// Events returns the events channel for testing.
func (n *Notifier) Events() chan Event {
	return n.events
}

func (n *Notifier) deliver(event Event) {
	n.mu.RLock()
	subs := make([]Subscriber, len(n.subs))
	copy(subs, n.subs)
	n.mu.RUnlock()

	for _, s := range subs {
		s.Notify(event)
	}
}
