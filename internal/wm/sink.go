package wm

import "sync"

// Event types emitted by the table.
const (
	// EventEntry is emitted once per live entry on every tick.
	EventEntry = "wm.entry"
)

// Event is a working-memory change notification.
type Event struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Key        string  `json:"key"`
	Confidence float64 `json:"confidence"`
	Order      int64   `json:"order"`
}

// Sink receives working-memory events. Implementations decide delivery:
// the built-in Queue buffers for a later drain; a planner integration
// could forward directly.
type Sink interface {
	Emit(Event)
}

// Queue is the default in-process sink: a buffered event list drained by
// ProcessEvents.
type Queue struct {
	mu     sync.Mutex
	events []Event
}

// NewQueue returns an empty queue sink.
func NewQueue() *Queue {
	return &Queue{}
}

// Emit buffers an event.
func (q *Queue) Emit(e Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, e)
}

// Drain returns the buffered events and clears the queue.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.events
	q.events = nil
	return out
}

// Len returns the number of buffered events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
