// Package wm implements working memory: a process-local, short-lived
// key/value layer used to arbitrate between concurrently-asserted values
// and to fan out change notifications.
//
// Time is logical: every operation takes the caller's current tick. The
// table never reads the wall clock, so expiry and arbitration are fully
// deterministic under test and replay.
package wm

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Entry is one working-memory assertion. Multiple entries may share a key;
// arbitration picks a winner by confidence, then insertion order.
type Entry struct {
	ID         string      `json:"id"`
	Key        string      `json:"key"`
	Value      interface{} `json:"value"`
	Tags       []string    `json:"tags,omitempty"`
	Confidence float64     `json:"confidence"`
	// Deadline is the logical tick at which the entry dies. An entry is
	// live while Deadline > now.
	Deadline int64 `json:"deadline"`
	// Order is the per-process insertion counter; later entries win
	// confidence ties.
	Order int64 `json:"order"`
}

// Live reports whether the entry has not yet expired at the given tick.
func (e Entry) Live(now int64) bool {
	return e.Deadline > now
}

// Options configures a Table.
type Options struct {
	// Sink receives one event per live entry on every tick. Defaults to
	// an in-process Queue.
	Sink Sink
	// DefaultTTL in ticks for entries put without an explicit TTL.
	DefaultTTL int64
	// Log, when non-nil, persists entries on Put for replay at startup.
	Log *Log
}

// Table is the process-wide working memory. Single-owner: one table per
// process, guarded internally for cooperative access.
type Table struct {
	mu      sync.Mutex
	entries []Entry
	order   int64
	ttl     int64
	sink    Sink
	log     *Log
	entropy *rand.Rand
}

// NewTable creates a working memory table.
func NewTable(opts Options) *Table {
	sink := opts.Sink
	if sink == nil {
		sink = NewQueue()
	}
	ttl := opts.DefaultTTL
	if ttl <= 0 {
		ttl = 300
	}
	return &Table{
		ttl:     ttl,
		sink:    sink,
		log:     opts.Log,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (t *Table) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), t.entropy).String()
}

// Put appends a new entry for key. It never overwrites existing same-key
// entries. A ttl of 0 or less uses the table default. Persistence, when
// enabled, is best-effort: a log failure is reported but the entry stays.
func (t *Table) Put(key string, value interface{}, tags []string, confidence float64, ttl, now int64) Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ttl <= 0 {
		ttl = t.ttl
	}
	t.order++
	e := Entry{
		ID:         t.newID(),
		Key:        key,
		Value:      value,
		Tags:       tags,
		Confidence: confidence,
		Deadline:   now + ttl,
		Order:      t.order,
	}
	t.entries = append(t.entries, e)

	if t.log != nil {
		if err := t.log.Append(e); err != nil {
			slog.Warn("wm log append failed", "key", key, "err", err)
		}
	}
	return e
}

// Get returns all live entries for key plus the arbitration winner: the
// entry with the highest confidence, ties broken by latest insertion.
func (t *Table) Get(key string, now int64) ([]Entry, *Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var live []Entry
	for _, e := range t.entries {
		if e.Key == key && e.Live(now) {
			live = append(live, e)
		}
	}
	if len(live) == 0 {
		return nil, nil
	}

	winner := live[0]
	for _, e := range live[1:] {
		if e.Confidence > winner.Confidence ||
			(e.Confidence == winner.Confidence && e.Order > winner.Order) {
			winner = e
		}
	}
	return live, &winner
}

// Dump returns all live entries.
func (t *Table) Dump(now int64) []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	var live []Entry
	for _, e := range t.entries {
		if e.Live(now) {
			live = append(live, e)
		}
	}
	return live
}

// Tick removes expired entries and emits one notification event per live
// entry so other components can react without polling. Returns the number
// of entries expired.
func (t *Table) Tick(now int64) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.entries[:0]
	expired := 0
	for _, e := range t.entries {
		if e.Live(now) {
			kept = append(kept, e)
		} else {
			expired++
		}
	}
	t.entries = kept

	for _, e := range t.entries {
		t.sink.Emit(Event{
			ID:         t.newID(),
			Type:       EventEntry,
			Key:        e.Key,
			Confidence: e.Confidence,
			Order:      e.Order,
		})
	}
	return expired
}

// ProcessEvents drains the default queue sink and returns per-type event
// counts. Tables wired to a custom sink report nothing here; their
// consumer owns the drain.
func (t *Table) ProcessEvents() map[string]int {
	q, ok := t.sink.(*Queue)
	if !ok {
		return map[string]int{}
	}
	counts := map[string]int{}
	for _, ev := range q.Drain() {
		counts[ev.Type]++
	}
	return counts
}

// Load replays the persistence log, skipping entries already dead at the
// given tick. No-op for tables without a log.
func (t *Table) Load(now int64) error {
	if t.log == nil {
		return nil
	}
	entries, err := t.log.Replay(now)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range entries {
		t.entries = append(t.entries, e)
		if e.Order > t.order {
			t.order = e.Order
		}
	}
	return nil
}
