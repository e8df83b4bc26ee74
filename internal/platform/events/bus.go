package events

import (
	"log/slog"
	"sync"
)

const (
	TableAttendance    = "attendance"
	TableTasks         = "tasks"
	TableLeaveRequests = "leave_requests"
)

const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
)

// Change is one data-change item: which table, what happened, and the row
// as it looks after the event.
type Change struct {
	Table     string         `json:"table"`
	EventType string         `json:"eventType"`
	Record    map[string]any `json:"record"`
}

const subscriberBuffer = 32

type subscriber struct {
	ch     chan Change
	tables map[string]bool
}

// Bus fans data-change events out to in-process subscribers. Publishing never
// blocks: a subscriber that cannot keep up loses events instead of stalling
// the writer that produced the change.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]subscriber
}

func NewBus() *Bus {
	return &Bus{subs: map[int]subscriber{}}
}

// Subscription delivers matching changes on C until Close is called.
type Subscription struct {
	C <-chan Change

	bus  *Bus
	id   int
	once sync.Once
}

// Subscribe registers interest in the given tables; with no tables, every
// change is delivered. Callers must Close the subscription when done.
func (b *Bus) Subscribe(tables ...string) *Subscription {
	filter := map[string]bool{}
	for _, table := range tables {
		filter[table] = true
	}

	ch := make(chan Change, subscriberBuffer)
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[id] = subscriber{ch: ch, tables: filter}
	b.mu.Unlock()

	return &Subscription{C: ch, bus: b, id: id}
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		if sub, ok := s.bus.subs[s.id]; ok {
			delete(s.bus.subs, s.id)
			close(sub.ch)
		}
		s.bus.mu.Unlock()
	})
}

func (b *Bus) Publish(change Change) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs {
		if len(sub.tables) > 0 && !sub.tables[change.Table] {
			continue
		}
		select {
		case sub.ch <- change:
		default:
			slog.Warn("event subscriber lagging, change dropped", "table", change.Table, "eventType", change.EventType)
		}
	}
}

func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
