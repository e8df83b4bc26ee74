package notifications

import (
	"context"
	"sync"
	"testing"
	"time"

	"workpulse/internal/platform/events"
	"workpulse/internal/platform/gemini"
)

type memStore struct {
	mu   sync.Mutex
	rows []Notification
}

func (m *memStore) CreateNotification(ctx context.Context, userID, ntype, message string, degraded bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, Notification{UserID: userID, Type: ntype, Message: message, Degraded: degraded})
	return nil
}

func (m *memStore) UserEmail(ctx context.Context, userID string) (string, error) {
	return "", nil
}

func (m *memStore) ListNotifications(ctx context.Context, userID string, limit, offset int) ([]Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Notification
	for _, n := range m.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memStore) CountNotifications(ctx context.Context, userID string) (int, error) {
	n, _ := m.ListNotifications(ctx, userID, 0, 0)
	return len(n), nil
}

func (m *memStore) MarkRead(ctx context.Context, userID, notificationID string) error {
	return nil
}

func (m *memStore) snapshot() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Notification, len(m.rows))
	copy(out, m.rows)
	return out
}

type fixedSummarizer struct {
	summary gemini.Summary
}

func (f fixedSummarizer) Summarize(ctx context.Context, prompt string) gemini.Summary {
	return f.summary
}

func TestBridgeFansOutToAssignees(t *testing.T) {
	store := &memStore{}
	bridge := NewBridge(events.NewBus(), New(store, nil), fixedSummarizer{
		summary: gemini.Summary{Text: "Task 'Ship release' was updated."},
	})

	bridge.handle(context.Background(), events.Change{
		Table:     events.TableTasks,
		EventType: events.EventInsert,
		Record:    map[string]any{"assignees": []string{"u2", "u3"}, "createdBy": "u1"},
	})

	rows := store.snapshot()
	if len(rows) != 2 {
		t.Fatalf("expected one notification per assignee, got %d", len(rows))
	}
	for _, n := range rows {
		if n.Type != TypeTask || n.Degraded {
			t.Fatalf("unexpected notification: %+v", n)
		}
	}
}

func TestBridgeWritesFallbackOnDegradedSummary(t *testing.T) {
	store := &memStore{}
	bridge := NewBridge(events.NewBus(), New(store, nil), fixedSummarizer{
		summary: gemini.Summary{Text: gemini.FallbackMessage, Degraded: true, Reason: gemini.DegradedUpstreamError},
	})

	bridge.handle(context.Background(), events.Change{
		Table:     events.TableAttendance,
		EventType: events.EventInsert,
		Record:    map[string]any{"userId": "u1"},
	})

	rows := store.snapshot()
	if len(rows) != 1 {
		t.Fatalf("delivery must not depend on the model, got %d rows", len(rows))
	}
	if rows[0].Message != gemini.FallbackMessage || !rows[0].Degraded {
		t.Fatalf("expected degraded fallback, got %+v", rows[0])
	}
}

func TestBridgeStartConsumesBusEvents(t *testing.T) {
	store := &memStore{}
	bus := events.NewBus()
	bridge := NewBridge(bus, New(store, nil), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bridge.Start(ctx)

	bus.Publish(events.Change{
		Table:     events.TableAttendance,
		EventType: events.EventInsert,
		Record:    map[string]any{"userId": "u1"},
	})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(store.snapshot()) == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("expected the bridge to write a notification")
}
