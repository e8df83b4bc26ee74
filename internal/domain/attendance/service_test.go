package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"workpulse/internal/platform/events"
)

type fakeStore struct {
	events  []Event
	checkin *Event
	inserts int
}

func (f *fakeStore) Insert(ctx context.Context, userID, eventType string, latitude, longitude float64) (Event, error) {
	f.inserts++
	evt := Event{ID: "e1", UserID: userID, Type: eventType, Latitude: latitude, Longitude: longitude, CreatedAt: time.Now()}
	f.events = append(f.events, evt)
	return evt, nil
}

func (f *fakeStore) LatestCheckin(ctx context.Context, userID string) (Event, error) {
	if f.checkin == nil {
		return Event{}, pgx.ErrNoRows
	}
	return *f.checkin, nil
}

func (f *fakeStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Event, error) {
	return f.events, nil
}

func (f *fakeStore) ListAll(ctx context.Context, limit, offset int) ([]Event, error) {
	return f.events, nil
}

func (f *fakeStore) CountByUser(ctx context.Context, userID string) (int, error) {
	return len(f.events), nil
}

func TestCheckOutWithoutCheckin(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, nil)

	_, _, err := svc.CheckOut(context.Background(), "u1", 6.9, 79.8)
	if err != ErrNoCheckin {
		t.Fatalf("expected ErrNoCheckin, got %v", err)
	}
	if store.inserts != 0 {
		t.Fatalf("expected no insert, got %d", store.inserts)
	}
}

func TestCheckOutFormatsWorkedTime(t *testing.T) {
	checkinAt := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := &fakeStore{checkin: &Event{ID: "c1", UserID: "u1", Type: TypeCheckin, CreatedAt: checkinAt}}
	svc := NewService(store, nil)
	svc.now = func() time.Time { return checkinAt.Add(5*time.Hour + 45*time.Minute) }

	evt, worked, err := svc.CheckOut(context.Background(), "u1", 6.9, 79.8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if evt.Type != TypeCheckout {
		t.Fatalf("expected checkout event, got %q", evt.Type)
	}
	if worked != "5.00 hrs" {
		t.Fatalf("expected worked %q, got %q", "5.00 hrs", worked)
	}
}

func TestCheckInPublishesChange(t *testing.T) {
	bus := events.NewBus()
	sub := bus.Subscribe(events.TableAttendance)
	defer sub.Close()

	svc := NewService(&fakeStore{}, bus)
	if _, err := svc.CheckIn(context.Background(), "u1", 6.9, 79.8); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case change := <-sub.C:
		if change.Table != events.TableAttendance || change.EventType != events.EventInsert {
			t.Fatalf("unexpected change: %+v", change)
		}
		if change.Record["userId"] != "u1" {
			t.Fatalf("unexpected record: %+v", change.Record)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a change event")
	}
}
