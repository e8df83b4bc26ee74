package leave

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"workpulse/internal/platform/events"
)

type fakeStore struct {
	requests  map[string]Request
	decides   int
	decideErr error
}

func newFakeStore(reqs ...Request) *fakeStore {
	f := &fakeStore{requests: map[string]Request{}}
	for _, r := range reqs {
		f.requests[r.ID] = r
	}
	return f
}

func (f *fakeStore) Create(ctx context.Context, userID, leaveType string, start, end time.Time, reason string) (Request, error) {
	req := Request{ID: "r1", UserID: userID, LeaveType: leaveType, StartDate: start, EndDate: end, Reason: reason, Status: StatusPending, AppliedAt: time.Now()}
	f.requests[req.ID] = req
	return req, nil
}

func (f *fakeStore) Get(ctx context.Context, requestID string) (Request, error) {
	req, ok := f.requests[requestID]
	if !ok {
		return Request{}, errors.New("not found")
	}
	return req, nil
}

func (f *fakeStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Request, error) {
	return nil, nil
}

func (f *fakeStore) ListAll(ctx context.Context, limit, offset int) ([]Request, error) {
	return nil, nil
}

func (f *fakeStore) Decide(ctx context.Context, requestID, status, decidedBy string) (Request, error) {
	f.decides++
	if f.decideErr != nil {
		return Request{}, f.decideErr
	}
	req := f.requests[requestID]
	req.Status = status
	req.DecidedBy = decidedBy
	f.requests[requestID] = req
	return req, nil
}

func TestDecideApprovesPending(t *testing.T) {
	store := newFakeStore(Request{ID: "r1", UserID: "u1", Status: StatusPending})
	bus := events.NewBus()
	sub := bus.Subscribe(events.TableLeaveRequests)
	defer sub.Close()

	svc := NewService(store, bus)
	req, err := svc.Decide(context.Background(), "r1", StatusApproved, "admin1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Status != StatusApproved || req.DecidedBy != "admin1" {
		t.Fatalf("unexpected request: %+v", req)
	}

	select {
	case change := <-sub.C:
		if change.EventType != events.EventUpdate || change.Record["status"] != StatusApproved {
			t.Fatalf("unexpected change: %+v", change)
		}
	case <-time.After(time.Second):
		t.Fatal("expected update on the bus")
	}
}

func TestDecideRejectsFinalStates(t *testing.T) {
	store := newFakeStore(Request{ID: "r1", Status: StatusApproved})
	svc := NewService(store, nil)

	_, err := svc.Decide(context.Background(), "r1", StatusRejected, "admin1")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if store.decides != 0 {
		t.Fatalf("store must not be touched on invalid transition, got %d", store.decides)
	}
}

func TestDecideLosesRaceToConcurrentDecision(t *testing.T) {
	// The request reads as pending, but another decision lands before the
	// update: the store's pending-only predicate matches no rows.
	store := newFakeStore(Request{ID: "r1", Status: StatusPending})
	store.decideErr = pgx.ErrNoRows
	svc := NewService(store, nil)

	_, err := svc.Decide(context.Background(), "r1", StatusApproved, "admin1")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestApplyValidatesRange(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	start := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)

	if _, err := svc.Apply(context.Background(), "u1", "annual", start, start.AddDate(0, 0, -1), "trip"); err == nil {
		t.Fatal("expected error for inverted range")
	}

	req, err := svc.Apply(context.Background(), "u1", "annual", start, start.AddDate(0, 0, 2), "trip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Status != StatusPending {
		t.Fatalf("expected pending, got %q", req.Status)
	}
}
