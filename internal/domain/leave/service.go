package leave

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"workpulse/internal/platform/events"
)

var ErrForbidden = errors.New("forbidden")

type Service struct {
	store StoreAPI
	bus   *events.Bus
}

func NewService(store StoreAPI, bus *events.Bus) *Service {
	return &Service{store: store, bus: bus}
}

func (s *Service) Apply(ctx context.Context, userID, leaveType string, start, end time.Time, reason string) (Request, error) {
	if _, err := CalculateDays(start, end); err != nil {
		return Request{}, err
	}
	req, err := s.store.Create(ctx, userID, leaveType, start, end, reason)
	if err != nil {
		return Request{}, err
	}
	s.publish(events.EventInsert, req)
	return req, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string, limit, offset int) ([]Request, error) {
	return s.store.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) ListAll(ctx context.Context, limit, offset int) ([]Request, error) {
	return s.store.ListAll(ctx, limit, offset)
}

// Decide moves a pending request to approved or rejected. Final states are
// final: any other transition fails with ErrInvalidTransition before the
// store is touched. The store only updates rows still pending, so a decision
// that lands between the read and the update fails the same way instead of
// overwriting the first one.
func (s *Service) Decide(ctx context.Context, requestID, status, decidedBy string) (Request, error) {
	current, err := s.store.Get(ctx, requestID)
	if err != nil {
		return Request{}, err
	}
	if !CanTransition(current.Status, status) {
		return Request{}, ErrInvalidTransition
	}

	updated, err := s.store.Decide(ctx, requestID, status, decidedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrInvalidTransition
	}
	if err != nil {
		return Request{}, err
	}
	s.publish(events.EventUpdate, updated)
	return updated, nil
}

func (s *Service) publish(eventType string, req Request) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.Change{
		Table:     events.TableLeaveRequests,
		EventType: eventType,
		Record: map[string]any{
			"id":        req.ID,
			"userId":    req.UserID,
			"leaveType": req.LeaveType,
			"status":    req.Status,
			"appliedAt": req.AppliedAt,
		},
	})
}
