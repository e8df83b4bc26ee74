package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"workpulse/internal/platform/events"
)

var ErrNoCheckin = errors.New("no check-in record found")

type Service struct {
	store StoreAPI
	bus   *events.Bus
	now   func() time.Time
}

func NewService(store StoreAPI, bus *events.Bus) *Service {
	return &Service{store: store, bus: bus, now: time.Now}
}

func (s *Service) CheckIn(ctx context.Context, userID string, latitude, longitude float64) (Event, error) {
	evt, err := s.store.Insert(ctx, userID, TypeCheckin, latitude, longitude)
	if err != nil {
		return Event{}, err
	}
	s.publish(evt)
	return evt, nil
}

// CheckOut records a checkout against the caller's most recent check-in and
// returns the formatted elapsed time. Without a prior check-in nothing is
// inserted and ErrNoCheckin is returned.
func (s *Service) CheckOut(ctx context.Context, userID string, latitude, longitude float64) (Event, string, error) {
	checkin, err := s.store.LatestCheckin(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Event{}, "", ErrNoCheckin
		}
		return Event{}, "", err
	}

	evt, err := s.store.Insert(ctx, userID, TypeCheckout, latitude, longitude)
	if err != nil {
		return Event{}, "", err
	}
	s.publish(evt)

	worked := FormatWorked(s.now().Sub(checkin.CreatedAt))
	return evt, worked, nil
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Event, error) {
	return s.store.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) ListAll(ctx context.Context, limit, offset int) ([]Event, error) {
	return s.store.ListAll(ctx, limit, offset)
}

func (s *Service) Count(ctx context.Context, userID string) (int, error) {
	return s.store.CountByUser(ctx, userID)
}

func (s *Service) publish(evt Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.Change{
		Table:     events.TableAttendance,
		EventType: events.EventInsert,
		Record: map[string]any{
			"id":        evt.ID,
			"userId":    evt.UserID,
			"type":      evt.Type,
			"createdAt": evt.CreatedAt,
		},
	})
}
