package meetings

import (
	"context"
	"fmt"
	"time"

	"workpulse/internal/platform/zoom"
)

type StoreAPI interface {
	Create(ctx context.Context, m Meeting) (Meeting, error)
	List(ctx context.Context, limit, offset int) ([]Meeting, error)
}

type Conference interface {
	Configured() bool
	CreateMeeting(ctx context.Context, title string, start, end time.Time, attendees []string) (string, error)
}

type Service struct {
	store  StoreAPI
	google Conference
	zoom   zoom.Scheduler
}

func NewService(store StoreAPI, google Conference, zoomClient zoom.Scheduler) *Service {
	return &Service{store: store, google: google, zoom: zoomClient}
}

type ScheduleInput struct {
	Platform  string
	Title     string
	Date      string
	Time      string
	Attendees []string
}

// Schedule creates the meeting with the external provider first and only
// appends the local row once a join URL exists.
func (s *Service) Schedule(ctx context.Context, createdBy string, in ScheduleInput) (Meeting, error) {
	if !ValidPlatform(in.Platform) {
		return Meeting{}, ErrBadPlatform
	}
	if err := ValidateAttendees(in.Attendees); err != nil {
		return Meeting{}, err
	}
	start, err := ParseStart(in.Date, in.Time)
	if err != nil {
		return Meeting{}, fmt.Errorf("invalid date/time: %w", err)
	}

	var url string
	switch in.Platform {
	case PlatformGoogle:
		if s.google == nil || !s.google.Configured() {
			return Meeting{}, fmt.Errorf("%w: google calendar not configured", ErrUpstreamFailed)
		}
		url, err = s.google.CreateMeeting(ctx, in.Title, start, start.Add(time.Hour), in.Attendees)
	case PlatformZoom:
		url, err = s.zoom.CreateMeeting(ctx, in.Title, start)
	}
	if err != nil {
		return Meeting{}, fmt.Errorf("%w: %v", ErrUpstreamFailed, err)
	}

	return s.store.Create(ctx, Meeting{
		Title:      in.Title,
		Date:       in.Date,
		Time:       in.Time,
		Platform:   in.Platform,
		Attendees:  in.Attendees,
		MeetingURL: url,
		CreatedBy:  createdBy,
	})
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Meeting, error) {
	return s.store.List(ctx, limit, offset)
}
