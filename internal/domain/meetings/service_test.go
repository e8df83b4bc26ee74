package meetings

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeMeetingStore struct {
	rows []Meeting
}

func (f *fakeMeetingStore) Create(ctx context.Context, m Meeting) (Meeting, error) {
	m.ID = "m1"
	m.CreatedAt = time.Now()
	f.rows = append(f.rows, m)
	return m, nil
}

func (f *fakeMeetingStore) List(ctx context.Context, limit, offset int) ([]Meeting, error) {
	return f.rows, nil
}

type fakeConference struct {
	configured bool
	url        string
	err        error
}

func (f fakeConference) Configured() bool { return f.configured }

func (f fakeConference) CreateMeeting(ctx context.Context, title string, start, end time.Time, attendees []string) (string, error) {
	return f.url, f.err
}

type fakeZoom struct {
	url string
	err error
}

func (f fakeZoom) CreateMeeting(ctx context.Context, topic string, start time.Time) (string, error) {
	return f.url, f.err
}

func validInput(platform string) ScheduleInput {
	return ScheduleInput{
		Platform:  platform,
		Title:     "Sprint Sync",
		Date:      "2026-04-10",
		Time:      "14:30",
		Attendees: []string{"amara@example.com", "joel@example.com"},
	}
}

func TestScheduleGoogleMeeting(t *testing.T) {
	store := &fakeMeetingStore{}
	svc := NewService(store, fakeConference{configured: true, url: "https://meet.google.com/abc-defg-hij"}, fakeZoom{})

	m, err := svc.Schedule(context.Background(), "u1", validInput(PlatformGoogle))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.MeetingURL == "" {
		t.Fatal("expected a meeting url")
	}
	if m.Platform != PlatformGoogle {
		t.Fatalf("expected platform google, got %q", m.Platform)
	}
	if len(store.rows) != 1 {
		t.Fatalf("expected one appended row, got %d", len(store.rows))
	}
}

func TestScheduleZoomMeeting(t *testing.T) {
	store := &fakeMeetingStore{}
	svc := NewService(store, fakeConference{}, fakeZoom{url: "https://zoom.us/fake-ab1cd"})

	m, err := svc.Schedule(context.Background(), "u1", validInput(PlatformZoom))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(m.MeetingURL, "https://zoom.us/") {
		t.Fatalf("unexpected url %q", m.MeetingURL)
	}
}

func TestScheduleUpstreamFailureSkipsAppend(t *testing.T) {
	store := &fakeMeetingStore{}
	svc := NewService(store, fakeConference{configured: true, err: errors.New("calendar down")}, fakeZoom{})

	_, err := svc.Schedule(context.Background(), "u1", validInput(PlatformGoogle))
	if !errors.Is(err, ErrUpstreamFailed) {
		t.Fatalf("expected ErrUpstreamFailed, got %v", err)
	}
	if len(store.rows) != 0 {
		t.Fatal("row must not be appended when the provider fails")
	}
}

func TestScheduleValidation(t *testing.T) {
	svc := NewService(&fakeMeetingStore{}, fakeConference{configured: true, url: "x"}, fakeZoom{url: "y"})

	in := validInput(PlatformGoogle)
	in.Attendees = nil
	if _, err := svc.Schedule(context.Background(), "u1", in); !errors.Is(err, ErrNoAttendees) {
		t.Fatalf("expected ErrNoAttendees, got %v", err)
	}

	in = validInput("teams")
	if _, err := svc.Schedule(context.Background(), "u1", in); !errors.Is(err, ErrBadPlatform) {
		t.Fatalf("expected ErrBadPlatform, got %v", err)
	}

	in = validInput(PlatformGoogle)
	in.Attendees = []string{"not-an-email"}
	if _, err := svc.Schedule(context.Background(), "u1", in); err == nil {
		t.Fatal("expected attendee validation error")
	}

	in = validInput(PlatformGoogle)
	in.Time = "half past two"
	if _, err := svc.Schedule(context.Background(), "u1", in); err == nil {
		t.Fatal("expected date/time parse error")
	}
}

func TestValidateAttendees(t *testing.T) {
	tests := []struct {
		name      string
		attendees []string
		wantErr   bool
	}{
		{"valid pair", []string{"a@b.io", "c@d.org"}, false},
		{"empty list", nil, true},
		{"bare domain", []string{"example.com"}, true},
		{"missing tld", []string{"a@b"}, true},
		{"spaces", []string{"a b@c.io"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAttendees(tc.attendees)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ValidateAttendees(%v) error = %v, wantErr %v", tc.attendees, err, tc.wantErr)
			}
		})
	}
}
