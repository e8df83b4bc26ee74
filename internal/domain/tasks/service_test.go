package tasks

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeStore struct {
	tasks       map[string]Task
	nextID      int
	eventIDs    map[string]string
	createErr   error
	setEventErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{tasks: map[string]Task{}, eventIDs: map[string]string{}}
}

func (f *fakeStore) Create(ctx context.Context, createdBy, title, description string, dueDate time.Time, assignees []string) (Task, error) {
	if f.createErr != nil {
		return Task{}, f.createErr
	}
	f.nextID++
	t := Task{ID: "t1", CreatedBy: createdBy, Title: title, Description: description, DueDate: dueDate, Status: StatusPending, Assignees: assignees}
	f.tasks[t.ID] = t
	return t, nil
}

func (f *fakeStore) Get(ctx context.Context, taskID string) (Task, error) {
	t, ok := f.tasks[taskID]
	if !ok {
		return Task{}, errors.New("not found")
	}
	return t, nil
}

func (f *fakeStore) List(ctx context.Context, userID string, limit, offset int) ([]Task, error) {
	return nil, nil
}

func (f *fakeStore) ListAll(ctx context.Context, limit, offset int) ([]Task, error) {
	return nil, nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, taskID, status string) (Task, error) {
	t := f.tasks[taskID]
	t.Status = status
	f.tasks[taskID] = t
	return t, nil
}

func (f *fakeStore) SetCalendarEventID(ctx context.Context, taskID, eventID string) error {
	if f.setEventErr != nil {
		return f.setEventErr
	}
	f.eventIDs[taskID] = eventID
	return nil
}

func (f *fakeStore) CountByUser(ctx context.Context, userID string) (int, error) {
	return len(f.tasks), nil
}

type fakeCalendar struct {
	configured bool
	eventID    string
	err        error
	calls      int
}

func (f *fakeCalendar) Configured() bool { return f.configured }

func (f *fakeCalendar) MirrorEvent(ctx context.Context, summary, description string, start, end time.Time, attendees []string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.eventID, nil
}

func TestCreateMirrorsToCalendar(t *testing.T) {
	store := newFakeStore()
	cal := &fakeCalendar{configured: true, eventID: "ev-42"}
	svc := NewService(store, cal, nil)

	res, err := svc.Create(context.Background(), "u1", "Ship release", "", time.Now().Add(24*time.Hour), []string{"u2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.CalendarSynced {
		t.Fatal("expected calendarSynced true")
	}
	if res.Task.CalendarEventID != "ev-42" {
		t.Fatalf("expected stored event id, got %q", res.Task.CalendarEventID)
	}
	if store.eventIDs["t1"] != "ev-42" {
		t.Fatalf("expected event id persisted, got %q", store.eventIDs["t1"])
	}
}

func TestCreateSurvivesMirrorFailure(t *testing.T) {
	store := newFakeStore()
	cal := &fakeCalendar{configured: true, err: errors.New("calendar down")}
	svc := NewService(store, cal, nil)

	res, err := svc.Create(context.Background(), "u1", "Ship release", "", time.Now(), nil)
	if err != nil {
		t.Fatalf("task must survive mirror failure, got %v", err)
	}
	if res.CalendarSynced {
		t.Fatal("expected calendarSynced false")
	}
	if res.Notice != SyncNotice {
		t.Fatalf("expected notice %q, got %q", SyncNotice, res.Notice)
	}
	if _, ok := store.tasks["t1"]; !ok {
		t.Fatal("expected task persisted despite mirror failure")
	}
}

func TestCreateSkipsUnconfiguredCalendar(t *testing.T) {
	store := newFakeStore()
	cal := &fakeCalendar{configured: false}
	svc := NewService(store, cal, nil)

	res, err := svc.Create(context.Background(), "u1", "Ship release", "", time.Now(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cal.calls != 0 {
		t.Fatalf("expected no mirror call, got %d", cal.calls)
	}
	if res.CalendarSynced {
		t.Fatal("expected calendarSynced false")
	}
}
