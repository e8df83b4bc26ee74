package tasks

import (
	"context"
	"log/slog"
	"time"

	"workpulse/internal/platform/events"
)

// SyncNotice is returned alongside a task whose calendar mirror failed.
const SyncNotice = "Task saved but not synced to calendar"

type Calendar interface {
	Configured() bool
	MirrorEvent(ctx context.Context, summary, description string, start, end time.Time, attendees []string) (string, error)
}

type Service struct {
	store    StoreAPI
	calendar Calendar
	bus      *events.Bus
}

func NewService(store StoreAPI, cal Calendar, bus *events.Bus) *Service {
	return &Service{store: store, calendar: cal, bus: bus}
}

type CreateResult struct {
	Task           Task   `json:"task"`
	CalendarSynced bool   `json:"calendarSynced"`
	Notice         string `json:"notice,omitempty"`
}

// Create persists the task first and only then attempts the calendar mirror.
// A mirror failure never unwinds the stored task; the result just reports
// that the copy is missing.
func (s *Service) Create(ctx context.Context, createdBy, title, description string, dueDate time.Time, assignees []string) (CreateResult, error) {
	task, err := s.store.Create(ctx, createdBy, title, description, dueDate, assignees)
	if err != nil {
		return CreateResult{}, err
	}
	s.publish(events.EventInsert, task)

	result := CreateResult{Task: task}
	if s.calendar == nil || !s.calendar.Configured() {
		result.Notice = SyncNotice
		return result, nil
	}

	eventID, err := s.calendar.MirrorEvent(ctx, task.Title, task.Description, task.DueDate, task.DueDate.Add(time.Hour), nil)
	if err != nil {
		slog.Warn("calendar mirror failed", "taskId", task.ID, "err", err)
		result.Notice = SyncNotice
		return result, nil
	}

	if err := s.store.SetCalendarEventID(ctx, task.ID, eventID); err != nil {
		slog.Warn("calendar event id not stored", "taskId", task.ID, "err", err)
	}
	task.CalendarEventID = eventID
	result.Task = task
	result.CalendarSynced = true
	return result, nil
}

func (s *Service) Get(ctx context.Context, taskID string) (Task, error) {
	return s.store.Get(ctx, taskID)
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Task, error) {
	return s.store.List(ctx, userID, limit, offset)
}

func (s *Service) ListAll(ctx context.Context, limit, offset int) ([]Task, error) {
	return s.store.ListAll(ctx, limit, offset)
}

func (s *Service) UpdateStatus(ctx context.Context, taskID, status string) (Task, error) {
	task, err := s.store.UpdateStatus(ctx, taskID, status)
	if err != nil {
		return Task{}, err
	}
	s.publish(events.EventUpdate, task)
	return task, nil
}

func (s *Service) Count(ctx context.Context, userID string) (int, error) {
	return s.store.CountByUser(ctx, userID)
}

func (s *Service) publish(eventType string, task Task) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.Change{
		Table:     events.TableTasks,
		EventType: eventType,
		Record: map[string]any{
			"id":        task.ID,
			"title":     task.Title,
			"status":    task.Status,
			"createdBy": task.CreatedBy,
			"assignees": task.Assignees,
		},
	})
}
