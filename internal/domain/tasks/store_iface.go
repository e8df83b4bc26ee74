package tasks

import (
	"context"
	"time"
)

type StoreAPI interface {
	Create(ctx context.Context, createdBy, title, description string, dueDate time.Time, assignees []string) (Task, error)
	Get(ctx context.Context, taskID string) (Task, error)
	List(ctx context.Context, userID string, limit, offset int) ([]Task, error)
	ListAll(ctx context.Context, limit, offset int) ([]Task, error)
	UpdateStatus(ctx context.Context, taskID, status string) (Task, error)
	SetCalendarEventID(ctx context.Context, taskID, eventID string) error
	CountByUser(ctx context.Context, userID string) (int, error)
}
