package tasks

import "time"

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

type Task struct {
	ID              string    `json:"id"`
	CreatedBy       string    `json:"createdBy"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DueDate         time.Time `json:"dueDate"`
	Status          string    `json:"status"`
	CalendarEventID string    `json:"calendarEventId,omitempty"`
	Assignees       []string  `json:"assignees"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
