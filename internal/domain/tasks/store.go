package tasks

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, createdBy, title, description string, dueDate time.Time, assignees []string) (Task, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Task{}, err
	}
	defer tx.Rollback(ctx)

	var t Task
	err = tx.QueryRow(ctx, `
    INSERT INTO tasks (created_by, title, description, due_date, status)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id, created_by, title, description, due_date, status, created_at, updated_at
  `, createdBy, title, description, dueDate, StatusPending).Scan(
		&t.ID, &t.CreatedBy, &t.Title, &t.Description, &t.DueDate, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return Task{}, err
	}

	for _, userID := range assignees {
		if _, err := tx.Exec(ctx, "INSERT INTO task_assignees (task_id, user_id) VALUES ($1,$2)", t.ID, userID); err != nil {
			return Task{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Task{}, err
	}
	t.Assignees = assignees
	return t, nil
}

func (s *Store) Get(ctx context.Context, taskID string) (Task, error) {
	var t Task
	err := s.DB.QueryRow(ctx, `
    SELECT id, created_by, title, description, due_date, status, COALESCE(calendar_event_id, ''), created_at, updated_at
    FROM tasks
    WHERE id = $1
  `, taskID).Scan(&t.ID, &t.CreatedBy, &t.Title, &t.Description, &t.DueDate, &t.Status, &t.CalendarEventID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return Task{}, err
	}
	assignees, err := s.assignees(ctx, t.ID)
	if err != nil {
		return Task{}, err
	}
	t.Assignees = assignees
	return t, nil
}

func (s *Store) List(ctx context.Context, userID string, limit, offset int) ([]Task, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT DISTINCT t.id, t.created_by, t.title, t.description, t.due_date, t.status, COALESCE(t.calendar_event_id, ''), t.created_at, t.updated_at
    FROM tasks t
    LEFT JOIN task_assignees a ON a.task_id = t.id
    WHERE t.created_by = $1 OR a.user_id = $1
    ORDER BY t.created_at DESC
    LIMIT $2 OFFSET $3
  `, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.collect(ctx, rows)
}

func (s *Store) ListAll(ctx context.Context, limit, offset int) ([]Task, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, created_by, title, description, due_date, status, COALESCE(calendar_event_id, ''), created_at, updated_at
    FROM tasks
    ORDER BY created_at DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.collect(ctx, rows)
}

func (s *Store) UpdateStatus(ctx context.Context, taskID, status string) (Task, error) {
	_, err := s.DB.Exec(ctx, "UPDATE tasks SET status = $1, updated_at = now() WHERE id = $2", status, taskID)
	if err != nil {
		return Task{}, err
	}
	return s.Get(ctx, taskID)
}

func (s *Store) SetCalendarEventID(ctx context.Context, taskID, eventID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE tasks SET calendar_event_id = $1, updated_at = now() WHERE id = $2", eventID, taskID)
	return err
}

func (s *Store) CountByUser(ctx context.Context, userID string) (int, error) {
	var total int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(DISTINCT t.id)
    FROM tasks t
    LEFT JOIN task_assignees a ON a.task_id = t.id
    WHERE t.created_by = $1 OR a.user_id = $1
  `, userID).Scan(&total)
	return total, err
}

func (s *Store) assignees(ctx context.Context, taskID string) ([]string, error) {
	rows, err := s.DB.Query(ctx, "SELECT user_id FROM task_assignees WHERE task_id = $1", taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		out = append(out, userID)
	}
	return out, rows.Err()
}

type taskRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func (s *Store) collect(ctx context.Context, rows taskRows) ([]Task, error) {
	var out []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.CreatedBy, &t.Title, &t.Description, &t.DueDate, &t.Status, &t.CalendarEventID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		assignees, err := s.assignees(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Assignees = assignees
	}
	return out, nil
}
