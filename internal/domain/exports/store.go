package exports

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"workpulse/internal/domain/attendance"
	"workpulse/internal/domain/tasks"
)

// Store reads full-table snapshots for the archive. The export is an
// in-memory read of everything; acceptable at this data size, a known
// limit beyond it.

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) AllAttendance(ctx context.Context) ([]attendance.Event, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, user_id, type, latitude, longitude, created_at
    FROM attendance
    ORDER BY created_at
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []attendance.Event
	for rows.Next() {
		var evt attendance.Event
		if err := rows.Scan(&evt.ID, &evt.UserID, &evt.Type, &evt.Latitude, &evt.Longitude, &evt.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, evt)
	}
	return out, rows.Err()
}

func (s *Store) AllTasks(ctx context.Context) ([]tasks.Task, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, created_by, title, description, due_date, status, created_at
    FROM tasks
    ORDER BY created_at
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tasks.Task
	for rows.Next() {
		var t tasks.Task
		if err := rows.Scan(&t.ID, &t.CreatedBy, &t.Title, &t.Description, &t.DueDate, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
