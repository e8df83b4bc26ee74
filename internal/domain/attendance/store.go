package attendance

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Insert(ctx context.Context, userID, eventType string, latitude, longitude float64) (Event, error) {
	var evt Event
	err := s.DB.QueryRow(ctx, `
    INSERT INTO attendance (user_id, type, latitude, longitude)
    VALUES ($1,$2,$3,$4)
    RETURNING id, user_id, type, latitude, longitude, created_at
  `, userID, eventType, latitude, longitude).Scan(&evt.ID, &evt.UserID, &evt.Type, &evt.Latitude, &evt.Longitude, &evt.CreatedAt)
	return evt, err
}

func (s *Store) LatestCheckin(ctx context.Context, userID string) (Event, error) {
	var evt Event
	err := s.DB.QueryRow(ctx, `
    SELECT id, user_id, type, latitude, longitude, created_at
    FROM attendance
    WHERE user_id = $1 AND type = $2
    ORDER BY created_at DESC
    LIMIT 1
  `, userID, TypeCheckin).Scan(&evt.ID, &evt.UserID, &evt.Type, &evt.Latitude, &evt.Longitude, &evt.CreatedAt)
	return evt, err
}

func (s *Store) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Event, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, user_id, type, latitude, longitude, created_at
    FROM attendance
    WHERE user_id = $1
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *Store) ListAll(ctx context.Context, limit, offset int) ([]Event, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, user_id, type, latitude, longitude, created_at
    FROM attendance
    ORDER BY created_at DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *Store) CountByUser(ctx context.Context, userID string) (int, error) {
	var total int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM attendance WHERE user_id = $1", userID).Scan(&total)
	return total, err
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanEvents(rows pgxRows) ([]Event, error) {
	var events []Event
	for rows.Next() {
		var evt Event
		if err := rows.Scan(&evt.ID, &evt.UserID, &evt.Type, &evt.Latitude, &evt.Longitude, &evt.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, evt)
	}
	return events, rows.Err()
}
