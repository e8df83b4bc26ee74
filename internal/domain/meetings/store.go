package meetings

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Meetings are append-only: a row is written once the external meeting
// exists and is never mutated afterwards.

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, m Meeting) (Meeting, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO meetings (title, date, time, platform, attendees, meeting_url, created_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id, created_at
  `, m.Title, m.Date, m.Time, m.Platform, m.Attendees, m.MeetingURL, m.CreatedBy).Scan(&m.ID, &m.CreatedAt)
	return m, err
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]Meeting, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, title, date, time, platform, attendees, meeting_url, created_by, created_at
    FROM meetings
    ORDER BY created_at DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Meeting
	for rows.Next() {
		var m Meeting
		if err := rows.Scan(&m.ID, &m.Title, &m.Date, &m.Time, &m.Platform, &m.Attendees, &m.MeetingURL, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
