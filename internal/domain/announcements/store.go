package announcements

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The board is append-only: there are no update or delete paths.

type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, title, message, createdBy string) (Announcement, error) {
	var a Announcement
	err := s.DB.QueryRow(ctx, `
    INSERT INTO announcements (title, message, created_by)
    VALUES ($1,$2,$3)
    RETURNING id, title, message, created_by, created_at
  `, title, message, createdBy).Scan(&a.ID, &a.Title, &a.Message, &a.CreatedBy, &a.CreatedAt)
	return a, err
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]Announcement, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, title, message, created_by, created_at
    FROM announcements
    ORDER BY created_at DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Announcement
	for rows.Next() {
		var a Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Message, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var total int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM announcements").Scan(&total)
	return total, err
}
