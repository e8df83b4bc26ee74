package reports

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AttendanceSummary struct {
	UserID    string
	Name      string
	Email     string
	Checkins  int
	Checkouts int
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) AttendanceSummaries(ctx context.Context) ([]AttendanceSummary, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT u.id, u.name, u.email,
           COUNT(a.id) FILTER (WHERE a.type = 'checkin'),
           COUNT(a.id) FILTER (WHERE a.type = 'checkout')
    FROM users u
    LEFT JOIN attendance a ON a.user_id = u.id
    GROUP BY u.id, u.name, u.email
    ORDER BY u.name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AttendanceSummary
	for rows.Next() {
		var sum AttendanceSummary
		if err := rows.Scan(&sum.UserID, &sum.Name, &sum.Email, &sum.Checkins, &sum.Checkouts); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}
