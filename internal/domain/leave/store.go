package leave

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

const requestColumns = `id, user_id, leave_type, start_date, end_date, reason, status, applied_at, COALESCE(decided_by::text, ''), decided_at`

func (s *Store) Create(ctx context.Context, userID, leaveType string, start, end time.Time, reason string) (Request, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (user_id, leave_type, start_date, end_date, reason, status)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING `+requestColumns+`
  `, userID, leaveType, start, end, reason, StatusPending)
	return scanRequest(row)
}

func (s *Store) Get(ctx context.Context, requestID string) (Request, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests
    WHERE id = $1
  `, requestID)
	return scanRequest(row)
}

func (s *Store) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests
    WHERE user_id = $1
    ORDER BY applied_at DESC
    LIMIT $2 OFFSET $3
  `, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (s *Store) ListAll(ctx context.Context, limit, offset int) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests
    ORDER BY applied_at DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (s *Store) Decide(ctx context.Context, requestID, status, decidedBy string) (Request, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE leave_requests
    SET status = $1, decided_by = $2, decided_at = now()
    WHERE id = $3 AND status = $4
    RETURNING `+requestColumns+`
  `, status, decidedBy, requestID, StatusPending)
	return scanRequest(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (Request, error) {
	var req Request
	err := row.Scan(&req.ID, &req.UserID, &req.LeaveType, &req.StartDate, &req.EndDate,
		&req.Reason, &req.Status, &req.AppliedAt, &req.DecidedBy, &req.DecidedAt)
	return req, err
}
