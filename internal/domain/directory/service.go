package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"workpulse/internal/domain/auth"
)

var ErrUserExists = errors.New("user exists")

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

// Signup creates a user row. The requested role is clamped so callers
// cannot grant themselves admin. A duplicate email inserts nothing and
// returns ErrUserExists.
func (s *Service) Signup(ctx context.Context, name, email, password, requestedRole string) (string, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}

	role := auth.ClampSignupRole(requestedRole)
	id, err := s.Store.CreateUser(ctx, name, email, hash, role, auth.UserStatusActive)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", ErrUserExists
		}
		return "", err
	}
	return id, nil
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.Store.GetUser(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]User, int, error) {
	users, err := s.Store.ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Store.CountUsers(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
