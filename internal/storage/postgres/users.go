package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	authdomain "github.com/GoSim-25-26J-441/taskflow-backend/internal/auth/domain"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/storage"
)

const userColumns = `id, name, email, password_hash, created_at, updated_at`

func scanUser(row scanner) (*authdomain.User, error) {
	var u authdomain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *authdomain.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = storage.Timestamp(time.Now())
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}

	const q = `
INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6);
`
	_, err := s.db.ExecContext(ctx, q, u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) UserByID(ctx context.Context, id string) (*authdomain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1;`
	u, err := scanUser(s.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*authdomain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = $1;`
	u, err := scanUser(s.db.QueryRowContext(ctx, q, email))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}
