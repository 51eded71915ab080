package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	authdomain "github.com/GoSim-25-26J-441/taskflow-backend/internal/auth/domain"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/storage"
)

// userDoc is the stored form of a user; unlike the API shape it keeps the hash.
type userDoc struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (d userDoc) user() *authdomain.User {
	return &authdomain.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
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

	emailKey := s.userEmailKey(u.Email)

	// the email index doubles as the uniqueness constraint
	ok, err := s.client.SetNX(ctx, emailKey, u.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to reserve email: %w", err)
	}
	if !ok {
		return storage.ErrDuplicate
	}

	data, err := json.Marshal(userDoc{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	if err := s.client.Set(ctx, s.userKey(u.ID), data, 0).Err(); err != nil {
		s.client.Del(ctx, emailKey)
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *Store) UserByID(ctx context.Context, id string) (*authdomain.User, error) {
	var doc userDoc
	if err := s.getJSON(ctx, s.userKey(id), &doc); err != nil {
		return nil, err
	}
	return doc.user(), nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*authdomain.User, error) {
	id, err := s.client.Get(ctx, s.userEmailKey(email)).Result()
	if err == redis.Nil {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}
	return s.UserByID(ctx, id)
}
