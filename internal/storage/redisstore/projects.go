package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	projectdomain "github.com/GoSim-25-26J-441/taskflow-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/storage"
)

type projectDoc struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newProjectDoc(p *projectdomain.Project) projectDoc {
	return projectDoc{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d projectDoc) project() projectdomain.Project {
	return projectdomain.Project{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (s *Store) CreateProject(ctx context.Context, p *projectdomain.Project) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = storage.Timestamp(time.Now())
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}

	data, err := json.Marshal(newProjectDoc(p))
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.projectKey(p.ID), data, 0)
	pipe.ZAdd(ctx, s.ownerProjectsKey(p.CreatedBy), redis.Z{Score: score(p.CreatedAt), Member: p.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (s *Store) ProjectsByOwner(ctx context.Context, ownerID string) ([]projectdomain.Project, error) {
	ids, err := s.client.ZRevRange(ctx, s.ownerProjectsKey(ownerID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects for user: %w", err)
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.projectKey(id)
	}

	docs, err := mgetJSON[projectDoc](ctx, s.client, keys)
	if err != nil {
		return nil, err
	}

	out := make([]projectdomain.Project, 0, len(docs))
	for _, d := range docs {
		if d.CreatedBy != ownerID {
			continue
		}
		out = append(out, d.project())
	}
	return out, nil
}

func (s *Store) ProjectByOwner(ctx context.Context, ownerID, id string) (*projectdomain.Project, error) {
	var doc projectDoc
	if err := s.getJSON(ctx, s.projectKey(id), &doc); err != nil {
		return nil, err
	}
	if doc.CreatedBy != ownerID {
		return nil, storage.ErrNotFound
	}
	p := doc.project()
	return &p, nil
}

func (s *Store) UpdateProject(ctx context.Context, ownerID, id string, patch projectdomain.Patch, now time.Time) (*projectdomain.Project, error) {
	doc, err := updateJSON(ctx, s.client, s.projectKey(id), func(d *projectDoc) error {
		if d.CreatedBy != ownerID {
			return storage.ErrNotFound
		}
		p := d.project()
		patch.Apply(&p)
		p.UpdatedAt = now
		*d = newProjectDoc(&p)
		return nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	p := doc.project()
	return &p, nil
}

func (s *Store) DeleteProject(ctx context.Context, ownerID, id string) (bool, error) {
	if _, err := s.ProjectByOwner(ctx, ownerID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	pipe := s.client.TxPipeline()
	pipe.ZRem(ctx, s.ownerProjectsKey(ownerID), id)
	pipe.Del(ctx, s.projectKey(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to delete project: %w", err)
	}
	return true, nil
}
