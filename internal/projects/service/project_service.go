package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/taskflow-backend/internal/apperr"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/logging"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/storage"
	taskdomain "github.com/GoSim-25-26J-441/taskflow-backend/internal/tasks/domain"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/validation"
)

// ProjectService handles project-related business logic. Every operation is
// scoped to the calling user; projects of other users are reported as missing.
type ProjectService struct {
	projects storage.ProjectStore
	tasks    storage.TaskStore
	log      *zap.Logger
	now      func() time.Time
}

// NewProjectService creates a new project service
func NewProjectService(projects storage.ProjectStore, tasks storage.TaskStore, log *zap.Logger) *ProjectService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProjectService{
		projects: projects,
		tasks:    tasks,
		log:      log,
		now:      time.Now,
	}
}

// WithClock replaces the time source; used by tests.
func (s *ProjectService) WithClock(now func() time.Time) *ProjectService {
	s.now = now
	return s
}

// List returns all projects for a user, newest first, with their stats.
func (s *ProjectService) List(ctx context.Context, ownerID string) ([]domain.ProjectWithStats, error) {
	items, err := s.projects.ProjectsByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Internal("list projects", err)
	}
	if len(items) == 0 {
		return []domain.ProjectWithStats{}, nil
	}

	ids := make([]string, len(items))
	for i, p := range items {
		ids[i] = p.ID
	}
	tasks, err := s.tasks.TasksByProjects(ctx, ids)
	if err != nil {
		return nil, apperr.Internal("list project tasks", err)
	}

	byProject := make(map[string][]taskdomain.Task, len(items))
	for _, t := range tasks {
		byProject[t.Project] = append(byProject[t.Project], t)
	}

	out := make([]domain.ProjectWithStats, 0, len(items))
	for _, p := range items {
		out = append(out, domain.WithStats(p, byProject[p.ID]))
	}
	return out, nil
}

func (s *ProjectService) Get(ctx context.Context, ownerID, id string) (*domain.ProjectWithStats, error) {
	p, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return s.withStats(ctx, *p)
}

// Create creates a new project
func (s *ProjectService) Create(ctx context.Context, ownerID string, in domain.CreateInput) (*domain.ProjectWithStats, error) {
	in.Normalize()
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}

	now := storage.Timestamp(s.now())
	p := &domain.Project{
		Name:      in.Name,
		CreatedBy: ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Description != nil {
		p.Description = *in.Description
	}

	if err := s.projects.CreateProject(ctx, p); err != nil {
		return nil, apperr.Internal("create project", err)
	}

	logging.For(ctx, s.log).Info("project created",
		zap.String("project_id", p.ID),
		zap.String("user_id", ownerID),
	)
	out := domain.WithStats(*p, nil)
	return &out, nil
}

// Update changes only the supplied fields.
func (s *ProjectService) Update(ctx context.Context, ownerID, id string, in domain.UpdateInput) (*domain.ProjectWithStats, error) {
	in.Normalize()
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}

	p, err := s.projects.UpdateProject(ctx, ownerID, id, domain.Patch{
		Name:        in.Name,
		Description: in.Description,
	}, storage.Timestamp(s.now()))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, apperr.Internal("update project", err)
	}
	return s.withStats(ctx, *p)
}

// Delete removes the project's tasks, then the project itself, so a failure
// part way leaves no task pointing at a missing project.
func (s *ProjectService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.owned(ctx, ownerID, id); err != nil {
		return err
	}

	log := logging.For(ctx, s.log).With(zap.String("project_id", id), zap.String("user_id", ownerID))

	removed, err := s.tasks.DeleteTasksByProject(ctx, id)
	if err != nil {
		return apperr.Internal("delete project tasks", err)
	}

	ok, err := s.projects.DeleteProject(ctx, ownerID, id)
	if err != nil {
		log.Error("project kept after its tasks were deleted",
			zap.Int64("tasks_deleted", removed),
			zap.Error(err),
		)
		return apperr.Internal("delete project", err)
	}
	if !ok {
		return domain.ErrNotFound
	}

	log.Info("project deleted", zap.Int64("tasks_deleted", removed))
	return nil
}

func (s *ProjectService) owned(ctx context.Context, ownerID, id string) (*domain.Project, error) {
	p, err := s.projects.ProjectByOwner(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, apperr.Internal("load project", err)
	}
	return p, nil
}

func (s *ProjectService) withStats(ctx context.Context, p domain.Project) (*domain.ProjectWithStats, error) {
	tasks, err := s.tasks.TasksByProject(ctx, p.ID)
	if err != nil {
		return nil, apperr.Internal("list project tasks", err)
	}
	out := domain.WithStats(p, tasks)
	return &out, nil
}
