package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/taskflow-backend/internal/apperr"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/logging"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/storage"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/tasks/domain"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/validation"
)

// TaskService manages tasks inside projects owned by the caller. The parent
// project is checked before anything else.
type TaskService struct {
	projects storage.ProjectStore
	tasks    storage.TaskStore
	log      *zap.Logger
	now      func() time.Time
}

func NewTaskService(projects storage.ProjectStore, tasks storage.TaskStore, log *zap.Logger) *TaskService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskService{
		projects: projects,
		tasks:    tasks,
		log:      log,
		now:      time.Now,
	}
}

// WithClock replaces the time source; used by tests.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

// List returns the project's tasks newest first.
func (s *TaskService) List(ctx context.Context, ownerID, projectID string) ([]domain.Task, error) {
	if err := s.ensureProject(ctx, ownerID, projectID); err != nil {
		return nil, err
	}

	items, err := s.tasks.TasksByProject(ctx, projectID)
	if err != nil {
		return nil, apperr.Internal("list tasks", err)
	}

	now := s.now()
	for i := range items {
		items[i].Annotate(now)
	}
	return items, nil
}

func (s *TaskService) Get(ctx context.Context, ownerID, projectID, id string) (*domain.Task, error) {
	if err := s.ensureProject(ctx, ownerID, projectID); err != nil {
		return nil, err
	}

	t, err := s.tasks.TaskInProject(ctx, projectID, id)
	if err != nil {
		return nil, taskError("load task", err)
	}
	t.Annotate(s.now())
	return t, nil
}

func (s *TaskService) Create(ctx context.Context, ownerID, projectID string, in domain.CreateInput) (*domain.Task, error) {
	if err := s.ensureProject(ctx, ownerID, projectID); err != nil {
		return nil, err
	}

	in.Normalize()
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}

	due, err := domain.ParseDueDate(*in.DueDate)
	if err != nil {
		return nil, apperr.Field("dueDate", "dueDate must be a valid ISO-8601 date")
	}

	now := storage.Timestamp(s.now())
	t := &domain.Task{
		Title:     in.Title,
		DueDate:   due,
		Status:    domain.StatusToDo,
		Project:   projectID,
		CreatedBy: ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Status != nil {
		t.Status = domain.Status(*in.Status)
	}

	if err := s.tasks.CreateTask(ctx, t); err != nil {
		return nil, apperr.Internal("create task", err)
	}

	logging.For(ctx, s.log).Info("task created",
		zap.String("task_id", t.ID),
		zap.String("project_id", projectID),
	)
	t.Annotate(s.now())
	return t, nil
}

// Update changes only the supplied fields; status may change on its own.
func (s *TaskService) Update(ctx context.Context, ownerID, projectID, id string, in domain.UpdateInput) (*domain.Task, error) {
	if err := s.ensureProject(ctx, ownerID, projectID); err != nil {
		return nil, err
	}

	in.Normalize()
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}

	patch := domain.Patch{Title: in.Title, Description: in.Description}
	if in.DueDate != nil {
		due, err := domain.ParseDueDate(*in.DueDate)
		if err != nil {
			return nil, apperr.Field("dueDate", "dueDate must be a valid ISO-8601 date")
		}
		patch.DueDate = &due
	}
	if in.Status != nil {
		status := domain.Status(*in.Status)
		patch.Status = &status
	}

	t, err := s.tasks.UpdateTask(ctx, projectID, id, patch, storage.Timestamp(s.now()))
	if err != nil {
		return nil, taskError("update task", err)
	}
	t.Annotate(s.now())
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, projectID, id string) error {
	if err := s.ensureProject(ctx, ownerID, projectID); err != nil {
		return err
	}

	ok, err := s.tasks.DeleteTask(ctx, projectID, id)
	if err != nil {
		return apperr.Internal("delete task", err)
	}
	if !ok {
		return domain.ErrTaskNotFound
	}

	logging.For(ctx, s.log).Info("task deleted",
		zap.String("task_id", id),
		zap.String("project_id", projectID),
	)
	return nil
}

// Overdue lists every unfinished task past its due date across the caller's
// projects, earliest due first, each tagged with its project's name.
func (s *TaskService) Overdue(ctx context.Context, ownerID string) ([]domain.OverdueTask, error) {
	projects, err := s.projects.ProjectsByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Internal("list projects", err)
	}
	if len(projects) == 0 {
		return []domain.OverdueTask{}, nil
	}

	ids := make([]string, len(projects))
	names := make(map[string]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
		names[p.ID] = p.Name
	}

	now := s.now()
	items, err := s.tasks.OverdueTasks(ctx, ids, now)
	if err != nil {
		return nil, apperr.Internal("list overdue tasks", err)
	}

	out := make([]domain.OverdueTask, 0, len(items))
	for _, t := range items {
		t.Annotate(now)
		out = append(out, domain.OverdueTask{
			Task:    t,
			Project: domain.ProjectRef{ID: t.Project, Name: names[t.Project]},
		})
	}
	return out, nil
}

func (s *TaskService) ensureProject(ctx context.Context, ownerID, projectID string) error {
	if _, err := s.projects.ProjectByOwner(ctx, ownerID, projectID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.ErrProjectNotFound
		}
		return apperr.Internal("load project", err)
	}
	return nil
}

func taskError(op string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return domain.ErrTaskNotFound
	}
	return apperr.Internal(op, err)
}
