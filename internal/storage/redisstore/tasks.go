package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/GoSim-25-26J-441/taskflow-backend/internal/storage"
	taskdomain "github.com/GoSim-25-26J-441/taskflow-backend/internal/tasks/domain"
)

type taskDoc struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	DueDate     time.Time         `json:"due_date"`
	Status      taskdomain.Status `json:"status"`
	Project     string            `json:"project"`
	CreatedBy   string            `json:"created_by"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func newTaskDoc(t *taskdomain.Task) taskDoc {
	return taskDoc{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Status:      t.Status,
		Project:     t.Project,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (d taskDoc) task() taskdomain.Task {
	return taskdomain.Task{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		Status:      d.Status,
		Project:     d.Project,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (s *Store) CreateTask(ctx context.Context, t *taskdomain.Task) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = storage.Timestamp(time.Now())
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	if t.Status == "" {
		t.Status = taskdomain.StatusToDo
	}

	data, err := json.Marshal(newTaskDoc(t))
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.taskKey(t.ID), data, 0)
	pipe.ZAdd(ctx, s.projectTasksKey(t.Project), redis.Z{Score: score(t.CreatedAt), Member: t.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (s *Store) TasksByProject(ctx context.Context, projectID string) ([]taskdomain.Task, error) {
	ids, err := s.client.ZRevRange(ctx, s.projectTasksKey(projectID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for project: %w", err)
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.taskKey(id)
	}

	docs, err := mgetJSON[taskDoc](ctx, s.client, keys)
	if err != nil {
		return nil, err
	}

	out := make([]taskdomain.Task, 0, len(docs))
	for _, d := range docs {
		if d.Project != projectID {
			continue
		}
		out = append(out, d.task())
	}
	return out, nil
}

func (s *Store) TasksByProjects(ctx context.Context, projectIDs []string) ([]taskdomain.Task, error) {
	out := make([]taskdomain.Task, 0, 16)
	for _, pid := range projectIDs {
		tasks, err := s.TasksByProject(ctx, pid)
		if err != nil {
			return nil, err
		}
		out = append(out, tasks...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) TaskInProject(ctx context.Context, projectID, id string) (*taskdomain.Task, error) {
	var doc taskDoc
	if err := s.getJSON(ctx, s.taskKey(id), &doc); err != nil {
		return nil, err
	}
	if doc.Project != projectID {
		return nil, storage.ErrNotFound
	}
	t := doc.task()
	return &t, nil
}

func (s *Store) UpdateTask(ctx context.Context, projectID, id string, patch taskdomain.Patch, now time.Time) (*taskdomain.Task, error) {
	doc, err := updateJSON(ctx, s.client, s.taskKey(id), func(d *taskDoc) error {
		if d.Project != projectID {
			return storage.ErrNotFound
		}
		t := d.task()
		patch.Apply(&t)
		t.UpdatedAt = now
		*d = newTaskDoc(&t)
		return nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	t := doc.task()
	return &t, nil
}

// DeleteTask drops the project index entry before the document, inside one
// MULTI/EXEC, so no reader sees an index entry without its task.
func (s *Store) DeleteTask(ctx context.Context, projectID, id string) (bool, error) {
	if _, err := s.TaskInProject(ctx, projectID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	pipe := s.client.TxPipeline()
	pipe.ZRem(ctx, s.projectTasksKey(projectID), id)
	pipe.Del(ctx, s.taskKey(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	return true, nil
}

func (s *Store) DeleteTasksByProject(ctx context.Context, projectID string) (int64, error) {
	indexKey := s.projectTasksKey(projectID)

	ids, err := s.client.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list tasks for project: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	keys = append(keys, indexKey)
	for _, id := range ids {
		keys = append(keys, s.taskKey(id))
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return 0, fmt.Errorf("failed to delete tasks for project: %w", err)
	}
	return int64(len(ids)), nil
}

func (s *Store) OverdueTasks(ctx context.Context, projectIDs []string, now time.Time) ([]taskdomain.Task, error) {
	all, err := s.TasksByProjects(ctx, projectIDs)
	if err != nil {
		return nil, err
	}

	out := make([]taskdomain.Task, 0, len(all))
	for _, t := range all {
		if t.Overdue(now) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out, nil
}
