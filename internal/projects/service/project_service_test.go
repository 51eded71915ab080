package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/GoSim-25-26J-441/taskflow-backend/internal/apperr"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/storage/redisstore"
	taskdomain "github.com/GoSim-25-26J-441/taskflow-backend/internal/tasks/domain"
)

func setupStore(t *testing.T) *redisstore.Store {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	store := redisstore.New(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test")
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store
}

// steppingClock advances by a second on every call so creation order is stable.
func steppingClock() func() time.Time {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		at = at.Add(time.Second)
		return at
	}
}

func ptr(s string) *string { return &s }

func addTask(t *testing.T, store *redisstore.Store, projectID string, status taskdomain.Status, createdAt time.Time) *taskdomain.Task {
	t.Helper()
	task := &taskdomain.Task{
		Title:     "task",
		Project:   projectID,
		CreatedBy: "u1",
		Status:    status,
		DueDate:   createdAt.Add(24 * time.Hour),
		CreatedAt: createdAt,
	}
	require.NoError(t, store.CreateTask(context.Background(), task))
	return task
}

func TestProjectService_CreateAndGet(t *testing.T) {
	store := setupStore(t)
	svc := NewProjectService(store, store, nil).WithClock(steppingClock())
	ctx := context.Background()

	p, err := svc.Create(ctx, "u1", domain.CreateInput{Name: "  Launch  ", Description: ptr("  Q3 release ")})
	require.NoError(t, err)
	assert.Equal(t, "Launch", p.Name)
	assert.Equal(t, "Q3 release", p.Description)
	assert.Equal(t, "u1", p.CreatedBy)
	assert.Equal(t, domain.Stats{}, p.Stats)
	assert.Empty(t, p.Tasks)

	got, err := svc.Get(ctx, "u1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	t.Run("other users see not found", func(t *testing.T) {
		_, err := svc.Get(ctx, "u2", p.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("empty name names the field", func(t *testing.T) {
		_, err := svc.Create(ctx, "u1", domain.CreateInput{Name: ""})
		e, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindValidation, e.Kind)
		assert.Equal(t, "name", e.Fields[0].Field)
	})
}

func TestProjectService_ListWithStats(t *testing.T) {
	store := setupStore(t)
	clock := steppingClock()
	svc := NewProjectService(store, store, nil).WithClock(clock)
	ctx := context.Background()

	first, err := svc.Create(ctx, "u1", domain.CreateInput{Name: "First"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, "u1", domain.CreateInput{Name: "Second"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u2", domain.CreateInput{Name: "Foreign"})
	require.NoError(t, err)

	addTask(t, store, first.ID, taskdomain.StatusDone, clock())
	addTask(t, store, first.ID, taskdomain.StatusToDo, clock())
	addTask(t, store, first.ID, taskdomain.StatusInProgress, clock())

	items, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID, "newest first")
	assert.Equal(t, domain.Stats{}, items[0].Stats)
	assert.Equal(t, domain.Stats{TotalTasks: 3, CompletedTasks: 1, CompletionPercentage: 33}, items[1].Stats)
	assert.Len(t, items[1].Tasks, 3)

	empty, err := svc.List(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestProjectService_Update(t *testing.T) {
	store := setupStore(t)
	clock := steppingClock()
	svc := NewProjectService(store, store, nil).WithClock(clock)
	ctx := context.Background()

	p, err := svc.Create(ctx, "u1", domain.CreateInput{Name: "Launch", Description: ptr("keep me")})
	require.NoError(t, err)
	addTask(t, store, p.ID, taskdomain.StatusDone, clock())

	updated, err := svc.Update(ctx, "u1", p.ID, domain.UpdateInput{Name: ptr("Launch v2")})
	require.NoError(t, err)
	assert.Equal(t, "Launch v2", updated.Name)
	assert.Equal(t, "keep me", updated.Description)
	assert.Equal(t, 100, updated.CompletionPercentage)
	assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))

	_, err = svc.Update(ctx, "u2", p.ID, domain.UpdateInput{Name: ptr("Hijack")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Update(ctx, "u1", p.ID, domain.UpdateInput{Name: ptr("  ")})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestProjectService_DeleteCascades(t *testing.T) {
	store := setupStore(t)
	clock := steppingClock()
	svc := NewProjectService(store, store, nil).WithClock(clock)
	ctx := context.Background()

	p, err := svc.Create(ctx, "u1", domain.CreateInput{Name: "Launch"})
	require.NoError(t, err)
	task := addTask(t, store, p.ID, taskdomain.StatusToDo, clock())

	assert.ErrorIs(t, svc.Delete(ctx, "u2", p.ID), domain.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, "u1", p.ID))

	_, err = svc.Get(ctx, "u1", p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.TaskInProject(ctx, p.ID, task.ID)
	assert.Error(t, err, "tasks are deleted with their project")

	assert.ErrorIs(t, svc.Delete(ctx, "u1", p.ID), domain.ErrNotFound)
}

type failingProjectDelete struct {
	*redisstore.Store
}

func (f failingProjectDelete) DeleteProject(context.Context, string, string) (bool, error) {
	return false, errors.New("connection reset")
}

func TestProjectService_DeleteLogsPartialFailure(t *testing.T) {
	store := setupStore(t)
	core, logs := observer.New(zap.ErrorLevel)
	clock := steppingClock()
	svc := NewProjectService(failingProjectDelete{store}, store, zap.New(core)).WithClock(clock)
	ctx := context.Background()

	p, err := svc.Create(ctx, "u1", domain.CreateInput{Name: "Launch"})
	require.NoError(t, err)
	addTask(t, store, p.ID, taskdomain.StatusToDo, clock())

	err = svc.Delete(ctx, "u1", p.ID)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))

	entries := logs.FilterMessage("project kept after its tasks were deleted").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["tasks_deleted"])
}

func TestProjectService_TimestampsReadBackUnchanged(t *testing.T) {
	store := setupStore(t)
	at := time.Date(2025, 3, 1, 12, 0, 0, 987654321, time.UTC)
	svc := NewProjectService(store, store, nil).WithClock(func() time.Time { return at })
	ctx := context.Background()

	p, err := svc.Create(ctx, "u1", domain.CreateInput{Name: "Launch"})
	require.NoError(t, err)
	assert.Equal(t, 987000000, p.CreatedAt.Nanosecond())

	got, err := svc.Get(ctx, "u1", p.ID)
	require.NoError(t, err)
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, p.UpdatedAt.Equal(got.UpdatedAt))

	at = at.Add(time.Hour)
	updated, err := svc.Update(ctx, "u1", p.ID, domain.UpdateInput{Name: ptr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, 987000000, updated.UpdatedAt.Nanosecond())
}
