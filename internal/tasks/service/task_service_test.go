package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/taskflow-backend/internal/apperr"
	projectdomain "github.com/GoSim-25-26J-441/taskflow-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/storage/redisstore"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/tasks/domain"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store *redisstore.Store
	svc   *TaskService
	clock time.Time
}

func setup(t *testing.T) *fixture {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	store := redisstore.New(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test")
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	f := &fixture{store: store, clock: now}
	// each call moves the clock a millisecond forward so creation order is stable
	f.svc = NewTaskService(store, store, nil).WithClock(func() time.Time {
		f.clock = f.clock.Add(time.Millisecond)
		return f.clock
	})
	return f
}

func (f *fixture) project(t *testing.T, owner, name string) *projectdomain.Project {
	t.Helper()
	p := &projectdomain.Project{Name: name, CreatedBy: owner, CreatedAt: f.clock}
	require.NoError(t, f.store.CreateProject(context.Background(), p))
	return p
}

func ptr(s string) *string { return &s }

func TestTaskService_CreateListDelete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.project(t, "u1", "Launch")

	task, err := f.svc.Create(ctx, "u1", p.ID, domain.CreateInput{
		Title:   "  Draft release notes ",
		DueDate: ptr("2025-04-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Draft release notes", task.Title)
	assert.Equal(t, domain.StatusToDo, task.Status)
	assert.Equal(t, p.ID, task.Project)
	assert.Equal(t, "u1", task.CreatedBy)
	assert.False(t, task.IsOverdue)

	second, err := f.svc.Create(ctx, "u1", p.ID, domain.CreateInput{
		Title:   "Review",
		DueDate: ptr("2025-02-01T09:00:00Z"),
		Status:  ptr("In Progress"),
	})
	require.NoError(t, err)
	assert.True(t, second.IsOverdue)

	items, err := f.svc.List(ctx, "u1", p.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID, "newest first")

	require.NoError(t, f.svc.Delete(ctx, "u1", p.ID, task.ID))

	items, err = f.svc.List(ctx, "u1", p.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, second.ID, items[0].ID)

	assert.ErrorIs(t, f.svc.Delete(ctx, "u1", p.ID, task.ID), domain.ErrTaskNotFound)
}

func TestTaskService_Isolation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	mine := f.project(t, "u1", "Mine")
	theirs := f.project(t, "u2", "Theirs")
	other := f.project(t, "u1", "Other")

	task, err := f.svc.Create(ctx, "u1", mine.ID, domain.CreateInput{Title: "a", DueDate: ptr("2025-04-01")})
	require.NoError(t, err)

	t.Run("foreign project", func(t *testing.T) {
		_, err := f.svc.List(ctx, "u1", theirs.ID)
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)

		_, err = f.svc.Create(ctx, "u1", theirs.ID, domain.CreateInput{Title: "x", DueDate: ptr("2025-04-01")})
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)

		_, err = f.svc.Get(ctx, "u2", mine.ID, task.ID)
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)

		assert.ErrorIs(t, f.svc.Delete(ctx, "u2", mine.ID, task.ID), domain.ErrProjectNotFound)
	})

	t.Run("task addressed through another project", func(t *testing.T) {
		_, err := f.svc.Get(ctx, "u1", other.ID, task.ID)
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)

		_, err = f.svc.Update(ctx, "u1", other.ID, task.ID, domain.UpdateInput{Status: ptr("Done")})
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})

	t.Run("project check comes before validation", func(t *testing.T) {
		_, err := f.svc.Create(ctx, "u1", theirs.ID, domain.CreateInput{})
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	})
}

func TestTaskService_Update(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p := f.project(t, "u1", "Launch")

	task, err := f.svc.Create(ctx, "u1", p.ID, domain.CreateInput{
		Title:       "Draft release notes",
		Description: ptr("draft"),
		DueDate:     ptr("2025-04-01"),
	})
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, "u1", p.ID, task.ID, domain.UpdateInput{Status: ptr("Done")})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, updated.Status)
	assert.Equal(t, "Draft release notes", updated.Title)
	assert.Equal(t, "draft", updated.Description)

	updated, err = f.svc.Update(ctx, "u1", p.ID, task.ID, domain.UpdateInput{DueDate: ptr("2025-05-01T10:00")})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC), updated.DueDate)

	_, err = f.svc.Update(ctx, "u1", p.ID, task.ID, domain.UpdateInput{Status: ptr("Blocked")})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "status", e.Fields[0].Field)
}

func TestTaskService_Overdue(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	launch := f.project(t, "u1", "Launch")
	ops := f.project(t, "u1", "Ops")
	foreign := f.project(t, "u2", "Foreign")

	late, err := f.svc.Create(ctx, "u1", launch.ID, domain.CreateInput{Title: "Draft release notes", DueDate: ptr("2025-02-20")})
	require.NoError(t, err)
	later, err := f.svc.Create(ctx, "u1", ops.ID, domain.CreateInput{Title: "Rotate keys", DueDate: ptr("2025-02-10")})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, "u1", ops.ID, domain.CreateInput{Title: "Future", DueDate: ptr("2026-01-01")})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, "u2", foreign.ID, domain.CreateInput{Title: "Not mine", DueDate: ptr("2025-01-01")})
	require.NoError(t, err)

	items, err := f.svc.Overdue(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, later.ID, items[0].ID, "earliest due first")
	assert.Equal(t, domain.ProjectRef{ID: ops.ID, Name: "Ops"}, items[0].Project)
	assert.Equal(t, late.ID, items[1].ID)
	assert.Equal(t, "Launch", items[1].Project.Name)
	assert.True(t, items[0].IsOverdue)

	_, err = f.svc.Update(ctx, "u1", launch.ID, late.ID, domain.UpdateInput{Status: ptr("Done")})
	require.NoError(t, err)

	items, err = f.svc.Overdue(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, later.ID, items[0].ID)

	none, err := f.svc.Overdue(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
