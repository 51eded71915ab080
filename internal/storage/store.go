// Package storage defines the persistence contract shared by the mongo,
// postgres and redis backends. Backends know nothing about ownership rules;
// callers pass the owner or project id they have already authorised.
package storage

import (
	"context"
	"errors"
	"time"

	authdomain "github.com/GoSim-25-26J-441/taskflow-backend/internal/auth/domain"
	projectdomain "github.com/GoSim-25-26J-441/taskflow-backend/internal/projects/domain"
	taskdomain "github.com/GoSim-25-26J-441/taskflow-backend/internal/tasks/domain"
)

var (
	ErrNotFound  = errors.New("storage: not found")
	ErrDuplicate = errors.New("storage: duplicate key")
)

// Timestamp normalizes t to the precision every backend keeps (mongo stores
// milliseconds), so a value returned on write reads back unchanged.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

type UserStore interface {
	// CreateUser returns ErrDuplicate when the email is taken.
	CreateUser(ctx context.Context, u *authdomain.User) error
	UserByID(ctx context.Context, id string) (*authdomain.User, error)
	UserByEmail(ctx context.Context, email string) (*authdomain.User, error)
}

type ProjectStore interface {
	CreateProject(ctx context.Context, p *projectdomain.Project) error
	// ProjectsByOwner returns the owner's projects, newest first.
	ProjectsByOwner(ctx context.Context, ownerID string) ([]projectdomain.Project, error)
	ProjectByOwner(ctx context.Context, ownerID, id string) (*projectdomain.Project, error)
	UpdateProject(ctx context.Context, ownerID, id string, patch projectdomain.Patch, now time.Time) (*projectdomain.Project, error)
	// DeleteProject reports whether a project matched.
	DeleteProject(ctx context.Context, ownerID, id string) (bool, error)
}

type TaskStore interface {
	CreateTask(ctx context.Context, t *taskdomain.Task) error
	// TasksByProject returns the project's tasks, newest first.
	TasksByProject(ctx context.Context, projectID string) ([]taskdomain.Task, error)
	// TasksByProjects returns the tasks of every listed project, newest first.
	TasksByProjects(ctx context.Context, projectIDs []string) ([]taskdomain.Task, error)
	TaskInProject(ctx context.Context, projectID, id string) (*taskdomain.Task, error)
	UpdateTask(ctx context.Context, projectID, id string, patch taskdomain.Patch, now time.Time) (*taskdomain.Task, error)
	// DeleteTask reports whether a task matched.
	DeleteTask(ctx context.Context, projectID, id string) (bool, error)
	DeleteTasksByProject(ctx context.Context, projectID string) (int64, error)
	// OverdueTasks returns tasks of the listed projects due strictly before
	// now and not done, earliest due date first.
	OverdueTasks(ctx context.Context, projectIDs []string, now time.Time) ([]taskdomain.Task, error)
}

// Store is a complete backend. It is opened once at startup and shared by
// every request.
type Store interface {
	UserStore
	ProjectStore
	TaskStore
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
