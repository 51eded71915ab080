// Package seed loads the demo account with two sample projects.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	authdomain "github.com/GoSim-25-26J-441/taskflow-backend/internal/auth/domain"
	projectdomain "github.com/GoSim-25-26J-441/taskflow-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/storage"
	taskdomain "github.com/GoSim-25-26J-441/taskflow-backend/internal/tasks/domain"
)

const (
	DemoName     = "Demo User"
	DemoEmail    = "demo@example.com"
	DemoPassword = "password123"
)

// ErrAlreadySeeded is returned when the demo user already owns projects and
// Reset was not requested.
var ErrAlreadySeeded = errors.New("demo user already has projects; rerun with --reset")

type taskSeed struct {
	title       string
	description string
	due         string
	status      taskdomain.Status
}

type projectSeed struct {
	name        string
	description string
	tasks       []taskSeed
}

var demoProjects = []projectSeed{
	{
		name:        "Website Redesign",
		description: "Complete redesign of the company website with modern UI/UX",
		tasks: []taskSeed{
			{"Research competitor websites", "Analyze design trends and user experience patterns from competitor sites", "2024-01-15", taskdomain.StatusDone},
			{"Create wireframes", "Design low-fidelity wireframes for all main pages", "2024-01-20", taskdomain.StatusInProgress},
			{"Design mockups", "Create high-fidelity design mockups in Figma", "2024-01-25", taskdomain.StatusToDo},
			{"Implement responsive design", "Code the frontend with responsive CSS and modern frameworks", "2024-02-01", taskdomain.StatusToDo},
		},
	},
	{
		name:        "Mobile App Development",
		description: "Build a mobile application for iOS and Android platforms",
		tasks: []taskSeed{
			{"Set up development environment", "Install React Native, configure development tools and emulators", "2024-01-10", taskdomain.StatusDone},
			{"Design app architecture", "Plan the app structure, components, and data flow", "2024-01-18", taskdomain.StatusInProgress},
			{"Implement user authentication", "Add login/signup functionality with secure token management", "2024-01-30", taskdomain.StatusToDo},
			{"Create main app screens", "Build the core UI screens and navigation flow", "2024-02-05", taskdomain.StatusToDo},
			{"Integrate backend API", "Connect the mobile app to the backend REST API", "2024-02-10", taskdomain.StatusToDo},
		},
	},
}

type Options struct {
	// Reset deletes the demo user's existing projects and tasks first.
	Reset bool
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	Now        func() time.Time
	Log        *zap.Logger
}

type Result struct {
	User     *authdomain.User
	Projects int
	Tasks    int
}

// Run creates the demo user if needed and loads the sample projects.
func Run(ctx context.Context, store storage.Store, opt Options) (*Result, error) {
	if opt.Now == nil {
		opt.Now = time.Now
	}
	if opt.BcryptCost == 0 {
		opt.BcryptCost = bcrypt.DefaultCost
	}
	if opt.Log == nil {
		opt.Log = zap.NewNop()
	}

	user, err := demoUser(ctx, store, opt)
	if err != nil {
		return nil, err
	}

	existing, err := store.ProjectsByOwner(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list demo projects: %w", err)
	}
	if len(existing) > 0 {
		if !opt.Reset {
			return nil, ErrAlreadySeeded
		}
		for _, p := range existing {
			if _, err := store.DeleteTasksByProject(ctx, p.ID); err != nil {
				return nil, fmt.Errorf("clear tasks of %s: %w", p.ID, err)
			}
			if _, err := store.DeleteProject(ctx, user.ID, p.ID); err != nil {
				return nil, fmt.Errorf("clear project %s: %w", p.ID, err)
			}
		}
		opt.Log.Info("cleared demo projects", zap.Int("projects", len(existing)))
	}

	res := &Result{User: user}
	// Creation times step forward so that listing order is deterministic.
	at := storage.Timestamp(opt.Now())
	tick := func() time.Time {
		at = at.Add(time.Millisecond)
		return at
	}

	for _, ps := range demoProjects {
		created := tick()
		p := &projectdomain.Project{
			Name:        ps.name,
			Description: ps.description,
			CreatedBy:   user.ID,
			CreatedAt:   created,
			UpdatedAt:   created,
		}
		if err := store.CreateProject(ctx, p); err != nil {
			return nil, fmt.Errorf("create project %q: %w", ps.name, err)
		}
		res.Projects++

		for _, ts := range ps.tasks {
			due, err := taskdomain.ParseDueDate(ts.due)
			if err != nil {
				return nil, err
			}
			created := tick()
			t := &taskdomain.Task{
				Title:       ts.title,
				Description: ts.description,
				DueDate:     due,
				Status:      ts.status,
				Project:     p.ID,
				CreatedBy:   user.ID,
				CreatedAt:   created,
				UpdatedAt:   created,
			}
			if err := store.CreateTask(ctx, t); err != nil {
				return nil, fmt.Errorf("create task %q: %w", ts.title, err)
			}
			res.Tasks++
		}
	}

	opt.Log.Info("demo data seeded",
		zap.String("email", DemoEmail),
		zap.Int("projects", res.Projects),
		zap.Int("tasks", res.Tasks),
	)
	return res, nil
}

func demoUser(ctx context.Context, store storage.Store, opt Options) (*authdomain.User, error) {
	u, err := store.UserByEmail(ctx, DemoEmail)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("load demo user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), opt.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}
	now := storage.Timestamp(opt.Now())
	u = &authdomain.User{
		Name:         DemoName,
		Email:        DemoEmail,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("create demo user: %w", err)
	}
	opt.Log.Info("created demo user", zap.String("user_id", u.ID))
	return u, nil
}
