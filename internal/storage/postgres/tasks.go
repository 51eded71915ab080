package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/GoSim-25-26J-441/taskflow-backend/internal/storage"
	taskdomain "github.com/GoSim-25-26J-441/taskflow-backend/internal/tasks/domain"
)

const taskColumns = `id, title, description, due_date, status, project_id, created_by, created_at, updated_at`

func scanTask(row scanner) (*taskdomain.Task, error) {
	var t taskdomain.Task
	var status string
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.DueDate, &status,
		&t.Project, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Status = taskdomain.Status(status)
	return &t, nil
}

func collectTasks(rows *sql.Rows) ([]taskdomain.Task, error) {
	defer rows.Close()

	out := make([]taskdomain.Task, 0, 16)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
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

	const q = `
INSERT INTO tasks (id, title, description, due_date, status, project_id, created_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`
	_, err := s.db.ExecContext(ctx, q, t.ID, t.Title, t.Description, t.DueDate, string(t.Status),
		t.Project, t.CreatedBy, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *Store) TasksByProject(ctx context.Context, projectID string) ([]taskdomain.Task, error) {
	q := `
SELECT ` + taskColumns + `
FROM tasks
WHERE project_id = $1
ORDER BY created_at DESC, id DESC;
`
	rows, err := s.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return collectTasks(rows)
}

func (s *Store) TasksByProjects(ctx context.Context, projectIDs []string) ([]taskdomain.Task, error) {
	if len(projectIDs) == 0 {
		return []taskdomain.Task{}, nil
	}

	q := `
SELECT ` + taskColumns + `
FROM tasks
WHERE project_id = ANY($1)
ORDER BY created_at DESC, id DESC;
`
	rows, err := s.db.QueryContext(ctx, q, pq.Array(projectIDs))
	if err != nil {
		return nil, fmt.Errorf("list tasks for projects: %w", err)
	}
	return collectTasks(rows)
}

func (s *Store) TaskInProject(ctx context.Context, projectID, id string) (*taskdomain.Task, error) {
	q := `
SELECT ` + taskColumns + `
FROM tasks
WHERE project_id = $1 AND id = $2;
`
	t, err := scanTask(s.db.QueryRowContext(ctx, q, projectID, id))
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// UpdateTask changes only the fields set in patch.
func (s *Store) UpdateTask(ctx context.Context, projectID, id string, patch taskdomain.Patch, now time.Time) (*taskdomain.Task, error) {
	var status sql.NullString
	if patch.Status != nil {
		status = sql.NullString{String: string(*patch.Status), Valid: true}
	}

	q := `
UPDATE tasks
SET title = COALESCE($3, title),
    description = COALESCE($4, description),
    due_date = COALESCE($5, due_date),
    status = COALESCE($6, status),
    updated_at = $7
WHERE project_id = $1 AND id = $2
RETURNING ` + taskColumns + `;
`
	t, err := scanTask(s.db.QueryRowContext(ctx, q, projectID, id,
		nullString(patch.Title), nullString(patch.Description), nullTime(patch.DueDate), status, now))
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (s *Store) DeleteTask(ctx context.Context, projectID, id string) (bool, error) {
	const q = `DELETE FROM tasks WHERE project_id = $1 AND id = $2;`
	result, err := s.db.ExecContext(ctx, q, projectID, id)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

func (s *Store) DeleteTasksByProject(ctx context.Context, projectID string) (int64, error) {
	const q = `DELETE FROM tasks WHERE project_id = $1;`
	result, err := s.db.ExecContext(ctx, q, projectID)
	if err != nil {
		return 0, fmt.Errorf("delete tasks for project: %w", err)
	}
	return result.RowsAffected()
}

func (s *Store) OverdueTasks(ctx context.Context, projectIDs []string, now time.Time) ([]taskdomain.Task, error) {
	if len(projectIDs) == 0 {
		return []taskdomain.Task{}, nil
	}

	q := `
SELECT ` + taskColumns + `
FROM tasks
WHERE project_id = ANY($1)
  AND due_date < $2
  AND status <> 'Done'
ORDER BY due_date ASC, id ASC;
`
	rows, err := s.db.QueryContext(ctx, q, pq.Array(projectIDs), now)
	if err != nil {
		return nil, fmt.Errorf("list overdue tasks: %w", err)
	}
	return collectTasks(rows)
}
