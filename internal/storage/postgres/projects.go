package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	projectdomain "github.com/GoSim-25-26J-441/taskflow-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/storage"
)

const projectColumns = `id, name, description, created_by, created_at, updated_at`

func scanProject(row scanner) (*projectdomain.Project, error) {
	var p projectdomain.Project
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
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

	const q = `
INSERT INTO projects (id, name, description, created_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6);
`
	if _, err := s.db.ExecContext(ctx, q, p.ID, p.Name, p.Description, p.CreatedBy, p.CreatedAt, p.UpdatedAt); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// ProjectsByOwner returns all projects for the given user.
func (s *Store) ProjectsByOwner(ctx context.Context, ownerID string) ([]projectdomain.Project, error) {
	q := `
SELECT ` + projectColumns + `
FROM projects
WHERE created_by = $1
ORDER BY created_at DESC, id DESC;
`
	rows, err := s.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]projectdomain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) ProjectByOwner(ctx context.Context, ownerID, id string) (*projectdomain.Project, error) {
	q := `
SELECT ` + projectColumns + `
FROM projects
WHERE created_by = $1 AND id = $2;
`
	p, err := scanProject(s.db.QueryRowContext(ctx, q, ownerID, id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// UpdateProject changes only the fields set in patch.
func (s *Store) UpdateProject(ctx context.Context, ownerID, id string, patch projectdomain.Patch, now time.Time) (*projectdomain.Project, error) {
	q := `
UPDATE projects
SET name = COALESCE($3, name),
    description = COALESCE($4, description),
    updated_at = $5
WHERE created_by = $1 AND id = $2
RETURNING ` + projectColumns + `;
`
	p, err := scanProject(s.db.QueryRowContext(ctx, q, ownerID, id,
		nullString(patch.Name), nullString(patch.Description), now))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *Store) DeleteProject(ctx context.Context, ownerID, id string) (bool, error) {
	const q = `DELETE FROM projects WHERE created_by = $1 AND id = $2;`
	result, err := s.db.ExecContext(ctx, q, ownerID, id)
	if err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}
