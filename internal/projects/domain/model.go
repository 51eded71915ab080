package domain

import (
	"strings"
	"time"
)

// Project is owned by exactly one user. Tasks lists the ids of the tasks that
// point back at the project, oldest first; it is read from the task store on
// every load rather than kept on the project document.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"createdBy"`
	Tasks       []string  `json:"tasks"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProjectWithStats is the shape returned by every project endpoint.
type ProjectWithStats struct {
	Project
	Stats
}

// CreateInput is the body of a project creation request.
type CreateInput struct {
	Name        string  `json:"name" validate:"notblank,max=100"`
	Description *string `json:"description" validate:"omitnil,max=500"`
}

func (in *CreateInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	trim(in.Description)
}

// UpdateInput is the body of a project update request; nil fields are left unchanged.
type UpdateInput struct {
	Name        *string `json:"name" validate:"omitnil,notblank,max=100"`
	Description *string `json:"description" validate:"omitnil,max=500"`
}

func (in *UpdateInput) Normalize() {
	trim(in.Name)
	trim(in.Description)
}

// Patch is a validated partial update handed to the store.
type Patch struct {
	Name        *string
	Description *string
}

func (p Patch) Apply(pr *Project) {
	if p.Name != nil {
		pr.Name = *p.Name
	}
	if p.Description != nil {
		pr.Description = *p.Description
	}
}

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
