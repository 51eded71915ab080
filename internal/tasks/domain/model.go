package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status is the workflow state of a task. Any state may follow any other.
type Status string

const (
	StatusToDo       Status = "To Do"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

var statuses = []Status{StatusToDo, StatusInProgress, StatusDone}

func (s Status) Valid() bool {
	for _, v := range statuses {
		if s == v {
			return true
		}
	}
	return false
}

func StatusNames() []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// Task belongs to exactly one project and is stamped with the user who created it.
// IsOverdue is derived at read time and never persisted.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	Status      Status    `json:"status"`
	Project     string    `json:"project"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	IsOverdue   bool      `json:"isOverdue"`
}

// Overdue reports whether the task is past due at now and not yet done.
func (t *Task) Overdue(now time.Time) bool {
	return t.DueDate.Before(now) && t.Status != StatusDone
}

// Annotate fills the derived fields for the given instant.
func (t *Task) Annotate(now time.Time) {
	t.IsOverdue = t.Overdue(now)
}

// ProjectRef is the parent project summary attached to overdue tasks.
type ProjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OverdueTask is a task annotated with its parent project's name.
type OverdueTask struct {
	Task
	Project ProjectRef `json:"project"`
}

// CreateInput is the body of a task creation request.
type CreateInput struct {
	Title       string  `json:"title" validate:"notblank,max=200"`
	Description *string `json:"description" validate:"omitnil,max=1000"`
	DueDate     *string `json:"dueDate" validate:"required,isodate"`
	Status      *string `json:"status" validate:"omitnil,taskstatus"`
}

func (in *CreateInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	trim(in.Description)
	trim(in.DueDate)
}

// UpdateInput is the body of a task update request; nil fields are left unchanged.
type UpdateInput struct {
	Title       *string `json:"title" validate:"omitnil,notblank,max=200"`
	Description *string `json:"description" validate:"omitnil,max=1000"`
	DueDate     *string `json:"dueDate" validate:"omitnil,isodate"`
	Status      *string `json:"status" validate:"omitnil,taskstatus"`
}

func (in *UpdateInput) Normalize() {
	trim(in.Title)
	trim(in.Description)
	trim(in.DueDate)
}

// Patch is a validated partial update handed to the store.
type Patch struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Status      *Status
}

func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
}

var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDueDate accepts ISO-8601 dates and date-times. Values without a zone are
// UTC; sub-millisecond digits are dropped.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(time.Millisecond), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid due date %q", s)
}

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
