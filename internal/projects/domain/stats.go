package domain

import (
	"math"
	"sort"

	taskdomain "github.com/GoSim-25-26J-441/taskflow-backend/internal/tasks/domain"
)

// Stats are derived from a project's tasks and never stored.
type Stats struct {
	TotalTasks           int `json:"totalTasks"`
	CompletedTasks       int `json:"completedTasks"`
	CompletionPercentage int `json:"completionPercentage"`
}

// ComputeStats counts tasks and done tasks; the percentage is rounded to the
// nearest integer and is 0 for a project without tasks.
func ComputeStats(tasks []taskdomain.Task) Stats {
	s := Stats{TotalTasks: len(tasks)}
	for _, t := range tasks {
		if t.Status == taskdomain.StatusDone {
			s.CompletedTasks++
		}
	}
	if s.TotalTasks > 0 {
		s.CompletionPercentage = int(math.Round(float64(s.CompletedTasks) / float64(s.TotalTasks) * 100))
	}
	return s
}

// WithStats builds the response shape for p from the tasks that reference it.
// tasks may be in any order; Project.Tasks is filled oldest first.
func WithStats(p Project, tasks []taskdomain.Task) ProjectWithStats {
	ordered := make([]taskdomain.Task, len(tasks))
	copy(ordered, tasks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	p.Tasks = make([]string, 0, len(ordered))
	for _, t := range ordered {
		p.Tasks = append(p.Tasks, t.ID)
	}
	return ProjectWithStats{Project: p, Stats: ComputeStats(tasks)}
}
