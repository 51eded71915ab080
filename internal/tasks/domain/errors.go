package domain

import "github.com/GoSim-25-26J-441/taskflow-backend/internal/apperr"

var (
	ErrTaskNotFound    = apperr.NotFound("task not found")
	ErrProjectNotFound = apperr.NotFound("project not found")
)
