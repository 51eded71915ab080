package domain

import "github.com/GoSim-25-26J-441/taskflow-backend/internal/apperr"

var ErrNotFound = apperr.NotFound("project not found")
