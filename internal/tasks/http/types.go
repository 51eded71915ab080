package http

import (
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/taskflow-backend/internal/tasks/service"
)

// Handler bundles the dependencies for task HTTP endpoints.
type Handler struct {
	svc *service.TaskService
	log *zap.Logger
}

func New(svc *service.TaskService, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}
