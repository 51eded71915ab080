package http

import (
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/taskflow-backend/internal/auth/service"
)

type Handler struct {
	authService *service.AuthService
	log         *zap.Logger
}

func New(authService *service.AuthService, log *zap.Logger) *Handler {
	return &Handler{
		authService: authService,
		log:         log,
	}
}
