package domain

import "github.com/GoSim-25-26J-441/taskflow-backend/internal/apperr"

var (
	ErrMissingToken       = apperr.Unauthorized("missing authorization token")
	ErrInvalidToken       = apperr.Unauthorized("invalid token")
	ErrInvalidCredentials = apperr.Unauthorized("invalid email or password")
	ErrEmailTaken         = apperr.Field("email", "email is already registered")
)
