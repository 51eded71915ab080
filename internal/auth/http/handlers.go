package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/taskflow-backend/internal/api/http/respond"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/auth"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/auth/domain"
)

// RegisterUser creates an account and returns its first session.
func (h *Handler) RegisterUser(c *gin.Context) {
	var in domain.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.InvalidBody(c, err)
		return
	}

	session, err := h.authService.Register(c.Request.Context(), in)
	if err != nil {
		respond.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *Handler) Login(c *gin.Context) {
	var in domain.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.InvalidBody(c, err)
		return
	}

	session, err := h.authService.Login(c.Request.Context(), in)
	if err != nil {
		respond.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Me returns the current user's profile
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": auth.CurrentUser(c)})
}
