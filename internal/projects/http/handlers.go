package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/taskflow-backend/internal/api/http/respond"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/auth"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/projects/domain"
)

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), auth.CurrentUser(c).ID)
	if err != nil {
		respond.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), auth.CurrentUser(c).ID, c.Param("projectId"))
	if err != nil {
		respond.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) create(c *gin.Context) {
	var in domain.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.InvalidBody(c, err)
		return
	}

	p, err := h.svc.Create(c.Request.Context(), auth.CurrentUser(c).ID, in)
	if err != nil {
		respond.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) update(c *gin.Context) {
	var in domain.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.InvalidBody(c, err)
		return
	}

	p, err := h.svc.Update(c.Request.Context(), auth.CurrentUser(c).ID, c.Param("projectId"), in)
	if err != nil {
		respond.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), auth.CurrentUser(c).ID, c.Param("projectId")); err != nil {
		respond.Error(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}
