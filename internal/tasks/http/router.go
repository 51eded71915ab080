package http

import "github.com/gin-gonic/gin"

// RegisterProjectTasks attaches the task routes below a project group
// (mounted at /projects).
func (h *Handler) RegisterProjectTasks(projects *gin.RouterGroup) {
	g := projects.Group("/:projectId/tasks")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:taskId", h.get)
	g.PUT("/:taskId", h.update)
	g.DELETE("/:taskId", h.delete)
}

// RegisterOverdue attaches the cross-project overdue listing (mounted at /tasks).
func (h *Handler) RegisterOverdue(tasks *gin.RouterGroup) {
	tasks.GET("/overdue", h.overdue)
}
