package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/:projectId", h.get)
	rg.PUT("/:projectId", h.update)
	rg.DELETE("/:projectId", h.delete)
}
