package http

import "github.com/gin-gonic/gin"

// Register mounts the public auth routes and, behind requireUser, the profile route.
func (h *Handler) Register(rg *gin.RouterGroup, requireUser gin.HandlerFunc) {
	rg.POST("/register", h.RegisterUser)
	rg.POST("/login", h.Login)
	rg.GET("/me", requireUser, h.Me)
}
