package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/taskflow-backend/internal/auth/domain"
)

const ctxUser = "auth_user"

// SetUser attaches the authenticated user to the request.
func SetUser(c *gin.Context, u *domain.User) {
	c.Set(ctxUser, u)
}

// CurrentUser returns the user set by the auth middleware, or nil.
func CurrentUser(c *gin.Context) *domain.User {
	u, _ := c.Get(ctxUser)
	user, _ := u.(*domain.User)
	return user
}
