package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/taskflow-backend/internal/api/http/respond"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/auth"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/auth/domain"
)

// Resolver loads the user a bearer token belongs to.
type Resolver interface {
	Resolve(ctx context.Context, raw string) (*domain.User, error)
}

// RequireUser rejects requests without a valid bearer token and stores the
// resolved user for the handlers behind it.
func RequireUser(resolver Resolver, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			respond.Error(c, log, domain.ErrMissingToken)
			return
		}

		user, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			respond.Error(c, log, err)
			return
		}

		auth.SetUser(c, user)
		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(bearerToken) > 7 && strings.EqualFold(bearerToken[:7], "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}
