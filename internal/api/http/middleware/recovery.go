package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/taskflow-backend/internal/api/http/respond"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/logging"
)

// Recovery turns a panic into the generic 500 body and logs it with the stack.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logging.For(c.Request.Context(), log).Error("panic recovered",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("panic", fmt.Sprint(recovered)),
			zap.StackSkip("stack", 2),
		)
		respond.Internal(c)
	})
}
