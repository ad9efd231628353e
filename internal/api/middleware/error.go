package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"site-energy-sim/internal/api/models"
)

// ErrorHandler recovers panics and reports them as internal errors.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("panic serving request",
			zap.String("path", c.Request.URL.Path),
			zap.Any("recovered", recovered))

		message := "An unexpected error occurred"
		if err, ok := recovered.(string); ok {
			message = err
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    models.CodeInternalError,
				Message: message,
			},
		})
	})
}
