package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware that catches panics and returns structured errors.
// A panic inside a voice webhook must still answer Twilio with 500 so the
// gateway plays its error message instead of dead air.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err))
				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response.
func JSONError(c *gin.Context, status int, message string, details ...string) {
	resp := ErrorResponse{Message: message}
	if len(details) > 0 {
		resp.Details = details[0]
	}
	GetLogger().Warn(message, zap.String("details", resp.Details))
	c.JSON(status, resp)
}
