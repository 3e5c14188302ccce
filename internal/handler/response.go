package handler

import (
	"github.com/gin-gonic/gin"
)

const (
	errTypeValidation      = "validation_error"
	errTypeScheduler       = "scheduler_error"
	errTypeProfileStore    = "profile_store_error"
	errTypeNotConfigured   = "not_configured"
	errTypeDispatchRunning = "dispatch_in_progress"
)

func respondError(c *gin.Context, status int, errType, message string) {
	c.JSON(status, ErrorResponse{
		Error:   errType,
		Message: message,
	})
}
