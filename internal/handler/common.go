package handler

import (
	"errors"
	"net/http"

	"github.com/triviaboard/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// respondError maps a service error kind to an HTTP status. Anything that is
// not a *service.Error is a 500.
func respondError(c *gin.Context, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		status := http.StatusInternalServerError
		switch svcErr.Kind {
		case service.KindNotFound:
			status = http.StatusNotFound
		case service.KindForbidden:
			status = http.StatusForbidden
		case service.KindConflict:
			status = http.StatusConflict
		case service.KindInvalid:
			status = http.StatusBadRequest
		}
		c.JSON(status, ErrorResponse{Error: svcErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}

// currentUserID reads the authenticated user's ID set by the auth middleware.
func currentUserID(c *gin.Context) uint {
	userID, _ := c.Get("userID")
	id, _ := userID.(uint)
	return id
}
