package response

import (
	"ctchen222/Grid-Tac-Toe/internal/game"
	"ctchen222/Grid-Tac-Toe/internal/session"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusFor maps a service error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrInvalidSize):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ServiceErrorResponse writes err with the status StatusFor picks.
func ServiceErrorResponse(c *gin.Context, err error) {
	ErrorResponse(c, StatusFor(err), err.Error())
}
