// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"wanderplan/internal/modules/planner"
	"wanderplan/internal/modules/preference"
	"wanderplan/internal/modules/quota"
)

type errorResponse struct {
	Error string `json:"error"`
}

// isValidID accepts the UUIDs issued by CreateSession.
func isValidID(v string) bool {
	_, err := uuid.Parse(v)
	return err == nil
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, planner.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, planner.ErrNotIdle), errors.Is(err, planner.ErrNoItinerary):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, planner.ErrUnknownDay):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, preference.ErrNoInterests),
		errors.Is(err, preference.ErrEmptyInterest),
		errors.Is(err, preference.ErrInvalidDate),
		errors.Is(err, preference.ErrDateRange),
		errors.Is(err, preference.ErrInvalidPace):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, quota.ErrQuotaExceeded):
		writeError(c, http.StatusTooManyRequests, err.Error())
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// sessionID reads and checks the :id path parameter.
func sessionID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid session id")
		return "", false
	}
	return id, true
}
