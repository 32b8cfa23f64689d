package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nikitusuik/thefox/internal/engine"
)

// currentLogin returns the login claim injected by the JWT middleware.
func currentLogin(c echo.Context) string {
	if v := c.Get("login"); v != nil {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// gameIDParam parses the :id path segment.
func gameIDParam(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// engineError maps the engine's sentinel errors onto HTTP responses.
// Precondition failures are the client's problem, conflicts mean the
// request raced another one, anything unknown is a server fault.
func engineError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, engine.ErrGameNotFound),
		errors.Is(err, engine.ErrNotSeated),
		errors.Is(err, engine.ErrUnknownSuspect):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, engine.ErrGameFull),
		errors.Is(err, engine.ErrAlreadyStarted),
		errors.Is(err, engine.ErrSuspectOpened):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, engine.ErrGameNotStarted),
		errors.Is(err, engine.ErrNotYourTurn),
		errors.Is(err, engine.ErrPendingExists),
		errors.Is(err, engine.ErrNoPending),
		errors.Is(err, engine.ErrWrongPending),
		errors.Is(err, engine.ErrRollFailed),
		errors.Is(err, engine.ErrTooFar),
		errors.Is(err, engine.ErrOffBoard),
		errors.Is(err, engine.ErrGameOver):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}
}
