package api

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/tifye/fairway/assert"
	sessionpkg "github.com/tifye/fairway/session"
)

func handleGetSessions(manager *sessionpkg.Manager) echo.HandlerFunc {
	assert.AssertNotNil(manager)
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, manager.Sessions())
	}
}

func handleDeleteSession(logger *log.Logger, manager *sessionpkg.Manager) echo.HandlerFunc {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(manager)
	return func(c echo.Context) error {
		id := c.Param("id")
		if id == "" {
			return c.NoContent(http.StatusBadRequest)
		}

		manager.Dispose(id)
		logger.Info("session disposed", "sessionID", id)
		return c.NoContent(http.StatusNoContent)
	}
}
