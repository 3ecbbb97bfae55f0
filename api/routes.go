package api

import (
	"github.com/charmbracelet/log"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/spf13/viper"
)

func registerRoutes(e *echo.Echo, logger *log.Logger, config *viper.Viper, deps *ServerDependencies) {
	e.Use(session.Middleware(deps.SessionStore))

	api := e.Group("/api")
	api.GET("/state", handleGetState(logger, deps.Sessions))
	api.POST("/action", handlePostAction(logger, deps.Sessions, deps.Hub))
	api.POST("/reset", handlePostReset(logger, deps.Sessions, deps.Hub))
	api.GET("/state/ws", handleWebsocketConn(logger, deps.Sessions, deps.Hub, deps.NewSessionCookie))

	api.GET("/auth/token", handleGetToken(logger, config))
	api.POST("/auth/token/verify", handlePostVerifyToken(logger, config))

	admin := api.Group("/admin", requireAuthMiddleware(logger, config))
	admin.GET("/sessions", handleGetSessions(deps.Sessions))
	admin.DELETE("/sessions/:id", handleDeleteSession(logger, deps.Sessions))
}
