package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/spf13/viper"

	sessionpkg "github.com/tifye/fairway/session"
	"github.com/tifye/fairway/stream"
)

type ServerDependencies struct {
	Sessions         *sessionpkg.Manager
	Hub              *stream.Hub
	SessionStore     sessions.Store
	NewSessionCookie func(s *sessions.Session) (*http.Cookie, error)
}

func NewServer(logger *log.Logger, config *viper.Viper, deps *ServerDependencies) *http.Server {
	e := echo.New()
	server := &http.Server{
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       25 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		ErrorLog:          logger.StandardLog(),
		MaxHeaderBytes:    4096,
	}

	registerRoutes(e, logger, config, deps)

	return server
}
