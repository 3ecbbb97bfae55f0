package api

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/sessions"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/tifye/fairway/assert"
	sessionpkg "github.com/tifye/fairway/session"
	"github.com/tifye/fairway/store"
	"github.com/tifye/fairway/stream"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// handleWebsocketConn attaches the connection to the session's state
// stream. The server pushes a snapshot on connect and after every
// resolved turn; inbound messages are ignored, the read loop only
// notices the close.
func handleWebsocketConn(
	logger *log.Logger,
	manager *sessionpkg.Manager,
	hub *stream.Hub,
	newSessionCookie func(s *sessions.Session) (*http.Cookie, error),
) echo.HandlerFunc {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(manager)
	assert.AssertNotNil(hub)

	return func(c echo.Context) error {
		webSession, err := session.Get("session", c)
		if err != nil {
			logger.Error("get session", "err", err)
		}

		// trigger save to ensure session has an ID
		if err := webSession.Save(c.Request(), c.Response()); err != nil {
			logger.Error("save session for ID", "err", err)
		}

		sess, err := manager.GetOrCreate(webSession.ID)
		if err != nil {
			logger.Error("resolve session", "err", err)
			return c.NoContent(http.StatusInternalServerError)
		}

		responseHeader := http.Header{}
		sessionCookie, err := newSessionCookie(webSession)
		if err != nil {
			logger.Error("new session cookie", "err", err)
		} else {
			assert.AssertNotNil(sessionCookie)
			responseHeader.Add("Set-Cookie", sessionCookie.String())
		}

		logger.Debug("upgrading to websocket connection", "sessionID", sess.ID)

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), responseHeader)
		if err != nil {
			logger.Error(err)
			return err
		}
		defer conn.Close()

		// Snapshot goes out before the conn joins the broadcast set, so
		// nothing else writes to the socket concurrently.
		snapshot, err := json.Marshal(store.ToDTO(sess.State()))
		if err != nil {
			logger.Error("encode state snapshot", "err", err)
		} else if err := conn.WriteMessage(websocket.TextMessage, snapshot); err != nil {
			logger.Debug("ws snapshot write", "err", err, "sessionID", sess.ID)
			return c.NoContent(http.StatusOK)
		}

		detach := hub.Attach(sess.ID, WriterFunc(func(data []byte) (n int, err error) {
			return len(data), conn.WriteMessage(websocket.TextMessage, data)
		}))
		defer detach()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug("ws read", "err", err, "sessionID", sess.ID)
				break
			}
		}

		return c.NoContent(http.StatusOK)
	}
}

type WriterFunc func(data []byte) (n int, err error)

func (f WriterFunc) Write(data []byte) (n int, err error) {
	return f(data)
}
