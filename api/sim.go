package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/tifye/fairway/assert"
	sessionpkg "github.com/tifye/fairway/session"
	"github.com/tifye/fairway/sim"
	"github.com/tifye/fairway/store"
	"github.com/tifye/fairway/stream"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// resolveSession maps the request's cookie session onto its simulation,
// creating both on first contact.
func resolveSession(c echo.Context, logger *log.Logger, manager *sessionpkg.Manager) (*sessionpkg.Session, error) {
	webSession, err := session.Get("session", c)
	if err != nil {
		logger.Error("get session", "err", err)
	}

	// trigger save to ensure session has an ID
	if err := webSession.Save(c.Request(), c.Response()); err != nil {
		return nil, fmt.Errorf("save session for ID: %w", err)
	}

	return manager.GetOrCreate(webSession.ID)
}

func handleGetState(logger *log.Logger, manager *sessionpkg.Manager) echo.HandlerFunc {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(manager)
	return func(c echo.Context) error {
		sess, err := resolveSession(c, logger, manager)
		if err != nil {
			logger.Error("resolve session", "err", err)
			return c.NoContent(http.StatusInternalServerError)
		}

		return c.JSON(http.StatusOK, store.ToDTO(sess.State()))
	}
}

func handlePostAction(logger *log.Logger, manager *sessionpkg.Manager, hub *stream.Hub) echo.HandlerFunc {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(manager)
	assert.AssertNotNil(hub)

	type request struct {
		Action          string `json:"action"`
		Skill           string `json:"skill"`
		MotivationDelta *int   `json:"motivation_delta"`
		MentalRecovery  *int   `json:"mental_recovery"`
	}
	return func(c echo.Context) error {
		sess, err := resolveSession(c, logger, manager)
		if err != nil {
			logger.Error("resolve session", "err", err)
			return c.NoContent(http.StatusInternalServerError)
		}

		if !sess.Allow() {
			return c.JSON(http.StatusTooManyRequests, errorBody{
				Error:   "rate_limited",
				Message: "too many actions, slow down",
			})
		}

		var req request
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, errorBody{
				Error:   "invalid_payload",
				Message: "malformed request body",
			})
		}

		kind, err := sim.ParseActionKind(req.Action)
		if err != nil {
			return writeDomainError(c, err)
		}

		state, err := sess.Apply(kind, sim.Payload{
			Skill:           req.Skill,
			MotivationDelta: req.MotivationDelta,
			MentalRecovery:  req.MentalRecovery,
		})
		if err != nil {
			return writeDomainError(c, err)
		}

		broadcastState(logger, hub, sess.ID, state)
		return c.JSON(http.StatusOK, store.ToDTO(state))
	}
}

func handlePostReset(logger *log.Logger, manager *sessionpkg.Manager, hub *stream.Hub) echo.HandlerFunc {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(manager)
	assert.AssertNotNil(hub)
	return func(c echo.Context) error {
		sess, err := resolveSession(c, logger, manager)
		if err != nil {
			logger.Error("resolve session", "err", err)
			return c.NoContent(http.StatusInternalServerError)
		}

		state, err := sess.Reset()
		if err != nil {
			logger.Error("reset simulation", "sessionID", sess.ID, "err", err)
			return c.NoContent(http.StatusInternalServerError)
		}

		broadcastState(logger, hub, sess.ID, state)
		return c.JSON(http.StatusOK, store.ToDTO(state))
	}
}

// writeDomainError maps simulation failures onto the API's error body.
// Bad input is 400, a rule refusing the action is 409.
func writeDomainError(c echo.Context, err error) error {
	var status int
	var code string
	switch {
	case errors.Is(err, sim.ErrInvalidAction):
		status, code = http.StatusBadRequest, "invalid_action"
	case errors.Is(err, sim.ErrInvalidPayload):
		status, code = http.StatusBadRequest, "invalid_payload"
	case errors.Is(err, sim.ErrInsufficientFunds):
		status, code = http.StatusConflict, "insufficient_funds"
	case errors.Is(err, sim.ErrNoTournamentScheduled):
		status, code = http.StatusConflict, "no_tournament_scheduled"
	case errors.Is(err, sim.ErrSeasonComplete):
		status, code = http.StatusConflict, "season_complete"
	default:
		return c.JSON(http.StatusInternalServerError, errorBody{
			Error:   "internal",
			Message: "turn could not be resolved",
		})
	}
	return c.JSON(status, errorBody{Error: code, Message: err.Error()})
}

func broadcastState(logger *log.Logger, hub *stream.Hub, sessionID string, state *sim.State) {
	if hub.Listeners(sessionID) == 0 {
		return
	}
	data, err := json.Marshal(store.ToDTO(state))
	if err != nil {
		logger.Error("encode state for broadcast", "err", err)
		return
	}
	hub.Broadcast(sessionID, data)
}
