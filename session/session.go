// Package session gives each connected client its own simulation: one
// engine, one state file, one rate limiter. Nothing is shared across
// sessions.
package session

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/tifye/fairway/sim"
	"github.com/tifye/fairway/storage"
	"github.com/tifye/fairway/store"
)

// Turns are cheap but clients can loop; a modest per-session budget
// keeps one browser from hogging the process.
const (
	actionsPerSecond = 5
	actionBurst      = 10
)

type Session struct {
	ID        string
	CreatedAt time.Time

	logger   *log.Logger
	recorder storage.TurnRecorder
	limiter  *rate.Limiter

	// The engine resolves one turn at a time; concurrent requests for
	// the same cookie queue here.
	mu     sync.Mutex
	engine *sim.Engine
	store  *store.FileStore
}

// State returns the session's current state; no side effects.
func (s *Session) State() *sim.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.GetState()
}

// Apply resolves one turn and records it for analytics on success.
func (s *Session) Apply(kind sim.ActionKind, payload sim.Payload) (*sim.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.engine.PerformAction(kind, payload)
	if err != nil {
		return nil, err
	}
	if len(state.Ledger) > 0 {
		// Best effort: analytics must never fail a resolved turn.
		if err := s.recorder.RecordTurn(s.ID, state.Ledger[len(state.Ledger)-1]); err != nil {
			s.logger.Warn("record turn", "sessionID", s.ID, "err", err)
		}
	}
	return state, nil
}

func (s *Session) Reset() (*sim.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Reset()
}

// Allow reports whether the session is within its action rate budget.
func (s *Session) Allow() bool {
	return s.limiter.Allow()
}

func (s *Session) StatePath() string {
	return s.store.Path()
}
