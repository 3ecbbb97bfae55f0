package storage

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/tifye/fairway/assert"
	"github.com/tifye/fairway/sim"
)

// TurnRecorder receives every successfully resolved turn. Recording is
// best-effort analytics; it never affects turn resolution.
type TurnRecorder interface {
	RecordTurn(sessionID string, entry sim.LedgerEntry) error
	Close() error
}

type DuckDBRecorder struct {
	logger *log.Logger
	db     DuckDB
}

func NewDuckDBRecorder(logger *log.Logger, db DuckDB) *DuckDBRecorder {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(db)
	return &DuckDBRecorder{
		logger: logger,
		db:     db,
	}
}

func (r *DuckDBRecorder) RecordTurn(sessionID string, entry sim.LedgerEntry) error {
	_, err := r.db.Exec(`
		INSERT INTO turns (
			session_id, week, action, description,
			money_delta, fatigue_physical_delta, fatigue_mental_delta,
			reputation_delta, motivation_delta
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, entry.Week, entry.Action, entry.Description,
		entry.MoneyDelta, entry.FatiguePhysicalDelta, entry.FatigueMentalDelta,
		entry.ReputationDelta, entry.MotivationDelta,
	)
	if err != nil {
		return fmt.Errorf("insert turn: %w", err)
	}
	return nil
}

func (r *DuckDBRecorder) Close() error {
	return r.db.Close()
}

// NoopRecorder is used when no analytics database is configured.
type NoopRecorder struct{}

func (NoopRecorder) RecordTurn(string, sim.LedgerEntry) error { return nil }

func (NoopRecorder) Close() error { return nil }
