package store

import (
	"github.com/tifye/fairway/assert"
	"github.com/tifye/fairway/rules"
	"github.com/tifye/fairway/sim"
)

// MemStore is an in-memory Store for tests and headless simulations.
type MemStore struct {
	rules *rules.Rules
	state *sim.State
	saves int
}

func NewMemStore(r *rules.Rules) *MemStore {
	assert.AssertNotNil(r)
	return &MemStore{rules: r}
}

func (m *MemStore) Load() (*sim.State, error) {
	if m.state == nil {
		m.state = InitialState(m.rules)
	}
	return m.state, nil
}

func (m *MemStore) Save(state *sim.State) error {
	m.state = state
	m.saves++
	return nil
}

func (m *MemStore) Reset() (*sim.State, error) {
	m.state = InitialState(m.rules)
	return m.state, nil
}

// Saves reports how many times Save has been called; tests use it to
// check that failed turns never persist.
func (m *MemStore) Saves() int {
	return m.saves
}
