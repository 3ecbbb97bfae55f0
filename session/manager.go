package session

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/tifye/fairway/assert"
	"github.com/tifye/fairway/rules"
	"github.com/tifye/fairway/sim"
	"github.com/tifye/fairway/storage"
	"github.com/tifye/fairway/store"
)

// Manager owns the live sessions. Sessions idle past the TTL are
// evicted and their state files removed; an evicted id simply gets a
// fresh career on its next request.
type Manager struct {
	logger   *log.Logger
	rules    *rules.Rules
	stateDir string
	recorder storage.TurnRecorder

	sessions *cache.Cache
}

func NewManager(logger *log.Logger, r *rules.Rules, stateDir string, ttl time.Duration, recorder storage.TurnRecorder) *Manager {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(r)
	assert.AssertNotEmpty(stateDir)
	assert.AssertNotNil(recorder)

	sessions := cache.New(ttl, ttl/2)
	m := &Manager{
		logger:   logger,
		rules:    r,
		stateDir: stateDir,
		recorder: recorder,
		sessions: sessions,
	}
	sessions.OnEvicted(func(id string, v any) {
		sess := v.(*Session)
		if err := sess.store.Remove(); err != nil {
			logger.Warn("remove evicted session state", "sessionID", id, "err", err)
		}
		logger.Debug("session evicted", "sessionID", id)
	})
	return m
}

// GetOrCreate returns the session for id, creating one when the id is
// empty or unknown. A hit refreshes the session's TTL.
func (m *Manager) GetOrCreate(id string) (*Session, error) {
	if id != "" {
		if v, ok := m.sessions.Get(id); ok {
			sess := v.(*Session)
			m.sessions.SetDefault(id, sess)
			return sess, nil
		}
	}
	return m.create(id)
}

func (m *Manager) create(id string) (*Session, error) {
	if id == "" {
		id = uuid.NewString()
	}

	fileStore := store.NewFileStore(m.statePath(id), m.rules)
	engine, err := sim.NewEngine(m.logger.WithPrefix("sim"), m.rules, fileStore)
	if err != nil {
		return nil, fmt.Errorf("start session %s: %w", id, err)
	}

	sess := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		logger:    m.logger,
		engine:    engine,
		store:     fileStore,
		recorder:  m.recorder,
		limiter:   rate.NewLimiter(rate.Limit(actionsPerSecond), actionBurst),
	}
	m.sessions.SetDefault(id, sess)
	m.logger.Info("session started", "sessionID", id)
	return sess, nil
}

// Dispose evicts a session immediately, deleting its state file.
func (m *Manager) Dispose(id string) {
	m.sessions.Delete(id)
}

func (m *Manager) Count() int {
	return m.sessions.ItemCount()
}

// Info is the admin-facing view of a live session.
type Info struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Week      int       `json:"week"`
	Completed bool      `json:"completed"`
}

// Sessions lists the live sessions, newest first.
func (m *Manager) Sessions() []Info {
	items := m.sessions.Items()
	infos := make([]Info, 0, len(items))
	for _, item := range items {
		sess := item.Object.(*Session)
		state := sess.State()
		infos = append(infos, Info{
			ID:        sess.ID,
			CreatedAt: sess.CreatedAt,
			Week:      state.Season.CurrentWeek,
			Completed: state.Season.Completed(),
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.After(infos[j].CreatedAt)
	})
	return infos
}

// Close tears down every live session. Eviction handlers run for each,
// so state files are cleaned up.
func (m *Manager) Close() {
	for id := range m.sessions.Items() {
		m.sessions.Delete(id)
	}
}

func (m *Manager) statePath(id string) string {
	return filepath.Join(m.stateDir, fmt.Sprintf("fairway-%s.json", id))
}
