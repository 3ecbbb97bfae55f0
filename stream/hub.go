// Package stream fans simulation state snapshots out to the websocket
// connections attached to a session. One topic, one payload kind: the
// freshest state wins.
package stream

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tifye/fairway/assert"
)

type Hub struct {
	logger *log.Logger

	mu      sync.RWMutex
	writers map[string]map[uint64]*serialWriter
	nextID  uint64
}

// serialWriter holds one connection's write lock. Websocket connections
// tolerate only one writer at a time, and two turns resolving
// back-to-back broadcast concurrently.
type serialWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (sw *serialWriter) Write(data []byte) (int, error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.w.Write(data)
}

func NewHub(logger *log.Logger) *Hub {
	assert.AssertNotNil(logger)
	return &Hub{
		logger:  logger,
		writers: map[string]map[uint64]*serialWriter{},
	}
}

// Attach registers a writer for a session and returns a detach func.
// Detaching twice is a noop.
func (h *Hub) Attach(sessionID string, w io.Writer) (detach func()) {
	assert.AssertNotEmpty(sessionID)
	assert.AssertNotNil(w)

	h.mu.Lock()
	h.nextID++
	id := h.nextID
	if h.writers[sessionID] == nil {
		h.writers[sessionID] = map[uint64]*serialWriter{}
	}
	h.writers[sessionID][id] = &serialWriter{w: w}
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.writers[sessionID], id)
			if len(h.writers[sessionID]) == 0 {
				delete(h.writers, sessionID)
			}
			h.mu.Unlock()
		})
	}
}

// Broadcast writes the payload to every connection attached to the
// session. Write failures are logged, not propagated; a dead connection
// detaches itself when its read loop exits.
func (h *Hub) Broadcast(sessionID string, payload []byte) {
	h.mu.RLock()
	targets := make([]*serialWriter, 0, len(h.writers[sessionID]))
	for _, w := range h.writers[sessionID] {
		targets = append(targets, w)
	}
	h.mu.RUnlock()

	for _, w := range targets {
		if _, err := w.Write(payload); err != nil {
			h.logger.Warn("write on stream", "sessionID", sessionID, "err", err)
		}
	}
}

// Listeners reports how many connections a session has attached.
func (h *Hub) Listeners(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.writers[sessionID])
}
