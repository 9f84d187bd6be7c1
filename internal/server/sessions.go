package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// sessionInfo tracks session metadata for cleanup
type sessionInfo struct {
	lastAccess time.Time
}

// SessionTracker observes MCP session activity on the HTTP transport.
// Streamable HTTP clients carry an Mcp-Session-Id header once initialized;
// the tracker counts distinct live sessions and expires idle ones so the
// active_sessions gauge stays honest across client crashes.
type SessionTracker struct {
	sessions       map[string]*sessionInfo
	mu             sync.RWMutex
	cleanupTicker  *time.Ticker
	cleanupDone    chan bool
	sessionTimeout time.Duration
	logger         *slog.Logger
	onCountChange  func(delta int)
}

// NewSessionTracker creates a session tracker with a 24h idle timeout.
func NewSessionTracker() *SessionTracker {
	return NewSessionTrackerWithLogger(24*time.Hour, slog.Default())
}

// NewSessionTrackerWithLogger creates a session tracker with a custom timeout and logger.
func NewSessionTrackerWithLogger(timeout time.Duration, logger *slog.Logger) *SessionTracker {
	if logger == nil {
		logger = slog.Default()
	}

	t := &SessionTracker{
		sessions:       make(map[string]*sessionInfo),
		cleanupTicker:  time.NewTicker(10 * time.Minute),
		cleanupDone:    make(chan bool),
		sessionTimeout: timeout,
		logger:         logger,
	}

	go t.cleanupExpiredSessions()

	return t
}

// OnCountChange registers a callback invoked with +1/-1 as sessions appear
// and expire. Used to drive the active_sessions gauge.
func (t *SessionTracker) OnCountChange(fn func(delta int)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onCountChange = fn
}

// Touch records activity for the session carried by the request, if any.
// Returns true when the request introduced a previously unseen session.
func (t *SessionTracker) Touch(r *http.Request) bool {
	sessionID := r.Header.Get("Mcp-Session-Id")
	if sessionID == "" {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if info, ok := t.sessions[sessionID]; ok {
		info.lastAccess = time.Now()
		return false
	}

	t.sessions[sessionID] = &sessionInfo{lastAccess: time.Now()}
	if t.onCountChange != nil {
		t.onCountChange(1)
	}
	return true
}

// Count returns the number of live sessions.
func (t *SessionTracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sessions)
}

// cleanupExpiredSessions periodically removes sessions idle past the timeout.
func (t *SessionTracker) cleanupExpiredSessions() {
	for {
		select {
		case <-t.cleanupTicker.C:
			t.removeExpired()
		case <-t.cleanupDone:
			return
		}
	}
}

func (t *SessionTracker) removeExpired() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	expired := 0
	for id, info := range t.sessions {
		if now.Sub(info.lastAccess) > t.sessionTimeout {
			delete(t.sessions, id)
			expired++
			if t.onCountChange != nil {
				t.onCountChange(-1)
			}
		}
	}

	if expired > 0 {
		t.logger.Debug("expired idle MCP sessions",
			"expired", expired,
			"remaining", len(t.sessions),
		)
	}
}

// Stop stops the cleanup goroutine.
func (t *SessionTracker) Stop() {
	t.cleanupTicker.Stop()
	close(t.cleanupDone)
}
