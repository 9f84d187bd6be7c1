package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func requestWithSession(sessionID string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	if sessionID != "" {
		r.Header.Set("Mcp-Session-Id", sessionID)
	}
	return r
}

func TestSessionTracker_Touch(t *testing.T) {
	tracker := NewSessionTracker()
	defer tracker.Stop()

	if !tracker.Touch(requestWithSession("s1")) {
		t.Error("first touch should report a new session")
	}
	if tracker.Touch(requestWithSession("s1")) {
		t.Error("second touch of the same session should not report new")
	}
	if !tracker.Touch(requestWithSession("s2")) {
		t.Error("different session id should report new")
	}
	if tracker.Count() != 2 {
		t.Errorf("Count() = %d, want 2", tracker.Count())
	}
}

func TestSessionTracker_NoHeader(t *testing.T) {
	tracker := NewSessionTracker()
	defer tracker.Stop()

	if tracker.Touch(requestWithSession("")) {
		t.Error("request without session header must not create a session")
	}
	if tracker.Count() != 0 {
		t.Errorf("Count() = %d, want 0", tracker.Count())
	}
}

func TestSessionTracker_OnCountChange(t *testing.T) {
	tracker := NewSessionTracker()
	defer tracker.Stop()

	var deltas []int
	tracker.OnCountChange(func(delta int) {
		deltas = append(deltas, delta)
	})

	tracker.Touch(requestWithSession("s1"))
	tracker.Touch(requestWithSession("s1"))
	tracker.Touch(requestWithSession("s2"))

	if len(deltas) != 2 || deltas[0] != 1 || deltas[1] != 1 {
		t.Errorf("deltas = %v, want [1 1]", deltas)
	}
}

func TestSessionTracker_ExpiresIdleSessions(t *testing.T) {
	tracker := NewSessionTrackerWithLogger(10*time.Millisecond, nil)
	defer tracker.Stop()

	var deltas []int
	tracker.OnCountChange(func(delta int) {
		deltas = append(deltas, delta)
	})

	tracker.Touch(requestWithSession("stale"))
	time.Sleep(20 * time.Millisecond)
	tracker.removeExpired()

	if tracker.Count() != 0 {
		t.Errorf("Count() = %d after expiry, want 0", tracker.Count())
	}
	if len(deltas) != 2 || deltas[1] != -1 {
		t.Errorf("deltas = %v, want [1 -1]", deltas)
	}
}

func TestSessionTracker_FreshSessionsSurviveCleanup(t *testing.T) {
	tracker := NewSessionTrackerWithLogger(time.Hour, nil)
	defer tracker.Stop()

	tracker.Touch(requestWithSession("fresh"))
	tracker.removeExpired()

	if tracker.Count() != 1 {
		t.Errorf("Count() = %d, want 1", tracker.Count())
	}
}
