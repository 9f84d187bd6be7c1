package server

import (
	"context"
	"testing"

	"github.com/mupstack/mupdrive/internal/config"
	"github.com/mupstack/mupdrive/internal/instrumentation"
)

func newContextWithoutCredentials(t *testing.T) *ServerContext {
	t.Helper()
	cfg := config.Default()
	cfg.CredentialsFile = ""
	sc, err := NewServerContext(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewServerContext failed: %v", err)
	}
	return sc
}

func TestNewServerContext_WithoutCredentials(t *testing.T) {
	sc := newContextWithoutCredentials(t)
	defer func() { _ = sc.Shutdown() }()

	if sc.HasCredentials() {
		t.Error("HasCredentials should be false")
	}

	if _, err := sc.DriveClient(); err == nil {
		t.Error("DriveClient should fail without credentials")
	}
	if _, err := sc.Library(); err == nil {
		t.Error("Library should fail without credentials")
	}
}

func TestServerContext_ConfigRoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.CredentialsFile = ""
	cfg.MaxDepth = 42

	sc, err := NewServerContext(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewServerContext failed: %v", err)
	}
	defer func() { _ = sc.Shutdown() }()

	if sc.Config().MaxDepth != 42 {
		t.Errorf("Config().MaxDepth = %d, want 42", sc.Config().MaxDepth)
	}
}

func TestServerContext_Shutdown(t *testing.T) {
	sc := newContextWithoutCredentials(t)

	if sc.IsShutdown() {
		t.Error("fresh context should not report shutdown")
	}

	if err := sc.Shutdown(); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
	if !sc.IsShutdown() {
		t.Error("context should report shutdown after Shutdown")
	}

	select {
	case <-sc.Context().Done():
	default:
		t.Error("context should be cancelled after Shutdown")
	}

	// A second shutdown is a no-op, not a panic.
	if err := sc.Shutdown(); err != nil {
		t.Errorf("second Shutdown failed: %v", err)
	}
}

func TestServerContext_MetricsAndAuditLogger(t *testing.T) {
	sc := newContextWithoutCredentials(t)
	defer func() { _ = sc.Shutdown() }()

	if sc.Metrics() != nil {
		t.Error("Metrics should be nil until set")
	}
	if sc.AuditLogger() != nil {
		t.Error("AuditLogger should be nil until set")
	}

	m := &instrumentation.Metrics{}
	sc.SetMetrics(m)
	if sc.Metrics() != m {
		t.Error("Metrics not returned after set")
	}

	al := instrumentation.NewAuditLogger(nil)
	sc.SetAuditLogger(al)
	if sc.AuditLogger() != al {
		t.Error("AuditLogger not returned after set")
	}
}
