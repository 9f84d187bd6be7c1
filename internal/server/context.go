package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mupstack/mupdrive/internal/config"
	"github.com/mupstack/mupdrive/internal/drive"
	"github.com/mupstack/mupdrive/internal/instrumentation"
	"github.com/mupstack/mupdrive/internal/library"
	"github.com/mupstack/mupdrive/internal/logging"
	"github.com/mupstack/mupdrive/internal/mindmup"
)

// ServerContext holds the shared state for the MCP server: configuration,
// the Drive client, and the mind map library built on top of it.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	cfg config.Config

	driveClient *drive.Client
	lib         *library.Library

	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context.
//
// The Drive client is lazily initialized on first use so the server can start
// without credentials; tools that need Drive return a descriptive error until
// credentials are present.
func NewServerContext(ctx context.Context, cfg config.Config) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:    shutdownCtx,
		cancel: cancel,
		cfg:    cfg,
	}

	// Eagerly connect when credentials are already on disk
	if drive.HasCredentials(cfg.CredentialsFile) {
		client, err := drive.NewClient(shutdownCtx, cfg.CredentialsFile)
		if err != nil {
			// Re-attempted on first use
			slog.Warn("failed to create Drive client at startup", logging.Err(err))
		} else {
			sc.driveClient = client
		}
	}

	return sc, nil
}

// Context returns the server context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the server configuration.
func (sc *ServerContext) Config() config.Config {
	return sc.cfg
}

// DriveClient returns the Google Drive client, creating and caching it on
// first use. Returns an error when no service account credentials are
// available.
func (sc *ServerContext) DriveClient() (*drive.Client, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.driveClient != nil {
		return sc.driveClient, nil
	}

	if !drive.HasCredentials(sc.cfg.CredentialsFile) {
		return nil, fmt.Errorf("no Google Drive credentials found at %s; set GOOGLE_DRIVE_CREDENTIALS_FILE to a service account key", sc.cfg.CredentialsFile)
	}

	client, err := drive.NewClient(sc.ctx, sc.cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive client: %w", err)
	}

	sc.driveClient = client
	return client, nil
}

// SetDriveClient sets the Drive client. Used by tests to inject fakes.
func (sc *ServerContext) SetDriveClient(client *drive.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.driveClient = client
	sc.lib = nil
}

// Library returns the mind map library, creating and caching it on first use.
func (sc *ServerContext) Library() (*library.Library, error) {
	sc.mu.RLock()
	if sc.lib != nil {
		defer sc.mu.RUnlock()
		return sc.lib, nil
	}
	sc.mu.RUnlock()

	client, err := sc.DriveClient()
	if err != nil {
		return nil, err
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.lib == nil {
		builder := mindmup.NewBuilder(mindmup.BuilderOptions{
			MaxDepth:         sc.cfg.MaxDepth,
			MaxDocumentBytes: sc.cfg.MaxDocumentBytes,
		})
		lib := library.New(client, builder, sc.cfg.MaxDocumentBytes, logging.DefaultLogger())
		lib.SetParseObserver(sc.observeParse)
		sc.lib = lib
	}
	return sc.lib, nil
}

// observeParse feeds parse outcomes into the document metrics. The metrics
// recorder is looked up per call since instrumentation is wired after the
// context is created.
func (sc *ServerContext) observeParse(doc *mindmup.Document, err error, duration time.Duration) {
	metrics := sc.Metrics()
	if metrics == nil {
		return
	}

	result := instrumentation.ParseResultSuccess
	nodes := 0
	switch {
	case err == nil:
		nodes = doc.NodeCount()
	default:
		var parseErr *mindmup.ParseError
		var depthErr *mindmup.DepthExceededError
		var sizeErr *mindmup.SizeExceededError
		switch {
		case errors.As(err, &depthErr):
			result = instrumentation.ParseResultDepth
		case errors.As(err, &sizeErr):
			result = instrumentation.ParseResultSize
		case errors.As(err, &parseErr):
			result = instrumentation.ParseResultSyntax
		default:
			return
		}
	}
	metrics.RecordDocumentParse(sc.ctx, result, nodes, duration)
}

// SetLibrary sets the library. Used by tests to inject a library backed by a
// fake storage.
func (sc *ServerContext) SetLibrary(lib *library.Library) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.lib = lib
}

// Builder returns a tree builder configured from the server limits.
func (sc *ServerContext) Builder() *mindmup.Builder {
	return mindmup.NewBuilder(mindmup.BuilderOptions{
		MaxDepth:         sc.cfg.MaxDepth,
		MaxDocumentBytes: sc.cfg.MaxDocumentBytes,
	})
}

// Metrics returns the metrics recorder, or nil when instrumentation is off.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// AuditLogger returns the audit logger, or nil when audit logging is off.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SetAuditLogger sets the audit logger.
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
}

// HasCredentials reports whether service account credentials are available.
func (sc *ServerContext) HasCredentials() bool {
	return drive.HasCredentials(sc.cfg.CredentialsFile)
}

// IsShutdown returns whether the server has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
