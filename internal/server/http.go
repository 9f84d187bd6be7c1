package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mupstack/mupdrive/internal/instrumentation"
)

// HTTPServerConfig holds configuration for the streamable HTTP transport.
type HTTPServerConfig struct {
	// Addr is the address to bind to (e.g., ":8080").
	Addr string

	// DisableStreaming forces plain request/response mode for clients that
	// cannot consume SSE streams.
	DisableStreaming bool

	// Metrics records HTTP request metrics when non-nil.
	Metrics *instrumentation.Metrics

	// HealthChecker registers /healthz and /readyz when non-nil.
	HealthChecker *HealthChecker
}

// HTTPServer serves the MCP protocol over streamable HTTP on /mcp,
// alongside health endpoints for Kubernetes probes.
//
// The server is read-only and unauthenticated at the transport level;
// access control is expected at the network boundary (the service account
// credentials never leave the process).
type HTTPServer struct {
	mcpServer  *mcpserver.MCPServer
	httpServer *http.Server
	config     HTTPServerConfig
	sessions   *SessionTracker
}

// NewHTTPServer creates a streamable HTTP server wrapping the given MCP server.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, config HTTPServerConfig) (*HTTPServer, error) {
	if mcpServer == nil {
		return nil, fmt.Errorf("mcp server is required")
	}
	if config.Addr == "" {
		return nil, fmt.Errorf("listen address is required")
	}

	sessions := NewSessionTracker()
	if config.Metrics != nil {
		m := config.Metrics
		sessions.OnCountChange(func(delta int) {
			if delta > 0 {
				m.IncrementActiveSessions(context.Background())
			} else {
				m.DecrementActiveSessions(context.Background())
			}
		})
	}

	return &HTTPServer{
		mcpServer: mcpServer,
		config:    config,
		sessions:  sessions,
	}, nil
}

// Start starts the HTTP server in a blocking manner.
// Call this in a goroutine if you need non-blocking operation.
func (s *HTTPServer) Start() error {
	mux := http.NewServeMux()

	opts := []mcpserver.StreamableHTTPOption{
		mcpserver.WithEndpointPath("/mcp"),
	}
	if s.config.DisableStreaming {
		opts = append(opts, mcpserver.WithDisableStreaming(true))
	}
	streamable := mcpserver.NewStreamableHTTPServer(s.mcpServer, opts...)

	mux.Handle("/mcp", s.instrument(streamable))

	if s.config.HealthChecker != nil {
		s.config.HealthChecker.RegisterHealthEndpoints(mux)
	}

	s.httpServer = &http.Server{
		Addr:              s.config.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s.httpServer.ListenAndServe()
}

// instrument wraps the MCP handler with session tracking and request metrics.
func (s *HTTPServer) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.sessions.Touch(r)

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		if s.config.Metrics != nil {
			s.config.Metrics.RecordHTTPRequest(r.Context(), r.Method, "/mcp", sw.status, time.Since(start))
		}
	})
}

// statusWriter captures the response status code for metrics.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Flush passes through to the underlying writer so SSE streaming keeps working.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Sessions returns the session tracker.
func (s *HTTPServer) Sessions() *SessionTracker {
	return s.sessions
}

// Shutdown gracefully shuts down the server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.sessions.Stop()
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
