package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mupstack/mupdrive/internal/config"
	"github.com/mupstack/mupdrive/internal/instrumentation"
	"github.com/mupstack/mupdrive/internal/resources"
	"github.com/mupstack/mupdrive/internal/server"
	"github.com/mupstack/mupdrive/internal/tools/drive_tools"
	"github.com/mupstack/mupdrive/internal/tools/mindmup_tools"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

func newServeCmd() *cobra.Command {
	var (
		debugMode        bool
		transport        string
		httpAddr         string
		disableStreaming bool
		credentialsFile  string
		maxDepth         int
		maxDocumentBytes int64
		maxContentBytes  int
		caseSensitive    bool
		metricsConfig    MetricsConfig
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server for MindMup mind maps in Google Drive",
		Long: `Start an MCP (Model Context Protocol) server that exposes read-only
tools for discovering, parsing and searching MindMup mind map files
stored in Google Drive.

The server supports two transport types:
  - stdio: Standard input/output (default, for direct client integration)
  - streamable-http: Streamable HTTP transport (for remote access)

Authentication uses a Google service account key. Point
GOOGLE_DRIVE_CREDENTIALS_FILE (or --credentials-file) at the JSON key.
Tools that touch Drive fail with a clear error when no credentials are
configured; parsing-only tools keep working.

Example usage:
  mupdrive serve
  mupdrive serve --transport streamable-http --http-addr :8080
  mupdrive serve --credentials-file /etc/mupdrive/sa.json --max-depth 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if cmd.Flags().Changed("credentials-file") {
				cfg.CredentialsFile = credentialsFile
			}
			if cmd.Flags().Changed("max-depth") {
				cfg.MaxDepth = maxDepth
			}
			if cmd.Flags().Changed("max-document-bytes") {
				cfg.MaxDocumentBytes = maxDocumentBytes
			}
			if cmd.Flags().Changed("max-content-bytes") {
				cfg.MaxContentBytes = maxContentBytes
			}
			if cmd.Flags().Changed("case-sensitive-titles") {
				cfg.CaseSensitiveTitles = caseSensitive
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return runServe(transport, debugMode, httpAddr, disableStreaming, cfg, metricsConfig)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVarP(&transport, "transport", "t", "stdio", "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&disableStreaming, "disable-streaming", false, "Disable SSE streaming, use plain request/response (for clients with streaming bugs)")
	cmd.Flags().StringVar(&credentialsFile, "credentials-file", "", "Path to the Google service account JSON key")
	cmd.Flags().IntVar(&maxDepth, "max-depth", config.DefaultMaxDepth, "Maximum nesting depth accepted when parsing mind maps")
	cmd.Flags().Int64Var(&maxDocumentBytes, "max-document-bytes", config.DefaultMaxDocumentBytes, "Maximum size of a single mind map document in bytes")
	cmd.Flags().IntVar(&maxContentBytes, "max-content-bytes", config.DefaultMaxContentBytes, "Truncation limit for extracted text content in tool responses")
	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive-titles", false, "Match node titles case-sensitively by default")
	cmd.Flags().BoolVar(&metricsConfig.Enabled, "metrics-enabled", false, "Enable Prometheus metrics server on a dedicated port")
	cmd.Flags().StringVar(&metricsConfig.Addr, "metrics-addr", server.DefaultMetricsAddr, "Address for the metrics server")

	return cmd
}

func runServe(transport string, debugMode bool, httpAddr string, disableStreaming bool, cfg config.Config, metricsConfig MetricsConfig) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if debugMode {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	// Environment fallback for deployments that cannot set flags
	if !metricsConfig.Enabled && os.Getenv("METRICS_ENABLED") == "true" {
		metricsConfig.Enabled = true
	}
	if metricsConfig.Addr == "" || metricsConfig.Addr == server.DefaultMetricsAddr {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			metricsConfig.Addr = addr
		}
	}

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			if transport != "stdio" {
				log.Printf("Error during instrumentation shutdown: %v", err)
			}
		}
	}()

	// Start metrics server if enabled and not in stdio mode
	var metricsServer *server.MetricsServer
	if transport != "stdio" && metricsConfig.Enabled && provider.Enabled() {
		metricsServer, err = startMetricsServer(metricsConfig.Addr, provider)
		if err != nil {
			return err
		}
	}

	// Create server context. Missing credentials are not fatal here: parsing
	// tools keep working and Drive tools report the problem per call.
	serverContext, err := server.NewServerContext(shutdownCtx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	if !serverContext.HasCredentials() && transport != "stdio" {
		log.Printf("Warning: no Google Drive credentials configured; Drive-backed tools will return errors")
	}

	// Set metrics and audit logger on server context for tool instrumentation
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging))
	}
	defer func() {
		// Shutdown metrics server first
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Printf("Error during metrics server shutdown: %v", err)
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			if transport != "stdio" {
				log.Printf("Error during server context shutdown: %v", err)
			}
		}
	}()

	mcpSrv := mcpserver.NewMCPServer("mupdrive", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
	)

	// Register all tools and resources
	if err := registerAllTools(mcpSrv, serverContext); err != nil {
		return err
	}

	// Start the appropriate server based on transport type
	switch transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http":
		fmt.Printf("Starting mupdrive MCP server with %s transport...\n", transport)
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, httpAddr, disableStreaming, provider)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", transport)
	}
}

// startMetricsServer starts the Prometheus endpoint and blocks until it is
// listening, so a bad metrics address fails startup instead of surfacing
// later as a silent scrape gap.
func startMetricsServer(addr string, provider *instrumentation.Provider) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    addr,
		Enabled:                 true,
		InstrumentationProvider: provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	ready := make(chan struct{})
	errCh := make(chan error, 1)
	go func() {
		if err := metricsServer.StartWithReadySignal(ready); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ready:
		log.Printf("Metrics server started on %s", metricsServer.Addr())
		return metricsServer, nil
	case err := <-errCh:
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("metrics server startup timed out")
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools registers every MCP tool and resource. Shared between
// serve and generate-docs so the documentation always covers the live set.
func registerAllTools(mcpSrv *mcpserver.MCPServer, ctx *server.ServerContext) error {
	if err := drive_tools.RegisterDriveTools(mcpSrv, ctx); err != nil {
		return fmt.Errorf("failed to register Drive tools: %w", err)
	}
	if err := mindmup_tools.RegisterMindmupTools(mcpSrv, ctx); err != nil {
		return fmt.Errorf("failed to register MindMup tools: %w", err)
	}
	if err := resources.RegisterMapResources(mcpSrv, ctx); err != nil {
		return fmt.Errorf("failed to register map resources: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, serverContext *server.ServerContext, addr string, disableStreaming bool, provider *instrumentation.Provider) error {
	healthChecker := server.NewHealthChecker(serverContext)

	var metrics *instrumentation.Metrics
	if provider.Enabled() {
		metrics = provider.Metrics()
	}

	httpServer, err := server.NewHTTPServer(mcpSrv, server.HTTPServerConfig{
		Addr:             addr,
		DisableStreaming: disableStreaming,
		Metrics:          metrics,
		HealthChecker:    healthChecker,
	})
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	fmt.Printf("MCP endpoint available at http://localhost%s/mcp\n", addr)
	fmt.Printf("Health endpoints: /healthz /readyz /healthz/detailed\n")

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()
	healthChecker.SetReady(true)

	select {
	case <-ctx.Done():
		fmt.Println("Shutdown signal received, stopping HTTP server...")
		healthChecker.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		fmt.Println("HTTP server stopped normally")
	}

	fmt.Println("HTTP server gracefully stopped")
	return nil
}
