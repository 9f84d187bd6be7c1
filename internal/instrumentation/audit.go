package instrumentation

import (
	"context"
	"log/slog"
	"time"
)

// ToolInvocation records a single MCP tool call: what ran, against which
// Drive file or folder, how long it took, and how it ended. It carries the
// trace context of the surrounding span so logs can be joined with traces.
//
// SourceID and FolderID name real documents. LogAttrs hashes them before
// logging; LogAuditAttrs emits them verbatim and belongs in an audit stream
// with restricted access.
type ToolInvocation struct {
	Tool string

	SourceID    string // Drive file ID the tool operated on, if any
	FolderID    string // Drive folder scope, if any
	ServiceName string // drive or mindmup
	Operation   string // list, get, download, search, parse

	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	TraceID string
	SpanID  string
}

// NewToolInvocation starts timing an invocation. Finish it with one of the
// Complete methods.
func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{
		Tool:      tool,
		StartTime: time.Now(),
	}
}

// WithSource sets the Drive file ID the tool operates on.
func (ti *ToolInvocation) WithSource(sourceID string) *ToolInvocation {
	ti.SourceID = sourceID
	return ti
}

// WithFolder sets the Drive folder scope.
func (ti *ToolInvocation) WithFolder(folderID string) *ToolInvocation {
	ti.FolderID = folderID
	return ti
}

// WithService sets the backing service and operation.
func (ti *ToolInvocation) WithService(serviceName, operation string) *ToolInvocation {
	ti.ServiceName = serviceName
	ti.Operation = operation
	return ti
}

// WithSpanContext copies trace and span IDs from the span in ctx, when one
// is active.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	ti.TraceID = GetTraceID(ctx)
	ti.SpanID = GetSpanID(ctx)
	return ti
}

// Complete stops the clock and records the outcome.
func (ti *ToolInvocation) Complete(success bool, err error) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = success
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// CompleteWithError marks the invocation as failed with the given error.
func (ti *ToolInvocation) CompleteWithError(err error) *ToolInvocation {
	return ti.Complete(false, err)
}

// CompleteSuccess marks the invocation as successful.
func (ti *ToolInvocation) CompleteSuccess() *ToolInvocation {
	return ti.Complete(true, nil)
}

// AnonymizedSourceID returns a truncated hash of the source file ID for
// lower-cardinality logging.
func (ti *ToolInvocation) AnonymizedSourceID() string {
	return AnonymizeSourceID(ti.SourceID)
}

// Status maps the Success flag onto the shared status label values.
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns structured log attributes with the source ID anonymized.
func (ti *ToolInvocation) LogAttrs() []slog.Attr {
	attrs := ti.baseAttrs()
	if ti.SourceID != "" {
		attrs = append(attrs, slog.String("source", ti.AnonymizedSourceID()))
	}
	return ti.commonTail(attrs)
}

// LogAuditAttrs returns structured log attributes carrying the full Drive
// file and folder IDs. These record which documents were read; route them
// to an access-controlled audit stream, not to general dashboards.
func (ti *ToolInvocation) LogAuditAttrs() []slog.Attr {
	attrs := ti.baseAttrs()
	if ti.SourceID != "" {
		attrs = append(attrs, slog.String("source_id", ti.SourceID))
	}
	if ti.FolderID != "" {
		attrs = append(attrs, slog.String("folder_id", ti.FolderID))
	}
	attrs = ti.commonTail(attrs)
	if ti.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ti.SpanID))
	}
	return attrs
}

func (ti *ToolInvocation) baseAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("tool", ti.Tool),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}
}

func (ti *ToolInvocation) commonTail(attrs []slog.Attr) []slog.Attr {
	if ti.ServiceName != "" {
		attrs = append(attrs, slog.String("service", ti.ServiceName))
	}
	if ti.Operation != "" {
		attrs = append(attrs, slog.String("operation", ti.Operation))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}
	return attrs
}

// AuditLogger writes tool invocation records through a slog.Logger. By
// default it logs anonymized source identifiers only.
type AuditLogger struct {
	logger           *slog.Logger
	includeSourceIDs bool
	enabled          bool
}

// NewAuditLogger returns an enabled logger that anonymizes Drive file IDs.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: true})
}

// NewAuditLoggerWithConfig returns a logger honoring the given settings.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:           logger,
		includeSourceIDs: config.IncludeSourceIDs,
		enabled:          config.Enabled,
	}
}

// SetIncludeSourceIDs toggles full Drive file IDs in invocation logs.
func (al *AuditLogger) SetIncludeSourceIDs(include bool) {
	al.includeSourceIDs = include
}

// SetEnabled toggles audit logging.
func (al *AuditLogger) SetEnabled(enabled bool) {
	al.enabled = enabled
}

// LogToolInvocation writes the operational record of an invocation. Source
// IDs are anonymized unless IncludeSourceIDs is set.
func (al *AuditLogger) LogToolInvocation(ti *ToolInvocation) {
	if !al.enabled {
		return
	}

	var attrs []slog.Attr
	if al.includeSourceIDs {
		attrs = ti.LogAuditAttrs()
	} else {
		attrs = ti.LogAttrs()
	}

	if ti.Success {
		al.logger.Info("tool_executed", attrsToArgs(attrs)...)
	} else {
		al.logger.Warn("tool_failed", attrsToArgs(attrs)...)
	}
}

// LogToolAudit writes the full audit record with verbatim Drive IDs,
// regardless of the IncludeSourceIDs setting.
func (al *AuditLogger) LogToolAudit(ti *ToolInvocation) {
	if !al.enabled {
		return
	}
	al.logger.Info("tool_audit", attrsToArgs(ti.LogAuditAttrs())...)
}

func attrsToArgs(attrs []slog.Attr) []any {
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}
	return args
}
