package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName identifies this module's tracer.
const TracerName = "github.com/mupstack/mupdrive"

// Span attribute keys.
const (
	SpanAttrTool          = "mcp.tool"
	SpanAttrStatus        = "mcp.status"
	SpanAttrService       = "mupdrive.service"
	SpanAttrOperation     = "mupdrive.operation"
	SpanAttrSourceID      = "mupdrive.source_id"
	SpanAttrFolderID      = "mupdrive.folder_id"
	SpanAttrNodeCount     = "mupdrive.node_count"
	SpanAttrDocumentBytes = "mupdrive.document_bytes"
)

// SpanAttributeBuilder accumulates span attributes under the shared key
// names. Identifier attributes are skipped when empty.
type SpanAttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewSpanAttributeBuilder creates an empty builder.
func NewSpanAttributeBuilder() *SpanAttributeBuilder {
	return &SpanAttributeBuilder{
		attrs: make([]attribute.KeyValue, 0, 8),
	}
}

// WithTool adds the MCP tool name.
func (b *SpanAttributeBuilder) WithTool(tool string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrTool, tool))
	return b
}

// WithService adds the backing service name.
func (b *SpanAttributeBuilder) WithService(service string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrService, service))
	return b
}

// WithOperation adds the operation type.
func (b *SpanAttributeBuilder) WithOperation(operation string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrOperation, operation))
	return b
}

// WithSource adds the Drive file identifier when non-empty.
func (b *SpanAttributeBuilder) WithSource(sourceID string) *SpanAttributeBuilder {
	if sourceID != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrSourceID, sourceID))
	}
	return b
}

// WithFolder adds the Drive folder scope when non-empty.
func (b *SpanAttributeBuilder) WithFolder(folderID string) *SpanAttributeBuilder {
	if folderID != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrFolderID, folderID))
	}
	return b
}

// WithDocument adds the shape of a parsed document.
func (b *SpanAttributeBuilder) WithDocument(nodeCount int, documentBytes int64) *SpanAttributeBuilder {
	b.attrs = append(b.attrs,
		attribute.Int(SpanAttrNodeCount, nodeCount),
		attribute.Int64(SpanAttrDocumentBytes, documentBytes),
	)
	return b
}

// Build returns the accumulated attributes.
func (b *SpanAttributeBuilder) Build() []attribute.KeyValue {
	return b.attrs
}

func startSpan(ctx context.Context, name string, kind trace.SpanKind, attrs []attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, name,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(kind),
	)
}

// StartToolSpan starts a server-kind span for an MCP tool invocation. The
// caller must end the span.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := append([]attribute.KeyValue{attribute.String(SpanAttrTool, toolName)}, attrs...)
	return startSpan(ctx, "tool."+toolName, trace.SpanKindServer, all)
}

// StartDriveSpan starts a client-kind span for a Google Drive API call.
func StartDriveSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := append([]attribute.KeyValue{
		attribute.String(SpanAttrService, ServiceDrive),
		attribute.String(SpanAttrOperation, operation),
	}, attrs...)
	return startSpan(ctx, "drive."+operation, trace.SpanKindClient, all)
}

// SetSpanError records err on the span and marks the span status as error.
// A nil err is ignored.
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess marks the span status as OK.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// GetTraceID returns the trace ID of the span in ctx, or "" when no valid
// span is present.
func GetTraceID(ctx context.Context) string {
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

// GetSpanID returns the span ID of the span in ctx, or "" when no valid
// span is present.
func GetSpanID(ctx context.Context) string {
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		return sc.SpanID().String()
	}
	return ""
}
