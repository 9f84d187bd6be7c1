package common

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mupstack/mupdrive/internal/instrumentation"
	"github.com/mupstack/mupdrive/internal/server"
)

// ToolHandlerFunc aliases the mcp-go tool handler signature.
type ToolHandlerFunc = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps a tool handler with metrics and audit
// logging. When neither is configured on the server context the handler
// runs unwrapped.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler ToolHandlerFunc) ToolHandlerFunc {
	return instrumented(toolName, "", "", sc, handler)
}

// InstrumentedToolHandlerWithService additionally records which backing
// service and operation the tool maps to. Tools backed by Drive feed the
// Drive operation counters; parsing-only tools record under the mindmup
// service and skip them.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandlerWithService("my_tool", instrumentation.ServiceDrive, instrumentation.OperationList, sc, handler))
func InstrumentedToolHandlerWithService(toolName, serviceName, operation string, sc *server.ServerContext, handler ToolHandlerFunc) ToolHandlerFunc {
	return instrumented(toolName, serviceName, operation, sc, handler)
}

func instrumented(toolName, serviceName, operation string, sc *server.ServerContext, handler ToolHandlerFunc) ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()
		if metrics == nil && auditLogger == nil {
			return handler(ctx, request)
		}

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName)
		if serviceName != "" {
			invocation.WithService(serviceName, operation)
		}

		// Attribute the call to its Drive target when the arguments name one
		args := request.GetArguments()
		sourceID := GetSourceFromArgs(args)
		if sourceID != "" {
			invocation.WithSource(sourceID)
		}
		folderID := GetFolderFromArgs(args)
		if folderID != "" {
			invocation.WithFolder(folderID)
		}

		builder := instrumentation.NewSpanAttributeBuilder().
			WithSource(sourceID).
			WithFolder(folderID)
		if serviceName != "" {
			builder.WithService(serviceName).WithOperation(operation)
		}
		ctx, span := instrumentation.StartToolSpan(ctx, toolName, builder.Build()...)
		defer span.End()
		invocation.WithSpanContext(ctx)

		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			invocation.Complete(false, nil)
			span.SetAttributes(attribute.String(instrumentation.SpanAttrStatus, status))
		default:
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		if metrics != nil {
			if folderID != "" {
				metrics.RecordToolInvocationWithFolder(ctx, toolName, status, folderID, duration)
			} else {
				metrics.RecordToolInvocation(ctx, toolName, status, duration)
			}
			if serviceName == instrumentation.ServiceDrive {
				metrics.RecordDriveOperation(ctx, operation, status, duration)
			}
		}
		if auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		return result, err
	}
}
