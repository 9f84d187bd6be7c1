package instrumentation

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestToolInvocation_Lifecycle(t *testing.T) {
	ti := NewToolInvocation("mindmup_get_map").
		WithSource("file-123").
		WithFolder("folder-456").
		WithService(ServiceDrive, OperationGet)

	if ti.Tool != "mindmup_get_map" {
		t.Errorf("Tool = %q", ti.Tool)
	}
	if ti.StartTime.IsZero() {
		t.Error("StartTime not set")
	}

	ti.CompleteSuccess()
	if !ti.Success {
		t.Error("expected Success after CompleteSuccess")
	}
	if ti.Status() != StatusSuccess {
		t.Errorf("Status() = %q, want %q", ti.Status(), StatusSuccess)
	}
	if ti.Duration < 0 {
		t.Errorf("Duration = %v", ti.Duration)
	}
}

func TestToolInvocation_CompleteWithError(t *testing.T) {
	ti := NewToolInvocation("drive_get_files").CompleteWithError(errors.New("not found"))

	if ti.Success {
		t.Error("expected failure")
	}
	if ti.Status() != StatusError {
		t.Errorf("Status() = %q, want %q", ti.Status(), StatusError)
	}
	if ti.Error != "not found" {
		t.Errorf("Error = %q", ti.Error)
	}
}

func TestToolInvocation_LogAttrsAnonymizesSource(t *testing.T) {
	ti := NewToolInvocation("mindmup_get_map").WithSource("secret-file-id").CompleteSuccess()

	attrs := ti.LogAttrs()
	for _, attr := range attrs {
		if attr.Key == "source_id" {
			t.Error("LogAttrs must not expose the full source id")
		}
		if attr.Key == "source" && attr.Value.String() == "secret-file-id" {
			t.Error("source attribute carries the raw id")
		}
	}
}

func TestToolInvocation_LogAuditAttrsIncludesIDs(t *testing.T) {
	ti := NewToolInvocation("mindmup_search_and_parse").
		WithSource("file-1").
		WithFolder("folder-2").
		CompleteSuccess()

	var sourceID, folderID string
	for _, attr := range ti.LogAuditAttrs() {
		switch attr.Key {
		case "source_id":
			sourceID = attr.Value.String()
		case "folder_id":
			folderID = attr.Value.String()
		}
	}
	if sourceID != "file-1" {
		t.Errorf("source_id = %q, want file-1", sourceID)
	}
	if folderID != "folder-2" {
		t.Errorf("folder_id = %q, want folder-2", folderID)
	}
}

func newCapturingLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestAuditLogger_LogToolInvocation(t *testing.T) {
	logger, buf := newCapturingLogger()
	al := NewAuditLogger(logger)

	al.LogToolInvocation(NewToolInvocation("drive_list_files").WithSource("raw-id").CompleteSuccess())

	output := buf.String()
	if !strings.Contains(output, "tool_executed") {
		t.Errorf("expected tool_executed message, got: %s", output)
	}
	if strings.Contains(output, "raw-id") {
		t.Errorf("default logger must anonymize source ids, got: %s", output)
	}
}

func TestAuditLogger_LogToolInvocation_Failure(t *testing.T) {
	logger, buf := newCapturingLogger()
	al := NewAuditLogger(logger)

	al.LogToolInvocation(NewToolInvocation("drive_get_files").CompleteWithError(errors.New("boom")))

	output := buf.String()
	if !strings.Contains(output, "tool_failed") {
		t.Errorf("expected tool_failed message, got: %s", output)
	}
	if !strings.Contains(output, "boom") {
		t.Errorf("expected error in output, got: %s", output)
	}
}

func TestAuditLogger_IncludeSourceIDs(t *testing.T) {
	logger, buf := newCapturingLogger()
	al := NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: true, IncludeSourceIDs: true})

	al.LogToolInvocation(NewToolInvocation("mindmup_get_map").WithSource("raw-id").CompleteSuccess())

	if !strings.Contains(buf.String(), "raw-id") {
		t.Errorf("expected raw source id in audit output, got: %s", buf.String())
	}
}

func TestAuditLogger_Disabled(t *testing.T) {
	logger, buf := newCapturingLogger()
	al := NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: false})

	al.LogToolInvocation(NewToolInvocation("drive_list_files").CompleteSuccess())
	al.LogToolAudit(NewToolInvocation("drive_list_files").CompleteSuccess())

	if buf.Len() != 0 {
		t.Errorf("disabled audit logger wrote output: %s", buf.String())
	}
}

func TestAuditLogger_LogToolAudit(t *testing.T) {
	logger, buf := newCapturingLogger()
	al := NewAuditLogger(logger)

	al.LogToolAudit(NewToolInvocation("mindmup_get_map").WithSource("full-id").CompleteSuccess())

	output := buf.String()
	if !strings.Contains(output, "tool_audit") {
		t.Errorf("expected tool_audit message, got: %s", output)
	}
	if !strings.Contains(output, "full-id") {
		t.Errorf("audit log must include the full id, got: %s", output)
	}
}
