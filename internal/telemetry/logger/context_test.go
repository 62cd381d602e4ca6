package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestWithLogger_FromContext(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Level: "info", Format: "json", Output: &buf})

	ctx := WithLogger(context.Background(), l)
	FromContext(ctx).Info("from context")

	if !strings.Contains(buf.String(), "from context") {
		t.Errorf("log output = %q, want message from context logger", buf.String())
	}
}

func TestFromContext_Default(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext() returned nil, want default logger")
	}
}

func TestOperationID(t *testing.T) {
	id := NewOperationID()
	if !strings.HasPrefix(id, "op-") || len(id) != 29 {
		t.Errorf("NewOperationID() = %q, want op-{ulid}", id)
	}

	ctx := WithOperationID(context.Background(), id)
	if got := OperationIDFromContext(ctx); got != id {
		t.Errorf("OperationIDFromContext() = %q, want %q", got, id)
	}
	if got := OperationIDFromContext(context.Background()); got != "" {
		t.Errorf("OperationIDFromContext() = %q, want empty", got)
	}
}

func TestStartOperation(t *testing.T) {
	ctx := StartOperation(context.Background())
	id := OperationIDFromContext(ctx)
	if id == "" {
		t.Fatal("StartOperation() should set an operation ID")
	}
	if again := OperationIDFromContext(StartOperation(ctx)); again != id {
		t.Errorf("StartOperation() replaced ID %q with %q", id, again)
	}
}

func TestL_Enrichment(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Level: "info", Format: "json", Output: &buf})

	ctx := WithLogger(context.Background(), l)
	ctx = WithOperationID(ctx, "op-123")
	ctx = WithSlot(ctx, "alpha")

	L(ctx).Info("saved")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}
	if entry["op_id"] != "op-123" {
		t.Errorf("op_id = %v, want op-123", entry["op_id"])
	}
	if entry["slot"] != "alpha" {
		t.Errorf("slot = %v, want alpha", entry["slot"])
	}
}

func TestL_NoIDs(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Level: "info", Format: "json", Output: &buf})

	L(WithLogger(context.Background(), l)).Info("plain")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}
	if _, ok := entry["op_id"]; ok {
		t.Error("Should not have op_id when not set")
	}
	if _, ok := entry["slot"]; ok {
		t.Error("Should not have slot when not set")
	}
}
