package logger

import (
	"context"
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const (
	loggerKey      contextKey = "stellar.logger"
	operationIDKey contextKey = "stellar.op_id"
	slotKey        contextKey = "stellar.slot"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// NewOperationID returns a fresh operation ID.
// Format: op-{ulid_lowercase}.
func NewOperationID() string {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(rand.Reader, 0))
	return "op-" + strings.ToLower(id.String())
}

// WithOperationID adds an operation ID to the context.
func WithOperationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, operationIDKey, id)
}

// OperationIDFromContext extracts the operation ID from context.
func OperationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(operationIDKey).(string); ok {
		return id
	}
	return ""
}

// WithSlot adds the save slot being worked on to the context.
func WithSlot(ctx context.Context, slot string) context.Context {
	return context.WithValue(ctx, slotKey, slot)
}

// SlotFromContext extracts the save slot from context.
func SlotFromContext(ctx context.Context) string {
	if slot, ok := ctx.Value(slotKey).(string); ok {
		return slot
	}
	return ""
}

// StartOperation tags ctx with a new operation ID unless it already has one.
func StartOperation(ctx context.Context) context.Context {
	if OperationIDFromContext(ctx) != "" {
		return ctx
	}
	return WithOperationID(ctx, NewOperationID())
}

// L is a shorthand for FromContext that also enriches the logger
// with the operation ID and slot from the context.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)

	if id := OperationIDFromContext(ctx); id != "" {
		l = l.With(OpID(id))
	}
	if slot := SlotFromContext(ctx); slot != "" {
		l = l.With(Slot(slot))
	}

	return l
}
