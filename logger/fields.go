package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across Reef.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldRequestID = "request_id"
	FieldComponent = "component"

	// Blob store
	FieldBlobID     = "blob_id"
	FieldSizeBytes  = "size_bytes"
	FieldEpochs     = "epochs"
	FieldHash       = "content_hash"
	FieldStoreState = "store_state"

	// Datasets
	FieldRowCount    = "row_count"
	FieldColumnCount = "column_count"

	// Rulesets and execution
	FieldRuleKind    = "rule_kind"
	FieldRulesetName = "ruleset_name"
	FieldProvider    = "provider"
	FieldModel       = "model"
	FieldCostUSD     = "cost_usd"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Network
	FieldMethod = "method"
	FieldPath   = "path"
	FieldStatus = "status"
)

// Context keys for propagating logging context
type contextKey string

const (
	requestIDKey contextKey = "logger_request_id"
	componentKey contextKey = "logger_component"
)

// WithRequestID adds a request ID to the context for logging
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if requestID, ok := ctx.Value(requestIDKey).(string); ok && requestID != "" {
		fields = append(fields, FieldRequestID, requestID)
	}
	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}

	return fields
}

// FromContext returns a logger with fields extracted from context.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}
