package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey int

const (
	loggerKey contextKey = iota
	fieldsKey
)

// RequestFields identifies the caller of a request. Empty values are omitted
// from log entries.
type RequestFields struct {
	RequestID string
	TenantID  string
	UserID    string
}

// WithContext returns a new context carrying l
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger stored in ctx, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// Fields returns the request fields stored in ctx
func Fields(ctx context.Context) RequestFields {
	f, _ := ctx.Value(fieldsKey).(RequestFields)
	return f
}

// WithRequestID records the request ID and enriches the context logger
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return enrich(ctx, func(f *RequestFields) { f.RequestID = requestID }, zap.String("request_id", requestID))
}

// WithTenantID records the tenant ID and enriches the context logger
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return enrich(ctx, func(f *RequestFields) { f.TenantID = tenantID }, zap.String("tenant_id", tenantID))
}

// WithUserID records the user ID and enriches the context logger
func WithUserID(ctx context.Context, userID string) context.Context {
	return enrich(ctx, func(f *RequestFields) { f.UserID = userID }, zap.String("user_id", userID))
}

func enrich(ctx context.Context, set func(*RequestFields), field zap.Field) context.Context {
	f := Fields(ctx)
	set(&f)
	ctx = context.WithValue(ctx, fieldsKey, f)
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		ctx = WithContext(ctx, l.With(field))
	}
	return ctx
}

// L returns the context logger with trace_id and span_id attached when the
// context carries a sampled span.
//
//	logger.L(ctx).Info("invoice issued", zap.String("numero", n))
func L(ctx context.Context) *zap.Logger {
	return WithTraceContext(ctx, FromContext(ctx))
}

// WithTraceContext adds trace_id and span_id from the span in ctx
func WithTraceContext(ctx context.Context, l *zap.Logger) *zap.Logger {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return l
	}
	return l.With(
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	)
}
