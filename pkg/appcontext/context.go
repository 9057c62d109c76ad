package appcontext

import (
	"context"

	"github.com/sirupsen/logrus"
)

type contextId int

const (
	traceIdKeyId contextId = iota
	indexPatternKeyId
	requestIdKeyId
)

func WithRequestId(ctx context.Context, requestId string) context.Context {
	return context.WithValue(ctx, requestIdKeyId, requestId)
}

func WithTraceId(ctx context.Context, traceId string) context.Context {
	return context.WithValue(ctx, traceIdKeyId, traceId)
}

func WithIndexPattern(ctx context.Context, pattern string) context.Context {
	return context.WithValue(ctx, indexPatternKeyId, pattern)
}

func TraceIdFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceIdKeyId).(string)
	return id
}

func LoggerFromContext(logger logrus.FieldLogger, ctx context.Context) logrus.FieldLogger {
	if ctx == nil {
		return logger
	}

	result := logger

	if ctxTraceId, ok := ctx.Value(traceIdKeyId).(string); ok && ctxTraceId != "" {
		result = result.WithField("trace_id", ctxTraceId)
	}

	if ctxPattern, ok := ctx.Value(indexPatternKeyId).(string); ok && ctxPattern != "" {
		result = result.WithField("index_pattern", ctxPattern)
	}

	if ctxRequestId, ok := ctx.Value(requestIdKeyId).(string); ok && ctxRequestId != "" {
		result = result.WithField("request_id", ctxRequestId)
	}

	return result
}
