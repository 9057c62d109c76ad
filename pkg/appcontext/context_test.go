package appcontext

import (
	"context"
	"io/ioutil"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLoggerFromContext(t *testing.T) {
	logger := logrus.New()
	logger.Out = ioutil.Discard

	ctx := WithIndexPattern(WithTraceId(context.Background(), "trace-1"), "logs-*")

	entry, ok := LoggerFromContext(logger, ctx).(*logrus.Entry)

	assert.True(t, ok)
	assert.Equal(t, "trace-1", entry.Data["trace_id"])
	assert.Equal(t, "logs-*", entry.Data["index_pattern"])
	assert.NotContains(t, entry.Data, "request_id")
}

func TestLoggerFromContext_Empty(t *testing.T) {
	logger := logrus.New()

	assert.Equal(t, logger, LoggerFromContext(logger, context.Background()))
	assert.Equal(t, "", TraceIdFromContext(context.Background()))
}
