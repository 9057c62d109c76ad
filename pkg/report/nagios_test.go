package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yurykabanov/eslimiter/pkg/domain"
)

func TestSummary(t *testing.T) {
	m := domain.NewRunMetrics()
	m.AddDeleted(2, 6000000)
	m.AddSkipped(1)
	m.Patterns = []string{"logs-*", "metrics-*"}

	assert.Equal(t,
		"Limiter job finished. Deleted 2 indices with a total size of 6.0 MB. 1 indices skipped. Index-patterns[logs-*,metrics-*]",
		Summary(m),
	)
}

func TestExit(t *testing.T) {
	cases := []struct {
		severity domain.Severity
		line     string
		code     int
	}{
		{domain.SeverityOK, "eslimiter OK: done\n", 0},
		{domain.SeverityWarning, "eslimiter Warning: done\n", 1},
		{domain.SeverityCritical, "eslimiter Critical: done\n", 2},
		{domain.SeverityUnknown, "eslimiter Unknown: done\n", 3},
		{domain.Severity(42), "eslimiter Unknown: done\n", 3},
	}

	for _, c := range cases {
		buf := &bytes.Buffer{}

		code := Exit(buf, c.severity, "done")

		assert.Equal(t, c.code, code)
		assert.Equal(t, c.line, buf.String())
	}
}

func TestResult_Error(t *testing.T) {
	buf := &bytes.Buffer{}
	m := domain.NewRunMetrics()
	m.Raise(domain.SeverityWarning)

	code := Result(buf, m, errors.New("connection refused"))

	assert.Equal(t, 2, code)
	assert.Equal(t, "eslimiter Critical: connection refused\n", buf.String())
}
