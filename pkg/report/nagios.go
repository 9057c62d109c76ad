package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/yurykabanov/eslimiter/pkg/domain"
)

const ServiceName = "eslimiter"

// StatusName is the Nagios plugin status label of a severity.
func StatusName(s domain.Severity) string {
	switch s {
	case domain.SeverityOK:
		return "OK"
	case domain.SeverityWarning:
		return "Warning"
	case domain.SeverityCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// Summary is the one line report of a finished run.
func Summary(m *domain.RunMetrics) string {
	return fmt.Sprintf(
		"Limiter job finished. Deleted %d indices with a total size of %s. %d indices skipped. Index-patterns[%s]",
		m.IndicesDeleted, humanize.Bytes(m.BytesDeleted), m.IndicesSkipped, strings.Join(m.Patterns, ","),
	)
}

func Line(s domain.Severity, message string) string {
	return fmt.Sprintf("%s %s: %s", ServiceName, StatusName(s), message)
}

// Exit writes the status line and returns the process exit code.
func Exit(w io.Writer, s domain.Severity, message string) int {
	fmt.Fprintln(w, Line(s, message))

	if s < domain.SeverityOK || s > domain.SeverityUnknown {
		return int(domain.SeverityUnknown)
	}
	return int(s)
}

// Result reports a run: the summary when it completed, the error otherwise.
func Result(w io.Writer, m *domain.RunMetrics, err error) int {
	if err != nil {
		return Exit(w, m.Severity.Max(domain.SeverityCritical), err.Error())
	}
	return Exit(w, m.Severity, Summary(m))
}
