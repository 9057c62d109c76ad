package domain

// Severity is the outcome classification of a rule or a whole run. The
// numeric values are the Nagios plugin exit codes.
type Severity int

const (
	SeverityOK Severity = iota
	SeverityWarning
	SeverityCritical
	SeverityUnknown
)

func (s Severity) String() string {
	switch s {
	case SeverityOK:
		return "OK"
	case SeverityWarning:
		return "WARNING"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Max returns the more severe of two severities.
func (s Severity) Max(other Severity) Severity {
	if other > s {
		return other
	}
	return s
}
