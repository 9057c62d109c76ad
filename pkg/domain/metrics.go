package domain

import "time"

type RuleState string

const (
	RuleStateSatisfied RuleState = "satisfied"
	RuleStateSkipped   RuleState = "skipped"
	RuleStateFailed    RuleState = "failed"
)

// Deletion is one index removed by the evictor.
type Deletion struct {
	Pattern   string
	Index     string
	SizeBytes uint64
	CreatedAt time.Time
	DeletedAt time.Time
}

// RuleOutcome is the result of enforcing a single rule.
type RuleOutcome struct {
	Pattern    string
	State      RuleState
	Reason     string
	Severity   Severity
	Deleted    []Deletion
	Skipped    uint64
	TotalBytes uint64
	MaxBytes   uint64
	Remaining  int
	Err        error
}

func (o RuleOutcome) BytesDeleted() uint64 {
	var n uint64
	for _, d := range o.Deleted {
		n += d.SizeBytes
	}
	return n
}

// RunMetrics accumulates the results of one limiter run. It is not safe for
// concurrent use; a run mutates it from a single goroutine.
type RunMetrics struct {
	Severity       Severity
	IndicesSkipped uint64
	IndicesDeleted uint64
	BytesDeleted   uint64
	Patterns       []string
	Outcomes       []RuleOutcome
}

func NewRunMetrics() *RunMetrics {
	return &RunMetrics{
		Severity: SeverityOK,
		Patterns: []string{},
	}
}

// Raise escalates the run severity. Severity never decreases.
func (m *RunMetrics) Raise(s Severity) {
	m.Severity = m.Severity.Max(s)
}

func (m *RunMetrics) AddSkipped(count uint64) {
	m.IndicesSkipped += count
}

func (m *RunMetrics) AddDeleted(count, bytes uint64) {
	m.IndicesDeleted += count
	m.BytesDeleted += bytes
}

// Fold records a finished rule. The pattern is recorded whatever the outcome.
func (m *RunMetrics) Fold(outcome RuleOutcome) {
	m.Raise(outcome.Severity)
	m.Patterns = append(m.Patterns, outcome.Pattern)
	m.Outcomes = append(m.Outcomes, outcome)
}
