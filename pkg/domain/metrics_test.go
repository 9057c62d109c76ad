package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunMetrics_RaiseIsMonotonic(t *testing.T) {
	m := NewRunMetrics()

	m.Raise(SeverityWarning)
	assert.Equal(t, SeverityWarning, m.Severity)

	m.Raise(SeverityOK)
	assert.Equal(t, SeverityWarning, m.Severity)

	m.Raise(SeverityCritical)
	m.Raise(SeverityWarning)
	assert.Equal(t, SeverityCritical, m.Severity)

	m.Raise(SeverityUnknown)
	assert.Equal(t, SeverityUnknown, m.Severity)
}

func TestRunMetrics_AddDeletedAccumulatesBytes(t *testing.T) {
	m := NewRunMetrics()

	m.AddDeleted(1, 3*mb)
	m.AddDeleted(1, 2*mb)

	assert.Equal(t, uint64(2), m.IndicesDeleted)
	assert.Equal(t, uint64(5*mb), m.BytesDeleted)
}

func TestRunMetrics_Fold(t *testing.T) {
	m := NewRunMetrics()

	m.Fold(RuleOutcome{Pattern: "a-*", Severity: SeverityCritical, State: RuleStateFailed})
	m.Fold(RuleOutcome{Pattern: "b-*", Severity: SeverityOK, State: RuleStateSatisfied})

	assert.Equal(t, []string{"a-*", "b-*"}, m.Patterns)
	assert.Len(t, m.Outcomes, 2)
	assert.Equal(t, SeverityCritical, m.Severity)
}

func TestNewRunMetrics_IsFresh(t *testing.T) {
	first := NewRunMetrics()
	first.Fold(RuleOutcome{Pattern: "a-*"})

	assert.Empty(t, NewRunMetrics().Patterns)
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "OK", SeverityOK.String())
	assert.Equal(t, "WARNING", SeverityWarning.String())
	assert.Equal(t, "CRITICAL", SeverityCritical.String())
	assert.Equal(t, "UNKNOWN", SeverityUnknown.String())
}
