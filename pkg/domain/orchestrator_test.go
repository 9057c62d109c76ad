package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrchestrator(store Store) *Orchestrator {
	return NewOrchestrator(discardLogger(), NewEvictor(discardLogger(), store))
}

func TestOrchestrator_Run_SystemPatternAbortsBeforeStoreCalls(t *testing.T) {
	store := &fakeStore{partitions: partitions("logs", 50*mb, 50*mb)}
	metrics := NewRunMetrics()

	err := newOrchestrator(store).Run(context.Background(), []LimitConfig{
		{IndexPattern: "logs-*", MaxSize: "10MB"},
		{IndexPattern: ".kibana*", MaxSize: "10MB"},
	}, metrics)

	require.NotNil(t, err)
	assert.True(t, IsConfigurationError(err))
	assert.Equal(t, 0, store.listCalls)
	assert.Equal(t, 0, store.deleteCalls)
	assert.Equal(t, SeverityCritical, metrics.Severity)
	assert.Empty(t, metrics.Patterns)
}

func TestOrchestrator_Run_NoLimits(t *testing.T) {
	metrics := NewRunMetrics()

	err := newOrchestrator(&fakeStore{}).Run(context.Background(), nil, metrics)

	assert.True(t, IsConfigurationError(err))
	assert.Equal(t, SeverityCritical, metrics.Severity)
}

func TestOrchestrator_Run_SeverityIsMaximumOfRules(t *testing.T) {
	store := &fakeStore{partitions: append(
		partitions("logs", 3*mb, 3*mb, 3*mb, 3*mb, 3*mb),
		partitions("audit", 1*mb)...,
	)}
	metrics := NewRunMetrics()

	err := newOrchestrator(store).Run(context.Background(), []LimitConfig{
		{IndexPattern: "audit-*", MaxSize: "10MB"},
		{IndexPattern: "logs-*", MaxSize: "10MB", MinNumIndices: intPtr(2)},
		{IndexPattern: "missing-*", MaxSize: "10MB"},
		{IndexPattern: "audit-*", MaxSize: "10MB"},
	}, metrics)

	require.Nil(t, err)
	assert.Equal(t, SeverityCritical, metrics.Severity)
	assert.Equal(t, []string{"audit-*", "logs-*", "missing-*", "audit-*"}, metrics.Patterns)
	require.Len(t, metrics.Outcomes, 4)

	assert.Equal(t, SeverityOK, metrics.Outcomes[0].Severity)
	assert.Equal(t, SeverityWarning, metrics.Outcomes[1].Severity)
	assert.Equal(t, SeverityCritical, metrics.Outcomes[2].Severity)
	assert.Equal(t, SeverityOK, metrics.Outcomes[3].Severity)

	for _, o := range metrics.Outcomes {
		assert.True(t, metrics.Severity >= o.Severity)
	}

	assert.Equal(t, uint64(2), metrics.IndicesDeleted)
	assert.Equal(t, uint64(6*mb), metrics.BytesDeleted)
}

func TestOrchestrator_Run_WarningOnly(t *testing.T) {
	store := &fakeStore{partitions: partitions("logs", 3*mb, 3*mb, 3*mb, 3*mb, 3*mb)}
	metrics := NewRunMetrics()

	err := newOrchestrator(store).Run(context.Background(), []LimitConfig{
		{IndexPattern: "logs-*", MaxSize: "10MB", MinNumIndices: intPtr(2)},
	}, metrics)

	assert.Nil(t, err)
	assert.Equal(t, SeverityWarning, metrics.Severity)
}

func TestOrchestrator_Run_StoreErrorAbortsRemainingRules(t *testing.T) {
	store := &fakeStore{partitions: partitions("logs", 8*mb, 8*mb), deleteErr: errors.New("cluster_block_exception")}
	metrics := NewRunMetrics()

	err := newOrchestrator(store).Run(context.Background(), []LimitConfig{
		{IndexPattern: "logs-*", MaxSize: "10MB"},
		{IndexPattern: "audit-*", MaxSize: "10MB"},
	}, metrics)

	require.NotNil(t, err)
	assert.True(t, IsStoreError(err))
	assert.Equal(t, []string{"logs-*"}, metrics.Patterns)
	assert.Equal(t, 1, store.listCalls)
	assert.Equal(t, SeverityCritical, metrics.Severity)
}

func TestOrchestrator_Run_Cancelled(t *testing.T) {
	store := &fakeStore{partitions: partitions("logs", 1)}
	metrics := NewRunMetrics()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newOrchestrator(store).Run(ctx, []LimitConfig{{IndexPattern: "logs-*", MaxSize: "10MB"}}, metrics)

	assert.NotNil(t, err)
	assert.Equal(t, 0, store.listCalls)
	assert.Equal(t, SeverityUnknown, metrics.Severity)
}

func TestOrchestrator_Run_ExhaustedBudgetContinuesWithNextRule(t *testing.T) {
	store := &fakeStore{partitions: append(
		partitions("logs", 8*mb, 8*mb),
		partitions("audit", 1*mb)...,
	)}
	store.afterDelete = func(s *fakeStore) {
		s.partitions = append(s.partitions, PartitionSummary{
			Name:      "logs-rollover-" + s.deleted[len(s.deleted)-1],
			SizeBytes: 8 * mb,
			CreatedAt: baseTime.Add(time.Duration(100+len(s.deleted)) * time.Hour),
		})
	}
	metrics := NewRunMetrics()

	err := newOrchestrator(store).Run(context.Background(), []LimitConfig{
		{IndexPattern: "logs-*", MaxSize: "10MB"},
		{IndexPattern: "audit-*", MaxSize: "10MB"},
	}, metrics)

	require.Nil(t, err)
	assert.Equal(t, []string{"logs-*", "audit-*"}, metrics.Patterns)
	require.Len(t, metrics.Outcomes, 2)
	assert.Equal(t, ErrEvictionBudgetExhausted, metrics.Outcomes[0].Err)
	assert.Equal(t, RuleStateSatisfied, metrics.Outcomes[1].State)
	assert.Equal(t, SeverityCritical, metrics.Severity)
}
