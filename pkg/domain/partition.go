package domain

import (
	"context"
	"time"
)

// PartitionSummary is a snapshot of one index as reported by the store.
type PartitionSummary struct {
	Name      string
	UUID      string
	Status    string
	SizeBytes uint64
	DocCount  uint64
	CreatedAt time.Time
}

// Store is the document store holding the indices.
type Store interface {
	ListPartitions(ctx context.Context, pattern string) ([]PartitionSummary, error)
	DeletePartition(ctx context.Context, name string) error
}
