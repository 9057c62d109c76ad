package domain

import (
	"context"
	"sort"
)

// Aggregator queries the store for the indices of one pattern. It keeps no
// state between calls, so every call observes the current store contents.
type Aggregator struct {
	store Store
}

func NewAggregator(store Store) *Aggregator {
	return &Aggregator{store: store}
}

// Summarize returns the matching indices oldest first together with their
// total size.
func (a *Aggregator) Summarize(ctx context.Context, pattern string) ([]PartitionSummary, uint64, error) {
	partitions, err := a.store.ListPartitions(ctx, pattern)
	if err != nil {
		return nil, 0, &StoreError{Op: "list", Pattern: pattern, Err: err}
	}

	sorted := make([]PartitionSummary, len(partitions))
	copy(sorted, partitions)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	var total uint64
	for _, p := range sorted {
		total += p.SizeBytes
	}

	return sorted, total, nil
}
