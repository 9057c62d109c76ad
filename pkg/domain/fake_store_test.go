package domain

import (
	"context"
	"io/ioutil"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var baseTime = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

// fakeStore keeps indices in memory and matches patterns by prefix up to the
// first '*'.
type fakeStore struct {
	partitions []PartitionSummary

	listCalls   int
	deleteCalls int
	deleted     []string

	listErr       error
	deleteErr     error
	ignoreDeletes bool
	afterDelete   func(s *fakeStore)
}

func (s *fakeStore) ListPartitions(_ context.Context, pattern string) ([]PartitionSummary, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}

	prefix := strings.SplitN(pattern, "*", 2)[0]
	exact := !strings.Contains(pattern, "*")

	result := []PartitionSummary{}
	for _, p := range s.partitions {
		if (exact && p.Name == pattern) || (!exact && strings.HasPrefix(p.Name, prefix)) {
			result = append(result, p)
		}
	}
	return result, nil
}

func (s *fakeStore) DeletePartition(_ context.Context, name string) error {
	s.deleteCalls++
	if s.deleteErr != nil {
		return s.deleteErr
	}

	s.deleted = append(s.deleted, name)
	if s.afterDelete != nil {
		defer s.afterDelete(s)
	}
	if s.ignoreDeletes {
		return nil
	}

	for i, p := range s.partitions {
		if p.Name == name {
			s.partitions = append(s.partitions[:i], s.partitions[i+1:]...)
			break
		}
	}
	return nil
}

func (s *fakeStore) total(pattern string) (uint64, int) {
	ps, _ := s.ListPartitions(context.Background(), pattern)
	s.listCalls--

	var total uint64
	for _, p := range ps {
		total += p.SizeBytes
	}
	return total, len(ps)
}

// partitions builds indices named prefix-0, prefix-1, ... created one hour
// apart in that order.
func partitions(prefix string, sizes ...uint64) []PartitionSummary {
	result := make([]PartitionSummary, 0, len(sizes))
	for i, size := range sizes {
		result = append(result, PartitionSummary{
			Name:      prefix + "-" + string(rune('a'+i)),
			Status:    "open",
			SizeBytes: size,
			CreatedAt: baseTime.Add(time.Duration(i) * time.Hour),
		})
	}
	return result
}

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.Out = ioutil.Discard

	return logger
}

func intPtr(v int) *int {
	return &v
}

const mb = 1000 * 1000
