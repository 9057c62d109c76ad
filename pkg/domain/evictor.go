package domain

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/yurykabanov/eslimiter/pkg/appcontext"
)

const (
	actionNoop   = "noop"
	actionSkip   = "skip"
	actionDelete = "delete"

	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// Evictor deletes the oldest indices of a rule until the rule's size cap is
// met or the retention floor is reached.
type Evictor struct {
	logger     logrus.FieldLogger
	store      Store
	aggregator *Aggregator
	now        func() time.Time
}

func NewEvictor(logger logrus.FieldLogger, store Store) *Evictor {
	return &Evictor{
		logger:     logger,
		store:      store,
		aggregator: NewAggregator(store),
		now:        time.Now,
	}
}

// Enforce evaluates a rule and evicts indices as needed. Counters and
// severity of metrics are updated as the evaluation progresses; the returned
// outcome is meant to be folded into the same metrics by the caller.
//
// The store is queried again after every delete; totals are never derived
// locally.
func (e *Evictor) Enforce(ctx context.Context, rule RetentionRule, metrics *RunMetrics) RuleOutcome {
	ctx = appcontext.WithIndexPattern(ctx, rule.IndexPattern)
	logger := appcontext.LoggerFromContext(e.logger, ctx)

	outcome := RuleOutcome{
		Pattern:  rule.IndexPattern,
		MaxBytes: rule.MaxBytes,
		Severity: SeverityOK,
	}

	raise := func(s Severity) {
		outcome.Severity = outcome.Severity.Max(s)
		metrics.Raise(s)
	}

	fail := func(reason string, err error) RuleOutcome {
		outcome.State = RuleStateFailed
		outcome.Reason = reason
		outcome.Err = err
		raise(SeverityCritical)
		return outcome
	}

	maxSteps := -1
	lastDeleted := ""

	for step := 0; ; step++ {
		logger.Debug("Query indices matching pattern")

		summaries, total, err := e.aggregator.Summarize(ctx, rule.IndexPattern)
		if err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"action":  actionNoop,
				"reason":  "query error",
				"outcome": outcomeFailure,
			}).Error("Unable to query indices")

			return fail("query error", err)
		}

		outcome.TotalBytes = total
		outcome.Remaining = len(summaries)

		if len(summaries) == 0 {
			logger.WithFields(logrus.Fields{
				"action":  actionNoop,
				"reason":  "no matching indices",
				"outcome": outcomeFailure,
			}).Error("No indices found matching pattern")

			return fail("no matching indices", ErrNoMatch)
		}

		if maxSteps < 0 {
			maxSteps = len(summaries) - int(rule.MinRetainedCount)
		}

		sizeFields := logrus.Fields{
			"size_total":    humanize.Bytes(total),
			"size_max":      humanize.Bytes(rule.MaxBytes),
			"bytes_total":   total,
			"bytes_max":     rule.MaxBytes,
			"indices_count": len(summaries),
			"indices_min":   rule.MinRetainedCount,
		}

		logger.WithFields(sizeFields).Debug("Indices found matching pattern")

		if total <= rule.MaxBytes {
			logger.WithFields(sizeFields).WithFields(logrus.Fields{
				"action":  actionSkip,
				"reason":  "below limit",
				"outcome": outcomeSuccess,
			}).Info("Total size is below limit")

			outcome.State = RuleStateSatisfied
			outcome.Reason = "below limit"
			return outcome
		}

		oldest := summaries[0]

		if len(summaries) <= int(rule.MinRetainedCount) {
			logger.WithFields(sizeFields).WithFields(logrus.Fields{
				"index_name": oldest.Name,
				"action":     actionSkip,
				"reason":     "min indices reached",
				"outcome":    outcomeFailure,
			}).Error("Index not deleted")

			metrics.AddSkipped(1)
			outcome.Skipped++
			outcome.State = RuleStateSkipped
			outcome.Reason = "min indices reached"
			outcome.Err = ErrRetentionFloorReached
			raise(SeverityCritical)
			return outcome
		}

		if oldest.Name == lastDeleted {
			logger.WithFields(sizeFields).WithFields(logrus.Fields{
				"index_name": oldest.Name,
				"action":     actionNoop,
				"reason":     "eviction stalled",
				"outcome":    outcomeFailure,
			}).Error("Deleted index is still reported by the store")

			return fail("eviction stalled", &StoreError{Op: "delete", Pattern: rule.IndexPattern, Index: oldest.Name, Err: ErrEvictionStalled})
		}

		// Indices created while evicting (e.g. rollover) can outpace deletes.
		if step >= maxSteps {
			logger.WithFields(sizeFields).WithFields(logrus.Fields{
				"index_name": oldest.Name,
				"action":     actionNoop,
				"reason":     "eviction budget exhausted",
				"outcome":    outcomeFailure,
				"steps":      step,
			}).Error("Eviction step budget exhausted before reaching the limit")

			return fail("eviction budget exhausted", ErrEvictionBudgetExhausted)
		}

		logger.WithFields(sizeFields).Debug("Total size is bigger than max size, action required")

		if err := e.store.DeletePartition(ctx, oldest.Name); err != nil {
			storeErr := &StoreError{Op: "delete", Pattern: rule.IndexPattern, Index: oldest.Name, Err: err}

			logger.WithError(err).WithFields(logrus.Fields{
				"index_name": oldest.Name,
				"action":     actionDelete,
				"reason":     "delete error",
				"outcome":    outcomeFailure,
			}).Error("Delete index failed")

			return fail("delete error", storeErr)
		}

		metrics.AddDeleted(1, oldest.SizeBytes)
		outcome.Deleted = append(outcome.Deleted, Deletion{
			Pattern:   rule.IndexPattern,
			Index:     oldest.Name,
			SizeBytes: oldest.SizeBytes,
			CreatedAt: oldest.CreatedAt,
			DeletedAt: e.now(),
		})
		raise(SeverityWarning)
		lastDeleted = oldest.Name

		logger.WithFields(logrus.Fields{
			"index_name": oldest.Name,
			"index_size": humanize.Bytes(oldest.SizeBytes),
			"action":     actionDelete,
			"reason":     "limit reached",
			"outcome":    outcomeSuccess,
		}).Warn("Index deleted")
	}
}
