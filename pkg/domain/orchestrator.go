package domain

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/yurykabanov/eslimiter/pkg/appcontext"
)

// Orchestrator enforces a set of limits one after another.
type Orchestrator struct {
	logger  logrus.FieldLogger
	evictor *Evictor
}

func NewOrchestrator(logger logrus.FieldLogger, evictor *Evictor) *Orchestrator {
	return &Orchestrator{
		logger:  logger,
		evictor: evictor,
	}
}

// Run validates all limits and then enforces them in configuration order.
//
// An invalid limit aborts the run before the store is contacted. A store
// failure aborts the remaining limits, since an outage most likely affects
// all of them. Rules that match nothing or hit their retention floor only
// escalate severity.
func (o *Orchestrator) Run(ctx context.Context, limits []LimitConfig, metrics *RunMetrics) error {
	logger := appcontext.LoggerFromContext(o.logger, ctx)

	rules, err := NewRetentionRules(limits)
	if err != nil {
		metrics.Raise(SeverityCritical)
		return err
	}

	if len(rules) == 0 {
		metrics.Raise(SeverityCritical)
		return configError("", "no limits configured")
	}

	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			metrics.Raise(SeverityUnknown)
			return errors.Wrap(err, "limiter run interrupted")
		}

		outcome := o.evictor.Enforce(ctx, rule, metrics)
		metrics.Fold(outcome)

		if outcome.Err != nil && IsStoreError(outcome.Err) {
			logger.WithError(outcome.Err).WithField("index_pattern", rule.IndexPattern).
				Error("Store failure, aborting remaining limits")
			return outcome.Err
		}
	}

	return nil
}
