package domain

import (
	"context"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yurykabanov/eslimiter/pkg/appcontext"
)

// Run is the persisted summary of one limiter run.
type Run struct {
	Id             int64
	TraceId        string
	StartedAt      time.Time
	FinishedAt     time.Time
	Severity       Severity
	IndicesDeleted uint64
	BytesDeleted   uint64
	IndicesSkipped uint64
	Patterns       []string
	Error          string
	Deletions      []Deletion
}

type RunRepository interface {
	Create(context.Context, Run) (Run, error)
	FindRecent(ctx context.Context, limit int) ([]Run, error)
}

// Job is a single limiter run over the configured limits.
type Job struct {
	logger       logrus.FieldLogger
	limits       []LimitConfig
	orchestrator *Orchestrator
	repo         RunRepository
	now          func() time.Time
}

func NewJob(logger logrus.FieldLogger, limits []LimitConfig, orchestrator *Orchestrator, repo RunRepository) *Job {
	return &Job{
		logger:       logger,
		limits:       limits,
		orchestrator: orchestrator,
		repo:         repo,
		now:          time.Now,
	}
}

// Execute runs the limiter once. The returned metrics are always non-nil and
// carry the severity of the run, including failed runs.
func (j *Job) Execute(ctx context.Context) (*RunMetrics, error) {
	metrics := NewRunMetrics()

	traceId := newTraceId()
	ctx = appcontext.WithTraceId(ctx, traceId)
	logger := appcontext.LoggerFromContext(j.logger, ctx)

	startedAt := j.now()

	err := j.orchestrator.Run(ctx, j.limits, metrics)
	if err != nil {
		metrics.Raise(SeverityCritical)
		logger.WithError(err).Error("Limiter job failed")
	} else {
		logger.WithFields(logrus.Fields{
			"num_indices_deleted": metrics.IndicesDeleted,
			"num_indices_skipped": metrics.IndicesSkipped,
			"size_total":          humanize.Bytes(metrics.BytesDeleted),
			"index_pattern":       "[" + strings.Join(metrics.Patterns, ",") + "]",
			"severity":            metrics.Severity.String(),
			"action":              "exit",
			"reason":              "limiter job finished",
			"outcome":             outcomeSuccess,
		}).Infof("Limiter job finished. Deleted %d indices with a total size of %s",
			metrics.IndicesDeleted, humanize.Bytes(metrics.BytesDeleted))
	}

	j.record(ctx, traceId, startedAt, metrics, err)

	return metrics, err
}

func (j *Job) record(ctx context.Context, traceId string, startedAt time.Time, metrics *RunMetrics, runErr error) {
	if j.repo == nil {
		return
	}

	run := Run{
		TraceId:        traceId,
		StartedAt:      startedAt,
		FinishedAt:     j.now(),
		Severity:       metrics.Severity,
		IndicesDeleted: metrics.IndicesDeleted,
		BytesDeleted:   metrics.BytesDeleted,
		IndicesSkipped: metrics.IndicesSkipped,
		Patterns:       metrics.Patterns,
	}

	if runErr != nil {
		run.Error = runErr.Error()
	}

	for _, o := range metrics.Outcomes {
		run.Deletions = append(run.Deletions, o.Deleted...)
	}

	// a cancelled run still gets recorded
	if _, err := j.repo.Create(context.Background(), run); err != nil {
		appcontext.LoggerFromContext(j.logger, ctx).WithError(err).Error("Unable to record run")
	}
}

func newTraceId() string {
	// version 1 (time based); random if the clock sequence is unavailable
	id, err := uuid.NewUUID()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
