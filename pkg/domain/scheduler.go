package domain

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type cron interface {
	AddFunc(spec string, cmd func()) error
	Start()
	Stop()
}

type runner interface {
	Execute(ctx context.Context) (*RunMetrics, error)
}

// Scheduler runs the limiter periodically. Ticks are queued with a capacity
// of one and handled by a single worker, so runs never overlap and a tick
// arriving while another one is pending is dropped.
type Scheduler struct {
	logger logrus.FieldLogger
	spec   string
	job    runner
	cron   cron
	ticks  chan time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(logger logrus.FieldLogger, spec string, job runner, cron cron) *Scheduler {
	return &Scheduler{
		logger: logger,
		spec:   spec,
		job:    job,
		cron:   cron,
		ticks:  make(chan time.Time, 1),
	}
}

// Start registers the cron spec and starts the worker. The worker stops when
// ctx is done or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	err := s.cron.AddFunc(s.spec, s.dispatch)
	if err != nil {
		return err
	}

	s.logger.WithField("spec", s.spec).Debug("Starting cron")
	s.cron.Start()

	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.work(ctx)

	return nil
}

// Stop stops the cron, cancels a run in progress and waits for the worker to
// return, so nothing touches the journal afterwards.
func (s *Scheduler) Stop() {
	s.cron.Stop()

	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) dispatch() {
	t := time.Now()

	select {
	case s.ticks <- t:
		s.logger.WithField("dispatched_at", t).Debug("Dispatched limiter run")
	default:
		s.logger.WithField("dispatched_at", t).Warn("Previous limiter run still pending, skipping")
	}
}

func (s *Scheduler) work(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.ticks:
			metrics, err := s.job.Execute(ctx)
			fields := logrus.Fields{
				"severity":        metrics.Severity.String(),
				"indices_deleted": metrics.IndicesDeleted,
				"indices_skipped": metrics.IndicesSkipped,
			}
			if err != nil {
				s.logger.WithError(err).WithFields(fields).Error("Scheduled limiter run failed")
				continue
			}
			s.logger.WithFields(fields).Info("Scheduled limiter run finished")
		}
	}
}
