package domainfx

import (
	"context"

	"github.com/robfig/cron"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/yurykabanov/eslimiter/pkg/domain"
)

const (
	ConfigSchedule = "schedule"
)

type ScheduleConfig struct {
	Spec string
}

func ScheduleConfigProvider(v *viper.Viper) *ScheduleConfig {
	return &ScheduleConfig{
		Spec: v.GetString(ConfigSchedule),
	}
}

func NewCron() *cron.Cron {
	return cron.New()
}

func Evictor(logger *logrus.Logger, store domain.Store) *domain.Evictor {
	return domain.NewEvictor(logger, store)
}

func Orchestrator(logger *logrus.Logger, evictor *domain.Evictor) *domain.Orchestrator {
	return domain.NewOrchestrator(logger, evictor)
}

func Job(
	logger *logrus.Logger,
	limits []domain.LimitConfig,
	orchestrator *domain.Orchestrator,
	repository domain.RunRepository,
) *domain.Job {
	return domain.NewJob(logger, limits, orchestrator, repository)
}

func Scheduler(
	logger *logrus.Logger,
	config *ScheduleConfig,
	job *domain.Job,
	cron *cron.Cron,
) *domain.Scheduler {
	return domain.NewScheduler(logger, config.Spec, job, cron)
}

// RunScheduler starts periodic runs in daemon mode. Without a schedule the
// caller executes the job once.
func RunScheduler(lc fx.Lifecycle, config *ScheduleConfig, scheduler *domain.Scheduler) {
	if config.Spec == "" {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return scheduler.Start(context.Background())
		},
		OnStop: func(context.Context) error {
			scheduler.Stop()
			return nil
		},
	})
}
