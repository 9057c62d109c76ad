package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/fx"

	"github.com/yurykabanov/eslimiter/internal/configfx"
	"github.com/yurykabanov/eslimiter/internal/domainfx"
	"github.com/yurykabanov/eslimiter/internal/loggerfx"
	"github.com/yurykabanov/eslimiter/internal/metricsfx"
	"github.com/yurykabanov/eslimiter/internal/sqlfx"
	"github.com/yurykabanov/eslimiter/internal/storefx"
	"github.com/yurykabanov/eslimiter/pkg/domain"
	"github.com/yurykabanov/eslimiter/pkg/report"
)

const (
	startTimeout = 15 * time.Second
	stopTimeout  = 15 * time.Second
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := loggerfx.Logger()

	var job *domain.Job
	var schedule *domainfx.ScheduleConfig

	app := fx.New(
		fx.StartTimeout(startTimeout),
		fx.StopTimeout(stopTimeout),

		fx.Logger(loggerfx.FxPrinter{Logger: logger}),

		loggerfx.Module,
		configfx.Module,
		storefx.Module,
		sqlfx.Module,
		metricsfx.Module,
		domainfx.Module,

		fx.Populate(&job, &schedule),
	)

	if err := app.Err(); err != nil {
		return report.Exit(os.Stdout, domain.SeverityCritical, err.Error())
	}

	// daemon mode: runs are triggered by the schedule until a signal arrives
	if schedule.Spec != "" {
		app.Run()
		return 0
	}

	startCtx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()

	if err := app.Start(startCtx); err != nil {
		return report.Exit(os.Stdout, domain.SeverityCritical, err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	metrics, runErr := job.Execute(ctx)
	stop()

	stopCtx, cancelStop := context.WithTimeout(context.Background(), stopTimeout)
	defer cancelStop()

	if err := app.Stop(stopCtx); err != nil {
		logger.WithError(err).Error("Unable to stop gracefully")
	}

	return report.Result(os.Stdout, metrics, runErr)
}
