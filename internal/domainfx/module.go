package domainfx

import (
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(LoadLimits),
	fx.Provide(ScheduleConfigProvider),
	fx.Provide(NewCron),
	fx.Provide(Evictor),
	fx.Provide(Orchestrator),
	fx.Provide(Job),
	fx.Provide(Scheduler),
	fx.Invoke(RunScheduler),
)
