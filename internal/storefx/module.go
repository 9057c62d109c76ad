package storefx

import (
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(ElasticConnectionConfigProvider),
	fx.Provide(ElasticClient),
	fx.Provide(ElasticStore),
	fx.Invoke(PingElastic),
)
