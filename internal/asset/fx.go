package asset

import "go.uber.org/fx"

var Module = fx.Module("asset.manager",
	fx.Provide(New),
)
