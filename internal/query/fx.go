package query

import "go.uber.org/fx"

var Module = fx.Module("query.engine",
	fx.Provide(NewEngine),
)
