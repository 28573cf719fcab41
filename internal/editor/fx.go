package editor

import "go.uber.org/fx"

var Module = fx.Module("editor.service",
	fx.Provide(New),
)
