package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock abstracts wall time and one-shot timers so timer-driven code can be
// exercised deterministically.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending AfterFunc call.
type Timer interface {
	Stop() bool
}

type systemClock struct{}

func New() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

var Module = fx.Module("clock",
	fx.Provide(New),
)
