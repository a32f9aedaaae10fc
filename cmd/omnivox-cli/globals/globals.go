package globals

import (
	"context"

	"omnivox-backend/internal/components/chrono"
	"omnivox-backend/internal/components/telemetry"
	"omnivox-backend/internal/config"
	"omnivox-backend/internal/portal"
)

type ctxKey struct{}

type Value struct {
	Config   config.Config
	Registry *portal.Registry
	Time     chrono.TimeAPI
	Tel      telemetry.API
	// RunId tags every log line of a single invocation.
	RunId    string
}

func (v *Value) Environment() portal.Environment {
	return portal.Environment{
		Browser: v.Config.BrowserOptions(),
		Time:    v.Time,
		Tel:     v.Tel,
	}
}

func Set(ctx context.Context, value *Value) context.Context {
	return context.WithValue(ctx, ctxKey{}, value)
}

func Get(ctx context.Context) *Value {
	return ctx.Value(ctxKey{}).(*Value)
}
