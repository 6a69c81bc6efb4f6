package globals

import (
	"context"
	"webweg/cmd/webreg-cli/config"
	"webweg/internal/components/chrono"
	"webweg/lib/platforms/webreg"
	"webweg/lib/telemetry"
)

type keyType int

const key keyType = 0

type Value struct {
	Client    *webreg.Client
	Config    config.Config
	Clock     chrono.API
	Telemetry telemetry.API
}

func Set(ctx context.Context, value *Value) context.Context {
	return context.WithValue(ctx, key, value)
}

func Get(ctx context.Context) *Value {
	return ctx.Value(key).(*Value)
}
