package ratelimit

import "go.uber.org/fx"

var Module = fx.Module("rate.limit",
	fx.Provide(
		fx.Annotate(NewRenderLimiter, fx.As(new(Limiter))),
	),
)
