package pdf

import (
	"time"

	"github.com/smallbiznis/facture/internal/config"
	"github.com/smallbiznis/facture/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Config
	Log       *zap.Logger
	Metrics   *metrics.RenderMetrics `optional:"true"`
}

// NewEngine builds the configured engine. Chromium is always wrapped in a
// breaker that falls back to maroto.
func NewEngine(p Params) Engine {
	native := NewMarotoEngine()
	var engine Engine = native

	if p.Config.PDF.Engine == config.PDFEngineChromium {
		chromium := NewChromiumEngine(ChromiumConfig{
			ExecPath:      p.Config.PDF.ChromiumPath,
			MaxConcurrent: p.Config.PDF.MaxConcurrent,
			Timeout:       time.Duration(p.Config.PDF.TimeoutSeconds) * time.Second,
		}, p.Log)
		if p.Metrics != nil {
			p.Metrics.ObservePDFInFlight(func() float64 { return float64(chromium.InFlight()) })
		}
		engine = NewBreakerEngine(chromium, native, BreakerConfig{
			MaxFailures: p.Config.PDF.BreakerMaxFailures,
			OpenTimeout: time.Duration(p.Config.PDF.BreakerOpenSeconds) * time.Second,
		}, p.Log)
	}

	p.Lifecycle.Append(fx.Hook{OnStop: engine.Close})
	p.Log.Info("pdf engine configured", zap.String("engine", engine.Name()))
	return engine
}

var Module = fx.Module("pdf",
	fx.Provide(NewEngine),
)
