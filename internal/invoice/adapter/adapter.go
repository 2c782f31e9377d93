// Package adapter packages a canonical invoice for a delivery channel.
package adapter

import (
	"github.com/smallbiznis/facture/internal/cache"
	"github.com/smallbiznis/facture/internal/clock"
	"github.com/smallbiznis/facture/internal/config"
	"github.com/smallbiznis/facture/internal/invoice/render"
	"github.com/smallbiznis/facture/internal/observability/metrics"
	"github.com/smallbiznis/facture/internal/providers/pdf"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Renderer  render.Renderer
	Engine    pdf.Engine
	Rendering *config.RenderingConfigHolder
	Clock     clock.Clock
	Log       *zap.Logger
	Cache     cache.RenderCache      `optional:"true"`
	Metrics   *metrics.RenderMetrics `optional:"true"`
}

// Adapter turns canonical data into email, print and PDF payloads.
type Adapter struct {
	renderer  render.Renderer
	engine    pdf.Engine
	rendering *config.RenderingConfigHolder
	clock     clock.Clock
	cache     cache.RenderCache
	metrics   *metrics.RenderMetrics
	log       *zap.Logger
}

func New(p Params) *Adapter {
	rendering := p.Rendering
	if rendering == nil {
		rendering = config.NewStaticRenderingConfigHolder(config.DefaultRenderingConfig())
	}
	renderCache := p.Cache
	if renderCache == nil {
		renderCache = cache.NopCache{}
	}
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Adapter{
		renderer:  p.Renderer,
		engine:    p.Engine,
		rendering: rendering,
		clock:     clk,
		cache:     renderCache,
		metrics:   p.Metrics,
		log:       log.Named("invoice.adapter"),
	}
}

var Module = fx.Module("invoice.adapter",
	fx.Provide(New),
)
