package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/facture/internal/config"
	invoicedomain "github.com/smallbiznis/facture/internal/invoice/domain"
	invoicetemplatedomain "github.com/smallbiznis/facture/internal/invoicetemplate/domain"
	"github.com/smallbiznis/facture/internal/observability"
	obsmiddleware "github.com/smallbiznis/facture/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/facture/internal/observability/metrics"
	obstracing "github.com/smallbiznis/facture/internal/observability/tracing"
	"github.com/smallbiznis/facture/internal/ratelimit"
	"github.com/smallbiznis/facture/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *telemetry.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	if httpMetrics != nil {
		r.Use(httpMetrics.GinMiddleware())
	}
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	InvoiceSvc  invoicedomain.Service
	TemplateSvc invoicetemplatedomain.Service
	Limiter     ratelimit.Limiter   `optional:"true"`
	ObsMetrics  *obsmetrics.Metrics `optional:"true"`
	Log         *zap.Logger         `optional:"true"`
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	invoiceSvc  invoicedomain.Service
	templateSvc invoicetemplatedomain.Service
	limiter     ratelimit.Limiter
	obsMetrics  *obsmetrics.Metrics
	log         *zap.Logger
}

func NewServer(p ServerParams) *Server {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		invoiceSvc:  p.InvoiceSvc,
		templateSvc: p.TemplateSvc,
		limiter:     p.Limiter,
		obsMetrics:  p.ObsMetrics,
		log:         log.Named("http.server"),
	}

	svc.registerAPIRoutes()
	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/v1")

	invoices := api.Group("/invoices")
	invoices.Use(s.RenderRateLimit())
	invoices.POST("/render", s.RenderInvoice)
	invoices.POST("/render/batch", s.RenderInvoiceBatch)

	api.GET("/templates", s.ListInvoiceTemplates)
	api.GET("/templates/:type", s.GetInvoiceTemplate)
	api.GET("/templates/:type/preview", s.PreviewInvoiceTemplate)

	api.GET("/labels", s.ListLabels)
	api.GET("/labels/:key", s.GetLabel)
}
