package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/facture/internal/cache"
	"github.com/smallbiznis/facture/internal/clock"
	"github.com/smallbiznis/facture/internal/config"
	"github.com/smallbiznis/facture/internal/invoice"
	"github.com/smallbiznis/facture/internal/invoicetemplate"
	"github.com/smallbiznis/facture/internal/observability"
	"github.com/smallbiznis/facture/internal/providers/pdf"
	"github.com/smallbiznis/facture/internal/ratelimit"
	"github.com/smallbiznis/facture/internal/server"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Provide(RegisterSnowflake),
		clock.Module,
		cache.Module,
		ratelimit.Module,
		pdf.Module,

		// Rendering
		invoicetemplate.Module,
		invoice.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.NodeID)
}
