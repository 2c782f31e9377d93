package invoice

import (
	"github.com/smallbiznis/facture/internal/invoice/adapter"
	"github.com/smallbiznis/facture/internal/invoice/render"
	"github.com/smallbiznis/facture/internal/invoice/service"
	"github.com/smallbiznis/facture/internal/invoice/standardize"
	"github.com/smallbiznis/facture/internal/tax"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	tax.Module,
	adapter.Module,
	fx.Provide(standardize.New),
	fx.Provide(render.NewRenderer),
	fx.Provide(service.NewService),
)
