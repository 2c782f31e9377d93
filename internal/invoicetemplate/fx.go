package invoicetemplate

import (
	"github.com/smallbiznis/facture/internal/invoicetemplate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoicetemplate.service",
	fx.Provide(service.NewService),
)
