package service

import (
	"context"
	"strings"

	templatedomain "github.com/smallbiznis/facture/internal/invoicetemplate/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log *zap.Logger `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	catalog map[templatedomain.Variant]templatedomain.Descriptor
}

func NewService(p Params) templatedomain.Service {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		log:     log.Named("invoicetemplate.service"),
		catalog: defaultCatalog(),
	}
}

func (s *Service) List(ctx context.Context) []templatedomain.Descriptor {
	_ = ctx
	resp := make([]templatedomain.Descriptor, 0, len(templatedomain.Variants))
	for _, v := range templatedomain.Variants {
		resp = append(resp, s.catalog[v])
	}
	return resp
}

func (s *Service) Get(ctx context.Context, key string) (*templatedomain.Descriptor, error) {
	_ = ctx
	if strings.TrimSpace(key) == "" {
		return nil, templatedomain.ErrInvalidKey
	}
	v, ok := templatedomain.ParseVariant(key)
	if !ok {
		s.log.Debug("unknown template key", zap.String("key", key))
		return nil, templatedomain.ErrNotFound
	}
	item := s.catalog[v]
	return &item, nil
}

func defaultCatalog() map[templatedomain.Variant]templatedomain.Descriptor {
	entries := []templatedomain.Descriptor{
		{
			Key:         templatedomain.VariantFrenchStandard,
			Name:        "Facture standard",
			Description: "Facture française avec TVA ventilée par taux.",
		},
		{
			Key:         templatedomain.VariantTVAExempt,
			Name:        "Facture exonérée de TVA",
			Description: "Franchise en base de TVA, art. 293 B du CGI.",
		},
		{
			Key:         templatedomain.VariantSelfLiquidation,
			Name:        "Facture en autoliquidation",
			Description: "TVA due par le preneur, art. 283-2 du CGI.",
		},
	}
	out := make(map[templatedomain.Variant]templatedomain.Descriptor, len(entries))
	for _, e := range entries {
		e.Regime = e.Key.Regime()
		e.IsDefault = e.Key == templatedomain.DefaultVariant
		out[e.Key] = e
	}
	return out
}
