package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"github.com/smallbiznis/facture/internal/cache"
	"github.com/smallbiznis/facture/internal/invoice/domain"
	"github.com/smallbiznis/facture/internal/invoice/render"
	templatedomain "github.com/smallbiznis/facture/internal/invoicetemplate/domain"
	"github.com/smallbiznis/facture/internal/observability/metrics"
	"github.com/smallbiznis/facture/internal/providers/pdf"
	"go.uber.org/zap"
)

type PDFResult struct {
	Buffer      []byte
	HTML        string
	Engine      string
	FileName    string
	Cached      bool
	GeneratedAt time.Time
}

// engineReporter is implemented by engines that may hand the work to another engine.
type engineReporter interface {
	RenderWith(ctx context.Context, doc pdf.Document) ([]byte, string, error)
}

// PDF renders the print document and prints it to A4.
func (a *Adapter) PDF(ctx context.Context, data domain.CanonicalData, variant templatedomain.Variant) (PDFResult, error) {
	if err := ctx.Err(); err != nil {
		return PDFResult{}, err
	}
	if a.engine == nil {
		return PDFResult{}, domain.ErrRendererNotConfigured
	}

	generatedAt := a.clock.Now()
	html, err := a.renderHTML(data, variant, render.ProfilePrint, generatedAt)
	if err != nil {
		return PDFResult{}, err
	}
	result := PDFResult{
		HTML:        html,
		Engine:      a.engine.Name(),
		FileName:    FileName(data.Invoice.Number),
		GeneratedAt: generatedAt,
	}

	cfg := a.rendering.Get()
	key, keyErr := cache.Key(data, variant.String(), a.engine.Name(), cfg.Style.PrimaryColor, cfg.Style.FontFamily, cfg.Footer.Notes)
	if keyErr == nil {
		if buf, ok := a.lookup(ctx, key); ok {
			result.Buffer = buf
			result.Cached = true
			return result, nil
		}
	}

	doc := pdf.Document{HTML: html, Data: data, Variant: variant, Options: pdf.A4()}
	var buf []byte
	if reporter, ok := a.engine.(engineReporter); ok {
		buf, result.Engine, err = reporter.RenderWith(ctx, doc)
	} else {
		buf, err = a.engine.Render(ctx, doc)
	}
	a.metrics.ObservePDF(result.Engine, err)
	if err != nil {
		return PDFResult{}, fmt.Errorf("%w: %w", domain.ErrRenderFailed, err)
	}
	if len(buf) == 0 {
		return PDFResult{}, fmt.Errorf("%w: %w", domain.ErrRenderFailed, pdf.ErrEmptyOutput)
	}
	result.Buffer = buf

	if keyErr == nil {
		if err := a.cache.Set(ctx, key, buf); err != nil {
			a.log.Warn("pdf cache store failed", zap.Error(err))
		}
	}
	return result, nil
}

func (a *Adapter) lookup(ctx context.Context, key string) ([]byte, bool) {
	buf, ok, err := a.cache.Get(ctx, key)
	switch {
	case err != nil:
		a.metrics.ObserveCache(metrics.CacheErr)
		a.log.Warn("pdf cache lookup failed", zap.Error(err))
		return nil, false
	case ok:
		a.metrics.ObserveCache(metrics.CacheHit)
		return buf, true
	default:
		a.metrics.ObserveCache(metrics.CacheMiss)
		return nil, false
	}
}

// FileName is the download name of an invoice, e.g. facture-f-2024-0001.pdf.
func FileName(number string) string {
	name := slug.Make(number)
	if name == "" {
		return "facture.pdf"
	}
	return "facture-" + name + ".pdf"
}
