package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/facture/internal/clock"
	"github.com/smallbiznis/facture/internal/config"
	"github.com/smallbiznis/facture/internal/invoice/adapter"
	invoicedomain "github.com/smallbiznis/facture/internal/invoice/domain"
	"github.com/smallbiznis/facture/internal/invoice/render"
	"github.com/smallbiznis/facture/internal/invoice/standardize"
	templatedomain "github.com/smallbiznis/facture/internal/invoicetemplate/domain"
	obslogger "github.com/smallbiznis/facture/internal/observability/logger"
	"github.com/smallbiznis/facture/internal/observability/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	messageValidation  = "Les données de la facture sont invalides."
	messageUnsupported = "Format non supporté : %s"
	messageRender      = "La génération du document a échoué."
)

type ServiceParam struct {
	fx.In

	Standardizer  *standardize.Standardizer
	Adapter       *adapter.Adapter
	Config        config.Config
	Clock         clock.Clock
	GenID         *snowflake.Node
	Log           *zap.Logger
	Metrics       *metrics.Metrics       `optional:"true"`
	RenderMetrics *metrics.RenderMetrics `optional:"true"`
}

type Service struct {
	standardizer *standardize.Standardizer
	adapter      *adapter.Adapter
	clock        clock.Clock
	genID        *snowflake.Node
	log          *zap.Logger
	tracer       trace.Tracer

	safeFallback  bool
	metrics       *metrics.Metrics
	renderMetrics *metrics.RenderMetrics
}

func NewService(p ServiceParam) invoicedomain.Service {
	std := p.Standardizer
	if std == nil {
		std = standardize.New(nil)
	}
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		standardizer:  std,
		adapter:       p.Adapter,
		clock:         p.Clock,
		genID:         p.GenID,
		log:           log.Named("invoice.service"),
		tracer:        otel.Tracer("facture/invoice"),
		safeFallback:  p.Config.Render.SafeFallback,
		metrics:       p.Metrics,
		renderMetrics: p.RenderMetrics,
	}
}

func (s *Service) Render(ctx context.Context, req invoicedomain.RenderRequest) invoicedomain.Envelope {
	ctx, span := s.tracer.Start(ctx, "invoice.render")
	defer span.End()

	variant := templatedomain.ResolveVariant(req.TemplateType)
	format, err := invoicedomain.ParseFormat(req.Format)
	if err != nil {
		span.SetStatus(codes.Error, "unsupported format")
		s.recordFailure(ctx, unknownFormatLabel, invoicedomain.ErrUnsupportedFormat)
		return unsupportedEnvelope(req.Format, err)
	}
	span.SetAttributes(
		attribute.String("format", string(format)),
		attribute.String("template_type", variant.String()),
	)

	data, fallback, err := s.standardize(ctx, string(format), req.InvoiceData, req.UserData, req.ClientData)
	if err != nil {
		span.SetStatus(codes.Error, "validation failed")
		s.recordFailure(ctx, string(format), invoicedomain.ErrValidation)
		return validationEnvelope(err)
	}

	env := s.renderFormat(ctx, format, variant, data, fallback)
	if !env.Success {
		span.SetStatus(codes.Error, env.Code)
	}
	return env
}

func (s *Service) RenderBatch(ctx context.Context, req invoicedomain.BatchRequest) invoicedomain.BatchResult {
	ctx, span := s.tracer.Start(ctx, "invoice.render_batch")
	defer span.End()

	requested := dedupeFormats(req.Formats)
	result := invoicedomain.BatchResult{
		Results: make(map[string]invoicedomain.Envelope, len(requested)),
		Errors:  []invoicedomain.BatchError{},
		Summary: invoicedomain.BatchSummary{Total: len(requested)},
	}
	if len(requested) == 0 {
		return result
	}

	variant := templatedomain.ResolveVariant(req.TemplateType)
	data, fallback, stdErr := s.standardize(ctx, "batch", req.InvoiceData, req.UserData, req.ClientData)

	var mu sync.Mutex
	collect := func(name string, env invoicedomain.Envelope) {
		mu.Lock()
		defer mu.Unlock()
		result.Results[name] = env
		if env.Success {
			result.Summary.Successful++
			return
		}
		result.Summary.Failed++
		result.Errors = append(result.Errors, invoicedomain.BatchError{Format: name, Error: env.Error})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range requested {
		g.Go(func() error {
			format, err := invoicedomain.ParseFormat(name)
			switch {
			case err != nil:
				s.recordFailure(gctx, unknownFormatLabel, invoicedomain.ErrUnsupportedFormat)
				collect(name, unsupportedEnvelope(name, err))
			case stdErr != nil:
				s.recordFailure(gctx, name, invoicedomain.ErrValidation)
				collect(name, validationEnvelope(stdErr))
			default:
				collect(name, s.renderFormat(gctx, format, variant, data, fallback))
			}
			return nil
		})
	}
	_ = g.Wait()

	sortBatchErrors(result.Errors, requested)
	result.Success = result.Summary.Successful > 0 && result.Summary.Failed == 0
	span.SetAttributes(
		attribute.Int("batch.total", result.Summary.Total),
		attribute.Int("batch.failed", result.Summary.Failed),
	)
	return result
}

func (s *Service) Preview(ctx context.Context, templateType, format string) invoicedomain.Envelope {
	ctx, span := s.tracer.Start(ctx, "invoice.preview")
	defer span.End()

	variant := templatedomain.ResolveVariant(templateType)
	data, err := s.standardizer.Standardize(SampleInvoice())
	if err != nil {
		s.log.Error("sample invoice rejected", zap.Error(err))
		return renderFailedEnvelope(err)
	}

	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" || invoicedomain.OutputFormat(format) == invoicedomain.FormatHTML {
		return s.guard(ctx, string(invoicedomain.FormatHTML), func() invoicedomain.Envelope {
			html, generatedAt, err := s.adapter.HTML(ctx, data, variant, render.ProfileScreen)
			if err != nil {
				return renderFailedEnvelope(err)
			}
			return invoicedomain.Envelope{
				Success: true,
				Data:    invoicedomain.PreviewData{HTML: html},
				Metadata: &invoicedomain.Metadata{
					TemplateType: variant.String(),
					Format:       string(invoicedomain.FormatHTML),
					GeneratedAt:  generatedAt,
				},
			}
		})
	}

	parsed, err := invoicedomain.ParseFormat(format)
	if err != nil {
		return unsupportedEnvelope(format, err)
	}
	return s.renderFormat(ctx, parsed, variant, data, false)
}

// standardize runs the strict standardizer and, when enabled, substitutes the
// permissive one on validation failure.
func (s *Service) standardize(ctx context.Context, format string, invoice, user, client invoicedomain.RawInput) (invoicedomain.CanonicalData, bool, error) {
	_, span := s.tracer.Start(ctx, "invoice.standardize")
	defer span.End()

	data, err := s.standardizer.Standardize(invoice, user, client)
	if err == nil {
		return data, false, nil
	}
	if !s.safeFallback || !errors.Is(err, invoicedomain.ErrValidation) {
		span.SetStatus(codes.Error, "validation failed")
		return invoicedomain.CanonicalData{}, false, err
	}

	obslogger.WithContext(ctx, s.log).Warn("invoice data rejected, rendering placeholder data",
		zap.Error(err),
	)
	if s.metrics != nil {
		s.metrics.RecordFallbackUsed(ctx, format)
	}
	span.SetAttributes(attribute.Bool("fallback", true))
	return s.standardizer.SafeStandardize(invoice, user, client, s.now()), true, nil
}

func (s *Service) renderFormat(ctx context.Context, format invoicedomain.OutputFormat, variant templatedomain.Variant, data invoicedomain.CanonicalData, fallback bool) invoicedomain.Envelope {
	ctx, span := s.tracer.Start(ctx, "invoice.render."+string(format))
	defer span.End()

	start := time.Now()
	documentID := s.documentID()
	log := obslogger.WithDocument(obslogger.WithContext(ctx, s.log), documentID, string(format))

	env := s.guard(ctx, string(format), func() invoicedomain.Envelope {
		switch format {
		case invoicedomain.FormatEmail:
			res, err := s.adapter.Email(ctx, data, variant)
			if err != nil {
				return renderFailedEnvelope(err)
			}
			return invoicedomain.Envelope{
				Success: true,
				Data:    invoicedomain.EmailData{Subject: res.Subject, HTML: res.HTML, Text: res.Text},
				Metadata: &invoicedomain.Metadata{
					TemplateType: variant.String(),
					Format:       string(format),
					GeneratedAt:  res.GeneratedAt,
					DocumentID:   documentID,
					Fallback:     fallback,
				},
			}
		case invoicedomain.FormatPDF:
			res, err := s.adapter.PDF(ctx, data, variant)
			if err != nil {
				return renderFailedEnvelope(err)
			}
			return invoicedomain.Envelope{
				Success: true,
				Data: invoicedomain.PDFData{
					PDFBuffer: res.Buffer,
					HTML:      res.HTML,
					Metadata: invoicedomain.PDFMetadata{
						Format:       adapter.PrintFormat,
						TemplateType: variant.String(),
						CreatedAt:    res.GeneratedAt,
						DocumentID:   documentID,
						Engine:       res.Engine,
						FileName:     res.FileName,
						Fallback:     fallback,
					},
				},
			}
		case invoicedomain.FormatPrint:
			res, err := s.adapter.Print(ctx, data, variant)
			if err != nil {
				return renderFailedEnvelope(err)
			}
			return invoicedomain.Envelope{
				Success: true,
				Data: invoicedomain.PrintData{
					HTML:        res.HTML,
					Format:      res.Format,
					Orientation: res.Orientation,
					Styles:      res.Styles,
					Metadata: invoicedomain.Metadata{
						TemplateType: variant.String(),
						Format:       string(format),
						GeneratedAt:  res.GeneratedAt,
						DocumentID:   documentID,
						Fallback:     fallback,
					},
				},
			}
		default:
			return unsupportedEnvelope(string(format), &invoicedomain.UnsupportedFormatError{Format: string(format)})
		}
	})

	elapsed := time.Since(start)
	if !env.Success {
		log.Error("invoice render failed", zap.String("error", env.Error), zap.String("message", env.Message))
		span.SetStatus(codes.Error, env.Code)
		s.renderMetrics.ObserveRender(string(format), invoicedomain.ErrRenderFailed, elapsed)
		s.recordFailure(ctx, string(format), invoicedomain.ErrRenderFailed)
		return env
	}

	s.renderMetrics.ObserveRender(string(format), nil, elapsed)
	if s.metrics != nil {
		s.metrics.RecordDocumentRendered(ctx, string(format), variant.String(), engineOf(env))
	}
	log.Info("invoice rendered",
		zap.String("template_type", variant.String()),
		zap.Bool("fallback", fallback),
		zap.Duration("elapsed", elapsed),
	)
	return env
}

// guard turns a panic inside fn into a failure envelope.
func (s *Service) guard(ctx context.Context, format string, fn func() invoicedomain.Envelope) (env invoicedomain.Envelope) {
	defer func() {
		if r := recover(); r != nil {
			obslogger.WithContext(ctx, s.log).Error("panic while rendering invoice",
				zap.String("format", format),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			env = renderFailedEnvelope(fmt.Errorf("panic: %v", r))
		}
	}()
	return fn()
}

// unknownFormatLabel stands in for caller-supplied format names that did not
// parse, keeping the metric label set closed.
const unknownFormatLabel = "unknown"

func (s *Service) recordFailure(ctx context.Context, format string, reason error) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordRenderFailure(ctx, format, reason.Error())
}

func (s *Service) documentID() string {
	if s.genID == nil {
		return ""
	}
	return s.genID.Generate().String()
}

func (s *Service) now() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock.Now()
}

func engineOf(env invoicedomain.Envelope) string {
	if data, ok := env.Data.(invoicedomain.PDFData); ok {
		return data.Metadata.Engine
	}
	return ""
}
