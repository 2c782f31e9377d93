package pdf

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

type BreakerConfig struct {
	MaxFailures uint32
	OpenTimeout time.Duration
}

// BreakerEngine sends documents to primary until it fails MaxFailures times in
// a row, then to fallback until a half-open probe on primary succeeds.
type BreakerEngine struct {
	primary  Engine
	fallback Engine
	cb       *gobreaker.CircuitBreaker
	log      *zap.Logger
}

func NewBreakerEngine(primary, fallback Engine, cfg BreakerConfig, log *zap.Logger) *BreakerEngine {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 3
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("pdf.breaker")

	settings := gobreaker.Settings{
		Name:        "pdf-" + primary.Name(),
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			// A caller giving up says nothing about the engine.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("pdf engine breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &BreakerEngine{
		primary:  primary,
		fallback: fallback,
		cb:       gobreaker.NewCircuitBreaker(settings),
		log:      log,
	}
}

func (e *BreakerEngine) Name() string { return e.primary.Name() }

// State exposes the breaker state for health reporting.
func (e *BreakerEngine) State() gobreaker.State { return e.cb.State() }

// RenderWith also reports which engine produced the bytes.
func (e *BreakerEngine) RenderWith(ctx context.Context, doc Document) ([]byte, string, error) {
	out, err := e.cb.Execute(func() (interface{}, error) {
		return e.primary.Render(ctx, doc)
	})
	if err == nil {
		return out.([]byte), e.primary.Name(), nil
	}
	if e.fallback == nil || ctx.Err() != nil {
		return nil, e.primary.Name(), err
	}

	e.log.Warn("primary pdf engine unavailable, using fallback",
		zap.String("fallback", e.fallback.Name()),
		zap.Error(err),
	)
	buf, ferr := e.fallback.Render(ctx, doc)
	if ferr != nil {
		return nil, e.fallback.Name(), errors.Join(err, ferr)
	}
	return buf, e.fallback.Name(), nil
}

func (e *BreakerEngine) Render(ctx context.Context, doc Document) ([]byte, error) {
	buf, _, err := e.RenderWith(ctx, doc)
	return buf, err
}

func (e *BreakerEngine) Close(ctx context.Context) error {
	var errs []error
	if err := e.primary.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if e.fallback != nil {
		if err := e.fallback.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
