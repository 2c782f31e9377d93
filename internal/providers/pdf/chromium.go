package pdf

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

type ChromiumConfig struct {
	ExecPath      string
	MaxConcurrent int64
	Timeout       time.Duration
}

// ChromiumEngine prints HTML with a shared headless browser. The browser is
// started on first use and every render gets its own tab. At most
// MaxConcurrent tabs are open at once.
type ChromiumEngine struct {
	cfg ChromiumConfig
	log *zap.Logger
	sem *semaphore.Weighted

	inFlight atomic.Int64

	mu            sync.Mutex
	closed        bool
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// Page is a leased browser tab. It must be released exactly once.
type Page struct {
	ctx    context.Context
	cancel context.CancelFunc
	engine *ChromiumEngine
	once   sync.Once
}

func NewChromiumEngine(cfg ChromiumConfig, log *zap.Logger) *ChromiumEngine {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ChromiumEngine{
		cfg: cfg,
		log: log.Named("pdf.chromium"),
		sem: semaphore.NewWeighted(cfg.MaxConcurrent),
	}
}

func (e *ChromiumEngine) Name() string { return EngineChromium }

// InFlight reports the number of leased tabs.
func (e *ChromiumEngine) InFlight() int64 { return e.inFlight.Load() }

// Acquire waits for a free slot, starts the browser if needed and opens a tab.
func (e *ChromiumEngine) Acquire(ctx context.Context) (*Page, error) {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("wait for pdf slot: %w", err)
	}

	browserCtx, err := e.browser()
	if err != nil {
		e.sem.Release(1)
		return nil, err
	}

	tabCtx, cancel := chromedp.NewContext(browserCtx)
	e.inFlight.Add(1)
	return &Page{ctx: tabCtx, cancel: cancel, engine: e}, nil
}

// Release closes the tab and frees its slot.
func (e *ChromiumEngine) Release(p *Page) {
	if p == nil {
		return
	}
	p.once.Do(func() {
		p.cancel()
		e.inFlight.Add(-1)
		e.sem.Release(1)
	})
}

func (e *ChromiumEngine) Render(ctx context.Context, doc Document) ([]byte, error) {
	p, err := e.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer e.Release(p)

	buf, err := p.PrintToPDF(ctx, doc.HTML, doc.Options, e.cfg.Timeout)
	if err != nil {
		// A dead browser is restarted on the next Acquire.
		e.resetIfDead()
		return nil, err
	}
	return buf, nil
}

// PrintToPDF loads html into the tab and prints it. Both ctx and timeout bound
// the call.
func (p *Page) PrintToPDF(ctx context.Context, html string, opts Options, timeout time.Duration) ([]byte, error) {
	runCtx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var buf []byte
	margin := opts.MarginIn()
	err := chromedp.Run(runCtx,
		chromedp.Navigate("data:text/html;charset=utf-8,"+url.PathEscape(html)),
		chromedp.ActionFunc(func(ctx context.Context) error {
			out, _, err := page.PrintToPDF().
				WithPaperWidth(opts.PaperWidthIn).
				WithPaperHeight(opts.PaperHeightIn).
				WithMarginTop(margin).
				WithMarginBottom(margin).
				WithMarginLeft(margin).
				WithMarginRight(margin).
				WithPrintBackground(opts.PrintBackground).
				WithPreferCSSPageSize(false).
				Do(ctx)
			if err == nil {
				buf = out
			}
			return err
		}),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("print to pdf: %w", ctx.Err())
		}
		return nil, fmt.Errorf("print to pdf: %w", err)
	}
	if len(buf) == 0 {
		return nil, ErrEmptyOutput
	}
	return buf, nil
}

func (e *ChromiumEngine) browser() (context.Context, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrEngineClosed
	}
	if e.browserCtx != nil && e.browserCtx.Err() == nil {
		return e.browserCtx, nil
	}
	e.shutdownLocked()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	if e.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(e.cfg.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	// Run with no actions starts the browser process.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	e.allocCancel = allocCancel
	e.browserCtx = browserCtx
	e.browserCancel = browserCancel
	e.log.Info("headless browser started", zap.Int64("max_concurrent", e.cfg.MaxConcurrent))
	return browserCtx, nil
}

func (e *ChromiumEngine) resetIfDead() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.browserCtx != nil && e.browserCtx.Err() != nil {
		e.log.Warn("headless browser exited, it will be restarted")
		e.shutdownLocked()
	}
}

func (e *ChromiumEngine) shutdownLocked() {
	if e.browserCancel != nil {
		e.browserCancel()
	}
	if e.allocCancel != nil {
		e.allocCancel()
	}
	e.browserCtx = nil
	e.browserCancel = nil
	e.allocCancel = nil
}

// Close stops the browser. Later renders fail with ErrEngineClosed.
func (e *ChromiumEngine) Close(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true

	var err error
	if e.browserCtx != nil && e.browserCtx.Err() == nil {
		err = chromedp.Cancel(e.browserCtx)
	}
	e.shutdownLocked()
	if err != nil {
		return fmt.Errorf("close browser: %w", err)
	}
	e.log.Info("headless browser closed")
	return nil
}
