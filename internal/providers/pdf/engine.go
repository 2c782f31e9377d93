// Package pdf turns rendered invoices into A4 PDF documents.
package pdf

import (
	"context"
	"errors"

	"github.com/smallbiznis/facture/internal/invoice/domain"
	templatedomain "github.com/smallbiznis/facture/internal/invoicetemplate/domain"
)

var (
	ErrEngineClosed = errors.New("pdf_engine_closed")
	ErrEmptyOutput  = errors.New("pdf_empty_output")
)

const (
	EngineChromium = "chromium"
	EngineMaroto   = "maroto"
)

// Options describes the printed page. Sizes are in inches, margins in millimetres.
type Options struct {
	PaperWidthIn    float64
	PaperHeightIn   float64
	MarginMM        float64
	PrintBackground bool
}

// A4 is portrait A4 with 20mm margins and backgrounds printed.
func A4() Options {
	return Options{
		PaperWidthIn:    8.27,
		PaperHeightIn:   11.69,
		MarginMM:        20,
		PrintBackground: true,
	}
}

// MarginIn converts the margin to inches.
func (o Options) MarginIn() float64 {
	return o.MarginMM / 25.4
}

// Document is what an engine prints. HTML based engines use HTML, native
// engines lay out Data themselves.
type Document struct {
	HTML    string
	Data    domain.CanonicalData
	Variant templatedomain.Variant
	Options Options
}

//go:generate mockgen -source=engine.go -destination=./mocks/mock_engine.go -package=mocks
type Engine interface {
	Name() string
	Render(ctx context.Context, doc Document) ([]byte, error)
	Close(ctx context.Context) error
}
