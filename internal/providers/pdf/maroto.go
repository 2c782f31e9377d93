package pdf

import (
	"context"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/smallbiznis/facture/internal/invoice/domain"
	"github.com/smallbiznis/facture/internal/invoice/format"
	"github.com/smallbiznis/facture/internal/invoice/label"
	"github.com/smallbiznis/facture/internal/invoice/render"
)

var colorPrimary = &props.Color{Red: 31, Green: 58, Blue: 95}

// MarotoEngine lays the invoice out natively from canonical data. It needs no
// browser and carries the same VAT and legal text as the HTML document.
type MarotoEngine struct{}

func NewMarotoEngine() *MarotoEngine {
	return &MarotoEngine{}
}

func (e *MarotoEngine) Name() string { return EngineMaroto }

func (e *MarotoEngine) Close(context.Context) error { return nil }

func (e *MarotoEngine) Render(ctx context.Context, doc Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts := doc.Options
	if opts.PaperWidthIn == 0 {
		opts = A4()
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(opts.MarginMM).
		WithRightMargin(opts.MarginMM).
		WithTopMargin(opts.MarginMM).
		WithBottomMargin(opts.MarginMM).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} / {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)
	data := doc.Data
	currency := data.Invoice.Currency

	m.AddRow(14,
		text.NewCol(6, data.Company.Name, props.Text{Size: 13, Style: fontstyle.Bold, Color: colorPrimary}),
		col.New(6).Add(
			text.New(label.Get("invoiceNumber")+" "+data.Invoice.Number, props.Text{Style: fontstyle.Bold, Align: align.Right}),
			text.New(label.Get("date")+" : "+format.ISODate(data.Invoice.Date), props.Text{Top: 5, Align: align.Right}),
			text.New(label.Get("dueDate")+" : "+format.ISODate(data.Invoice.DueDate), props.Text{Top: 9, Align: align.Right}),
		),
	)
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRow(28,
		partyCol(label.Get("seller"), data.Company),
		partyCol(label.Get("client"), data.Client.Company),
	)

	m.AddRow(8,
		text.NewCol(5, label.Get("description"), props.Text{Style: fontstyle.Bold}),
		text.NewCol(2, label.Get("quantity"), props.Text{Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, label.Get("unitPrice"), props.Text{Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(1, label.Get("tvaRate"), props.Text{Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, label.Get("totalPrice"), props.Text{Style: fontstyle.Bold, Align: align.Right}),
	)
	for _, item := range data.Items {
		m.AddRow(7,
			text.NewCol(5, item.Description),
			text.NewCol(2, format.Quantity(item.Quantity)+" "+item.Unit, props.Text{Align: align.Right}),
			text.NewCol(2, format.Money(item.UnitPrice, currency), props.Text{Align: align.Right}),
			text.NewCol(1, render.ItemRate(doc.Variant, item.TVARate), props.Text{Align: align.Right}),
			text.NewCol(2, format.Money(item.TotalPrice, currency), props.Text{Align: align.Right}),
		)
	}
	m.AddRows(line.NewRow(2, props.Line{Thickness: 0.3}))

	totals := []string{label.Get("subtotal") + ": " + format.Money(data.Totals.Subtotal, currency)}
	totals = append(totals, render.VATLines(doc.Variant, data.Totals, currency)...)
	if data.Totals.Discount != 0 {
		totals = append(totals, label.Get("discount")+": -"+format.Money(data.Totals.Discount, currency))
	}
	for _, row := range totals {
		m.AddRow(6, col.New(6), text.NewCol(6, row, props.Text{Align: align.Right}))
	}
	m.AddRow(8, col.New(6), text.NewCol(6, label.Get("total")+": "+format.Money(data.Totals.Total, currency),
		props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1}))

	if block := render.VariantLegal(doc.Variant); block != nil {
		m.AddRow(8, text.NewCol(12, block.Title, props.Text{Style: fontstyle.Bold, Top: 3, Color: colorPrimary}))
		for _, clause := range block.Clauses {
			m.AddRow(5, text.NewCol(12, clause, props.Text{Size: 8}))
		}
	}
	for _, note := range data.LegalNotes {
		m.AddRow(9, text.NewCol(12, note, props.Text{Size: 7, Top: 1}))
	}
	if data.Company.IBAN != "" {
		m.AddRow(6, text.NewCol(12, label.Get("iban")+" "+data.Company.IBAN+" "+data.Company.BIC, props.Text{Size: 7}))
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	buf := out.GetBytes()
	if len(buf) == 0 {
		return nil, ErrEmptyOutput
	}
	return buf, nil
}

func partyCol(title string, c domain.Company) core.Col {
	lines := []core.Component{
		text.New(title, props.Text{Style: fontstyle.Bold, Color: colorPrimary}),
		text.New(c.Name, props.Text{Top: 5, Style: fontstyle.Bold}),
		text.New(c.Address, props.Text{Top: 9}),
		text.New(c.PostalCode+" "+c.City+" "+c.Country, props.Text{Top: 13}),
	}
	top := 17.0
	if c.VATNumber != "" {
		lines = append(lines, text.New(label.Get("vatNumber")+" : "+c.VATNumber, props.Text{Top: top, Size: 8}))
		top += 4
	}
	if c.SIRET != "" {
		lines = append(lines, text.New(label.Get("siret")+" : "+c.SIRET, props.Text{Top: top, Size: 8}))
	}
	return col.New(6).Add(lines...)
}
