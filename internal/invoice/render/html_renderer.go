package render

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/smallbiznis/facture/internal/invoice/format"
	"github.com/smallbiznis/facture/internal/invoice/label"
	templatedomain "github.com/smallbiznis/facture/internal/invoicetemplate/domain"
	taxdomain "github.com/smallbiznis/facture/internal/tax/domain"
	taxservice "github.com/smallbiznis/facture/internal/tax/service"
)

const (
	DefaultPrimaryColor = "#1f3a5f"
	DefaultFontFamily   = "Helvetica"
)

var (
	hexColorPattern  = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	fontFamilyFilter = regexp.MustCompile(`^[A-Za-z0-9 \-]+$`)
)

type HTMLRenderer struct {
	tpl *template.Template
}

func NewRenderer() Renderer {
	funcs := template.FuncMap{
		"money":     format.Money,
		"rate":      format.Rate,
		"quantity":  format.Quantity,
		"isoDate":   format.ISODate,
		"timestamp": format.Timestamp,
		"label":     label.Get,
		"itemRate":  ItemRate,
	}
	return &HTMLRenderer{
		tpl: template.Must(template.New("invoice").Funcs(funcs).Parse(invoiceHTMLTemplate)),
	}
}

// view is what the template sees.
type view struct {
	RenderInput
	Print        bool
	PrintCSS     template.CSS
	Regime       taxdomain.Regime
	VATLines     []string
	VariantBlock *VariantBlock
}

func (r *HTMLRenderer) RenderHTML(input RenderInput) (string, error) {
	input.Variant = templatedomain.ResolveVariant(string(input.Variant))
	input.Style.PrimaryColor = sanitizeColor(input.Style.PrimaryColor)
	input.Style.FontFamily = sanitizeFont(input.Style.FontFamily)

	v := view{
		RenderInput:  input,
		Print:        input.Profile == ProfilePrint,
		PrintCSS:     template.CSS(PrintStyles),
		Regime:       regime(input),
		VATLines:     VATLines(input.Variant, input.Data.Totals, input.Data.Invoice.Currency),
		VariantBlock: VariantLegal(input.Variant),
	}

	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render invoice %s: %w", input.Data.Invoice.Number, err)
	}
	return buf.String(), nil
}

func regime(input RenderInput) taxdomain.Regime {
	if input.Variant == templatedomain.VariantFrenchStandard {
		return taxservice.RegimeFor(input.Data.Totals)
	}
	return input.Variant.Regime()
}

func sanitizeColor(value string) string {
	trimmed := strings.TrimSpace(value)
	if hexColorPattern.MatchString(trimmed) {
		return trimmed
	}
	return DefaultPrimaryColor
}

func sanitizeFont(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed != "" && fontFamilyFilter.MatchString(trimmed) {
		return trimmed
	}
	return DefaultFontFamily
}
