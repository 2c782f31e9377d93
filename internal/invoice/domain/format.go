package domain

import "strings"

// OutputFormat is the channel a rendered invoice is packaged for.
type OutputFormat string

const (
	FormatEmail OutputFormat = "email"
	FormatPDF   OutputFormat = "pdf"
	FormatPrint OutputFormat = "print"

	// FormatHTML is accepted by previews only.
	FormatHTML OutputFormat = "html"
)

// Formats lists the render formats in their canonical order.
var Formats = []OutputFormat{FormatEmail, FormatPDF, FormatPrint}

// ParseFormat accepts email, pdf and print. Anything else is rejected.
func ParseFormat(raw string) (OutputFormat, error) {
	value := OutputFormat(strings.ToLower(strings.TrimSpace(raw)))
	switch value {
	case FormatEmail, FormatPDF, FormatPrint:
		return value, nil
	default:
		return "", &UnsupportedFormatError{Format: raw}
	}
}
