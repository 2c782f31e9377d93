// Package render builds the self-contained French invoice HTML document.
package render

import (
	"time"

	"github.com/smallbiznis/facture/internal/invoice/domain"
	templatedomain "github.com/smallbiznis/facture/internal/invoicetemplate/domain"
)

// Profile selects screen or print oriented CSS.
type Profile string

const (
	ProfileScreen Profile = "screen"
	ProfilePrint  Profile = "print"
)

// Style is the caller tunable part of the look. Values are sanitized before use.
type Style struct {
	PrimaryColor string
	FontFamily   string
}

type RenderInput struct {
	Data        domain.CanonicalData
	Variant     templatedomain.Variant
	Profile     Profile
	Style       Style
	FooterNotes string
	GeneratedAt time.Time
}

type Renderer interface {
	RenderHTML(input RenderInput) (string, error)
}
