package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation            = errors.New("validation_failed")
	ErrUnsupportedFormat     = errors.New("unsupported_format")
	ErrRenderFailed          = errors.New("render_failed")
	ErrRendererNotConfigured = errors.New("renderer_not_configured")
)

// Field error codes.
const (
	CodeRequired     = "required"
	CodeInvalidType  = "invalid_type"
	CodeInvalidValue = "invalid_value"
	CodeOutOfRange   = "out_of_range"
)

// FieldError describes one rejected field. Index is set for line items only.
type FieldError struct {
	Entity  string `json:"entity"`
	Index   *int   `json:"index,omitempty"`
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Path returns the dotted location of the field, e.g. items[2].tvaRate.
func (e FieldError) Path() string {
	if e.Index != nil {
		if e.Field == "" {
			return fmt.Sprintf("%s[%d]", e.Entity, *e.Index)
		}
		return fmt.Sprintf("%s[%d].%s", e.Entity, *e.Index, e.Field)
	}
	if e.Field == "" {
		return e.Entity
	}
	return e.Entity + "." + e.Field
}

// ValidationError aggregates every field rejected during standardization.
type ValidationError struct {
	Details []FieldError
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Details) == 0 {
		return "validation error"
	}
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		parts = append(parts, fmt.Sprintf("%s: %s", d.Path(), d.Message))
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Add records a field error.
func (e *ValidationError) Add(fe FieldError) {
	e.Details = append(e.Details, fe)
}

// Err returns nil when nothing was recorded.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Details) == 0 {
		return nil
	}
	return e
}

// AsValidationError unwraps err into a *ValidationError when possible.
func AsValidationError(err error) *ValidationError {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr
	}
	return nil
}

// UnsupportedFormatError names the rejected format.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format %q", e.Format)
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}
