// Package correlation carries a caller-visible id across one render request
// and everything it triggers.
package correlation

import (
	"context"
	"net/http"
	"strings"
	"unicode"

	"github.com/oklog/ulid/v2"
)

// Header carries the correlation id in and out of the HTTP surface.
const Header = "X-Correlation-Id"

const maxInboundLength = 128

type ctxKey struct{}

// FromContext returns the correlation id stored on ctx.
func FromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// WithID stores id on ctx. Empty ids leave ctx untouched.
func WithID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, id)
}

// NewID returns a fresh ULID string.
func NewID() string {
	return ulid.Make().String()
}

// Ensure returns ctx with a correlation id, minting one if none is present.
func Ensure(ctx context.Context) (context.Context, string) {
	if id, ok := FromContext(ctx); ok {
		return ctx, id
	}
	id := NewID()
	return WithID(ctx, id), id
}

// FromHeader trusts an inbound id only when it is short and printable;
// anything else is replaced so it cannot pollute logs.
func FromHeader(ctx context.Context, h http.Header) (context.Context, string) {
	if id := strings.TrimSpace(h.Get(Header)); acceptable(id) {
		return WithID(ctx, id), id
	}
	return Ensure(ctx)
}

func acceptable(id string) bool {
	if id == "" || len(id) > maxInboundLength {
		return false
	}
	for _, r := range id {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.') {
			return false
		}
	}
	return true
}
