package standardize

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/smallbiznis/facture/internal/invoice/domain"
	"github.com/spf13/cast"
)

// dateLayouts are tried in order; the first match wins.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02T15:04:05",
	"02/01/2006",
}

const isoDate = "2006-01-02"

// fieldReader reads one raw entity and records rejected fields. A nil errs
// makes it permissive: invalid values read as absent.
type fieldReader struct {
	entity string
	index  *int
	src    domain.RawInput
	errs   *domain.ValidationError
}

func newReader(entity string, src domain.RawInput, errs *domain.ValidationError) fieldReader {
	return fieldReader{entity: entity, src: src, errs: errs}
}

func (r fieldReader) at(index int) fieldReader {
	i := index
	r.index = &i
	return r
}

func (r fieldReader) fail(field, code, message string) {
	if r.errs == nil {
		return
	}
	r.errs.Add(domain.FieldError{
		Entity:  r.entity,
		Index:   r.index,
		Field:   field,
		Code:    code,
		Message: message,
	})
}

// lookup returns the first present value among keys. Nil and blank strings
// count as absent.
func (r fieldReader) lookup(keys ...string) (any, bool) {
	for _, key := range keys {
		value, ok := r.src[key]
		if !ok || value == nil {
			continue
		}
		if s, isString := value.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return value, true
	}
	return nil, false
}

func (r fieldReader) has(keys ...string) bool {
	_, ok := r.lookup(keys...)
	return ok
}

func (r fieldReader) requiredString(field string, aliases ...string) string {
	raw, ok := r.lookup(append([]string{field}, aliases...)...)
	if !ok {
		r.fail(field, domain.CodeRequired, "champ obligatoire")
		return ""
	}
	return r.coerceString(field, raw)
}

func (r fieldReader) optionalString(field, def string, aliases ...string) string {
	raw, ok := r.lookup(append([]string{field}, aliases...)...)
	if !ok {
		return def
	}
	if s := r.coerceString(field, raw); s != "" {
		return s
	}
	return def
}

func (r fieldReader) coerceString(field string, raw any) string {
	switch raw.(type) {
	case map[string]any, []any:
		r.fail(field, domain.CodeInvalidType, "texte attendu")
		return ""
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		r.fail(field, domain.CodeInvalidType, "texte attendu")
		return ""
	}
	return strings.TrimSpace(s)
}

// requiredNumber returns ok=false when the field is absent or not a finite number.
func (r fieldReader) requiredNumber(field string) (float64, bool) {
	raw, ok := r.lookup(field)
	if !ok {
		r.fail(field, domain.CodeRequired, "champ obligatoire")
		return 0, false
	}
	return r.coerceNumber(field, raw)
}

func (r fieldReader) optionalNumber(field string, def float64) (float64, bool) {
	raw, ok := r.lookup(field)
	if !ok {
		return def, true
	}
	return r.coerceNumber(field, raw)
}

func (r fieldReader) coerceNumber(field string, raw any) (float64, bool) {
	if s, isString := raw.(string); isString {
		// French input commonly uses a decimal comma.
		raw = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	}
	if _, isBool := raw.(bool); isBool {
		r.fail(field, domain.CodeInvalidType, "nombre attendu")
		return 0, false
	}
	value, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		r.fail(field, domain.CodeInvalidType, "nombre attendu")
		return 0, false
	}
	return value, true
}

func (r fieldReader) requiredDate(field string) (time.Time, bool) {
	raw, ok := r.lookup(field)
	if !ok {
		r.fail(field, domain.CodeRequired, "champ obligatoire")
		return time.Time{}, false
	}
	t, err := parseDate(raw)
	if err != nil {
		r.fail(field, domain.CodeInvalidType, "date invalide (AAAA-MM-JJ attendu)")
		return time.Time{}, false
	}
	return t, true
}

func (r fieldReader) optionalBool(field string, def bool) bool {
	raw, ok := r.lookup(field)
	if !ok {
		return def
	}
	value, err := cast.ToBoolE(raw)
	if err != nil {
		r.fail(field, domain.CodeInvalidType, "booléen attendu")
		return def
	}
	return value
}

func parseDate(raw any) (time.Time, error) {
	if t, ok := raw.(time.Time); ok {
		return dateOnly(t), nil
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return time.Time{}, err
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
