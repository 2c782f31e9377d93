package service

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	invoicedomain "github.com/smallbiznis/facture/internal/invoice/domain"
)

func validationEnvelope(err error) invoicedomain.Envelope {
	env := invoicedomain.Envelope{
		Success: false,
		Error:   invoicedomain.ValidationErrorLabel,
		Code:    invoicedomain.ErrValidation.Error(),
		Message: messageValidation,
	}
	if vErr := invoicedomain.AsValidationError(err); vErr != nil {
		env.Details = vErr.Details
		env.Message = fmt.Sprintf("%s %d champ(s) en erreur.", messageValidation, len(vErr.Details))
	}
	return env
}

func unsupportedEnvelope(format string, err error) invoicedomain.Envelope {
	return invoicedomain.Envelope{
		Success: false,
		Error:   err.Error(),
		Code:    invoicedomain.ErrUnsupportedFormat.Error(),
		Message: fmt.Sprintf(messageUnsupported, format),
	}
}

func renderFailedEnvelope(err error) invoicedomain.Envelope {
	detail := err.Error()
	if !errors.Is(err, invoicedomain.ErrRenderFailed) {
		detail = fmt.Sprintf("%s: %s", invoicedomain.ErrRenderFailed, detail)
	}
	return invoicedomain.Envelope{
		Success: false,
		Error:   detail,
		Code:    invoicedomain.ErrRenderFailed.Error(),
		Message: messageRender,
	}
}

// dedupeFormats keeps the first occurrence of each format. An empty request
// means every render format.
func dedupeFormats(formats []string) []string {
	if len(formats) == 0 {
		out := make([]string, 0, len(invoicedomain.Formats))
		for _, f := range invoicedomain.Formats {
			out = append(out, string(f))
		}
		return out
	}
	seen := make(map[string]struct{}, len(formats))
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// sortBatchErrors orders errors like the request so batch output is stable.
func sortBatchErrors(errs []invoicedomain.BatchError, order []string) {
	slices.SortFunc(errs, func(a, b invoicedomain.BatchError) int {
		return slices.Index(order, a.Format) - slices.Index(order, b.Format)
	})
}
