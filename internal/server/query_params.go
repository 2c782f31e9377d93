package server

import (
	"strconv"
	"strings"
)

// parseOptionalBool accepts strconv spellings plus "yes" and "on".
func parseOptionalBool(value string) (*bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return nil, nil
	}
	switch trimmed {
	case "yes", "on":
		parsed := true
		return &parsed, nil
	case "no", "off":
		parsed := false
		return &parsed, nil
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func queryFlag(value string) (bool, error) {
	parsed, err := parseOptionalBool(value)
	if err != nil {
		return false, ErrInvalidRequest
	}
	return parsed != nil && *parsed, nil
}
