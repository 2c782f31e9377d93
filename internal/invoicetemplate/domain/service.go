package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound   = errors.New("not_found")
	ErrInvalidKey = errors.New("invalid_key")
)

type Service interface {
	List(ctx context.Context) []Descriptor
	Get(ctx context.Context, key string) (*Descriptor, error)
}
