package session

import (
	"context"
	"errors"
	"time"
)

var ErrInvalidID = errors.New("invalid session id")

// Store keeps the bearer token issued at login behind an opaque session id.
type Store interface {
	Create(ctx context.Context, token string) (string, error)
	Get(ctx context.Context, id string) (string, bool, error)
	Delete(ctx context.Context, id string) error
}

func normalizeTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 24 * time.Hour
	}
	return ttl
}
