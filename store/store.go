package store

import (
	"context"
	"errors"
	"time"
)

// Keys the client persists. These match the mobile app's storage contract.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyCart         = "cart"
	KeyThemeMode    = "themeMode"
)

var ErrNotFound = errors.New("store: key not found")

// Store is durable string-keyed blob storage for tokens and serialized state.
// A ttl of zero means no expiry; backends without expiry support ignore it.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
