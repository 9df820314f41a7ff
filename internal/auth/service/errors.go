package service

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidCredentials  = errors.New("invalid_credentials")
	ErrInvalidClientConfig = errors.New("invalid_client_config")
	ErrInvalidGrant        = errors.New("invalid_grant")
	ErrInvalidSession      = errors.New("invalid_session")
	ErrInvalidRequest      = errors.New("invalid_request")
	ErrUsernameTaken       = errors.New("username_taken")

	// Internal failures. Details are logged, never shown to callers.
	ErrHashing = errors.New("hashing_error")
	ErrSigning = errors.New("signing_error")
	ErrStore   = errors.New("store_error")
)

// DefaultStoreTimeout bounds a single store call when none is configured.
const DefaultStoreTimeout = 5 * time.Second

// storeErr wraps a driver failure so it matches both ErrStore and the cause.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}

// withStoreTimeout derives the context for one store call.
func withStoreTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultStoreTimeout
	}
	return context.WithTimeout(ctx, d)
}

// clock returns the current time at the millisecond precision the store
// keeps, so returned expiries match what is later read back.
func clock(now func() time.Time) time.Time {
	t := time.Now()
	if now != nil {
		t = now()
	}
	return t.UTC().Truncate(time.Millisecond)
}
