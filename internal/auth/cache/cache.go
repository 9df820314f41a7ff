// Package cache holds short-lived copies of session lookups so hot bearer
// keys do not hit the store on every request.
package cache

import (
	"context"
	"time"
)

// Entry is the cached projection of a session.
type Entry struct {
	UserID    string    `json:"sub"`
	ClientID  string    `json:"cid"`
	ExpiresAt time.Time `json:"exp"`
}

// SessionCache is keyed by the bearer key fingerprint, never the key itself.
type SessionCache interface {
	// Get returns the entry and true on a hit. A miss is (Entry{}, false, nil).
	Get(ctx context.Context, key string) (Entry, bool, error)

	// Set stores e for at most ttl.
	Set(ctx context.Context, key string, e Entry, ttl time.Duration) error

	Ping(ctx context.Context) error
	Close() error
}

// Noop is used when no cache is configured. Every lookup misses.
type Noop struct{}

func (Noop) Get(context.Context, string) (Entry, bool, error)        { return Entry{}, false, nil }
func (Noop) Set(context.Context, string, Entry, time.Duration) error { return nil }
func (Noop) Ping(context.Context) error                              { return nil }
func (Noop) Close() error                                            { return nil }
