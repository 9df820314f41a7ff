package service

import (
	"context"
	"errors"
	"time"

	"github.com/snazzyfellas/auth/internal/auth/cache"
	"github.com/snazzyfellas/auth/internal/auth/metrics"
	"github.com/snazzyfellas/auth/internal/auth/store"
	"github.com/snazzyfellas/auth/pkg/cryptox"
	"github.com/snazzyfellas/auth/pkg/otelx"
	"github.com/snazzyfellas/auth/pkg/slogx"
)

// SessionService is the session validator. It resolves a bearer key to the
// identity it was issued for and never writes to the store.
type SessionService struct {
	Store        store.Store
	Cache        cache.SessionCache // optional
	CacheTTL     time.Duration
	StoreTimeout time.Duration
	Metrics      *metrics.Metrics
	Now          func() time.Time
}

// Identity is the caller behind a valid bearer key.
type Identity struct {
	Subject   string
	ClientID  string
	ExpiresAt time.Time
}

// Resolve looks up bearer. Unknown and expired sessions both give
// ErrInvalidSession; a store failure gives ErrStore.
//
// Cache failures are logged and fall through to the store. A cached entry
// is still checked against its expiry.
func (s *SessionService) Resolve(ctx context.Context, bearer string) (id Identity, err error) {
	ctx, span := tracer.Start(ctx, "SessionService.Resolve")
	defer func() {
		if !errors.Is(err, ErrInvalidSession) {
			otelx.RecordError(span, err)
		}
		span.End()
	}()

	if bearer == "" {
		s.Metrics.Resolved("invalid", "none")
		return Identity{}, ErrInvalidSession
	}

	log := slogx.FromContext(ctx)
	now := clock(s.Now)
	key := cryptox.FingerprintToken(bearer)

	if s.Cache != nil {
		entry, ok, err := s.cacheGet(ctx, key)
		switch {
		case err != nil:
			log.Warn("session: cache lookup failed", "error", err)
		case ok && !now.Before(entry.ExpiresAt):
			s.Metrics.Resolved("expired", "cache")
			return Identity{}, ErrInvalidSession
		case ok:
			s.Metrics.Resolved("ok", "cache")
			return Identity{Subject: entry.UserID, ClientID: entry.ClientID, ExpiresAt: entry.ExpiresAt}, nil
		}
	}

	sctx, cancel := withStoreTimeout(ctx, s.StoreTimeout)
	defer cancel()

	sess, err := s.Store.Sessions().GetSessionByKey(sctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.Metrics.Resolved("invalid", "store")
			return Identity{}, ErrInvalidSession
		}
		log.Error("session: lookup failed", "error", err)
		s.Metrics.Resolved("error", "store")
		return Identity{}, storeErr("get session", err)
	}

	if sess.IsExpired(now) {
		s.Metrics.Resolved("expired", "store")
		return Identity{}, ErrInvalidSession
	}

	if s.Cache != nil {
		ttl := min(s.cacheTTL(), sess.ExpiresAt.Sub(now))
		entry := cache.Entry{UserID: sess.UserID, ClientID: sess.ClientID, ExpiresAt: sess.ExpiresAt}
		if err := s.cacheSet(ctx, key, entry, ttl); err != nil {
			log.Warn("session: cache write failed", "error", err)
		}
	}

	s.Metrics.Resolved("ok", "store")
	return Identity{Subject: sess.UserID, ClientID: sess.ClientID, ExpiresAt: sess.ExpiresAt}, nil
}

func (s *SessionService) cacheTTL() time.Duration {
	if s.CacheTTL <= 0 {
		return 5 * time.Minute
	}
	return s.CacheTTL
}

func (s *SessionService) cacheGet(ctx context.Context, key string) (cache.Entry, bool, error) {
	ctx, cancel := withStoreTimeout(ctx, s.StoreTimeout)
	defer cancel()
	return s.Cache.Get(ctx, key)
}

func (s *SessionService) cacheSet(ctx context.Context, key string, e cache.Entry, ttl time.Duration) error {
	ctx, cancel := withStoreTimeout(ctx, s.StoreTimeout)
	defer cancel()
	return s.Cache.Set(ctx, key, e, ttl)
}
