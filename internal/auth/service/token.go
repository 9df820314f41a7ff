package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/snazzyfellas/auth/internal/auth/domain"
	"github.com/snazzyfellas/auth/internal/auth/metrics"
	"github.com/snazzyfellas/auth/internal/auth/store"
	"github.com/snazzyfellas/auth/pkg/cryptox"
	"github.com/snazzyfellas/auth/pkg/idx"
	"github.com/snazzyfellas/auth/pkg/jwtx"
	"github.com/snazzyfellas/auth/pkg/otelx"
	"github.com/snazzyfellas/auth/pkg/slogx"
	"go.opentelemetry.io/otel/attribute"
)

const (
	// SessionKeyLength is the length of a bearer session key in characters.
	SessionKeyLength = 512

	// DefaultSessionTTL is 30 days (43200 minutes).
	DefaultSessionTTL = 30 * 24 * time.Hour

	TokenTypeBearer = "Bearer"
)

// TokenService is the token exchanger: it redeems a grant code for a signed
// id token and a bearer session.
type TokenService struct {
	Store        store.Store
	Signer       jwtx.Signer
	Issuer       string
	SessionTTL   time.Duration
	StoreTimeout time.Duration
	Metrics      *metrics.Metrics
	Now          func() time.Time
}

// TokenResult is the outcome of a successful exchange.
type TokenResult struct {
	AccessToken string
	TokenType   string
	IDToken     string
	// ExpiresIn is the session lifetime in whole minutes.
	ExpiresIn int64
	ExpiresAt time.Time
	Subject   string
	ClientID  string
}

// Exchange redeems code.
//
// The grant is deleted and the session inserted in one transaction, so a
// code yields at most one session even when exchanges race. A grant that
// has expired is still consumed, then rejected.
//
// Errors: ErrInvalidGrant, ErrSigning, ErrStore.
func (s *TokenService) Exchange(ctx context.Context, code string) (res TokenResult, err error) {
	ctx, span := tracer.Start(ctx, "TokenService.Exchange")
	start := time.Now()
	defer func() {
		otelx.RecordError(span, err)
		span.End()
		s.Metrics.Exchanged(exchangeResult(err), time.Since(start))
	}()

	log := slogx.FromContext(ctx)

	code = strings.TrimSpace(code)
	if code == "" {
		return TokenResult{}, ErrInvalidGrant
	}

	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	sessionKey, err := cryptox.GenerateAlphanumeric(SessionKeyLength)
	if err != nil {
		return TokenResult{}, fmt.Errorf("generate session key: %w", err)
	}

	var (
		now     = clock(s.Now)
		session domain.Session
		expired bool
	)

	sctx, cancel := withStoreTimeout(ctx, s.StoreTimeout)
	defer cancel()

	err = s.Store.WithTx(sctx, func(tx store.Tx) error {
		grant, err := tx.Grants().ConsumeGrant(sctx, cryptox.FingerprintToken(code))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidGrant
			}
			return storeErr("consume grant", err)
		}

		if grant.IsExpired(now) {
			// Returning nil commits the delete; an expired code is dead either way.
			log.Info("token: expired grant presented", "client_id", grant.ClientID, "grant_id", grant.ID)
			expired = true
			return nil
		}

		expiresAt := now.Add(ttl)
		idToken, err := s.Signer.Sign(jwtx.NewIDClaims(grant.UserID, s.Issuer, grant.ClientID, now, expiresAt))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSigning, err)
		}

		session = domain.Session{
			ID:        idx.NewAt(now).String(),
			UserID:    grant.UserID,
			ClientID:  grant.ClientID,
			KeyHash:   cryptox.FingerprintToken(sessionKey),
			IDToken:   idToken,
			ExpiresAt: expiresAt,
			CreatedAt: now,
		}
		if err := tx.Sessions().CreateSession(sctx, session); err != nil {
			return storeErr("create session", err)
		}
		return nil
	})

	switch {
	case err == nil && expired:
		return TokenResult{}, ErrInvalidGrant
	case errors.Is(err, ErrInvalidGrant):
		return TokenResult{}, ErrInvalidGrant
	case errors.Is(err, ErrSigning):
		log.Error("token: failed to sign id token", "error", err)
		return TokenResult{}, err
	case err != nil:
		log.Error("token: exchange failed", "error", err)
		if errors.Is(err, ErrStore) {
			return TokenResult{}, err
		}
		return TokenResult{}, storeErr("exchange", err)
	}

	span.SetAttributes(attribute.String("auth.client_id", session.ClientID))
	log.Info("token: session issued", "client_id", session.ClientID, "user_id", session.UserID, "session_id", session.ID)

	return TokenResult{
		AccessToken: sessionKey,
		TokenType:   TokenTypeBearer,
		IDToken:     session.IDToken,
		ExpiresIn:   int64(ttl / time.Minute),
		ExpiresAt:   session.ExpiresAt,
		Subject:     session.UserID,
		ClientID:    session.ClientID,
	}, nil
}

func exchangeResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidGrant):
		return "invalid_grant"
	default:
		return "error"
	}
}
