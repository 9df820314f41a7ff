package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/snazzyfellas/auth/internal/auth/domain"
	"github.com/snazzyfellas/auth/internal/auth/metrics"
	"github.com/snazzyfellas/auth/internal/auth/store"
	"github.com/snazzyfellas/auth/pkg/cryptox"
	"github.com/snazzyfellas/auth/pkg/idx"
	"github.com/snazzyfellas/auth/pkg/otelx"
	"github.com/snazzyfellas/auth/pkg/slogx"
	"go.opentelemetry.io/otel/attribute"
)

const (
	// CodeLength is the length of an authorization code in characters.
	CodeLength = 128

	// DefaultCodeTTL is how long an unredeemed code stays valid.
	DefaultCodeTTL = 5 * time.Minute

	maxClientIDLength = 128
)

var tracer = otelx.Tracer("github.com/snazzyfellas/auth/internal/auth/service")

// AuthorizeService is the grant issuer: it authenticates a user and mints a
// single-use code for a client application.
type AuthorizeService struct {
	Store        store.Store
	Hasher       *cryptox.Hasher
	CodeTTL      time.Duration
	StoreTimeout time.Duration
	Metrics      *metrics.Metrics
	Now          func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// AuthPrompt is what the login page echoes back to the user agent.
type AuthPrompt struct {
	ClientID    string
	RedirectURI string
	State       string
}

// AuthenticateRequest carries the submitted login form.
type AuthenticateRequest struct {
	Username    string
	Password    string
	ClientID    string
	RedirectURI string
	State       string
}

// AuthenticateResult is returned once a grant has been stored. The caller
// redirects to RedirectURI with Code (and State, when set) appended.
type AuthenticateResult struct {
	Code        string
	RedirectURI string
	State       string
	ExpiresAt   time.Time
}

// BeginAuthorization echoes the parameters needed to render the login page.
// It touches no state.
func (s *AuthorizeService) BeginAuthorization(clientID, redirectURI, state string) AuthPrompt {
	return AuthPrompt{
		ClientID:    strings.TrimSpace(clientID),
		RedirectURI: strings.TrimSpace(redirectURI),
		State:       state,
	}
}

// Authenticate checks the user's credentials, then the client and redirect
// configuration, and persists a grant.
//
// Errors:
//   - ErrInvalidCredentials when the user is unknown or the password is wrong
//   - ErrInvalidClientConfig when the client id is malformed or unknown, or
//     the redirect uri is not registered for it
//   - ErrStore when persistence fails
func (s *AuthorizeService) Authenticate(ctx context.Context, req AuthenticateRequest) (res AuthenticateResult, err error) {
	ctx, span := tracer.Start(ctx, "AuthorizeService.Authenticate")
	defer func() {
		otelx.RecordError(span, err)
		span.End()
	}()

	log := slogx.FromContext(ctx)

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		s.Metrics.LoginFailed("invalid_credentials")
		return AuthenticateResult{}, ErrInvalidCredentials
	}

	user, err := s.lookupUser(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn the same Argon2id cost as a real check so timing does
			// not reveal which usernames exist.
			s.Hasher.Verify(s.dummy(), req.Password)
			s.Metrics.LoginFailed("invalid_credentials")
			return AuthenticateResult{}, ErrInvalidCredentials
		}
		log.Error("authorize: user lookup failed", "error", err)
		s.Metrics.LoginFailed("store")
		return AuthenticateResult{}, storeErr("get user", err)
	}

	if !s.Hasher.Verify(user.PasswordHash, req.Password) {
		s.Metrics.LoginFailed("invalid_credentials")
		return AuthenticateResult{}, ErrInvalidCredentials
	}

	clientID, ok := ParseClientID(req.ClientID)
	if !ok {
		log.Warn("authorize: malformed client id", "client_id", req.ClientID)
		s.Metrics.LoginFailed("invalid_config")
		return AuthenticateResult{}, ErrInvalidClientConfig
	}
	span.SetAttributes(attribute.String("auth.client_id", clientID))

	app, err := s.lookupApplication(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("authorize: unknown client", "client_id", clientID)
			s.Metrics.LoginFailed("invalid_config")
			return AuthenticateResult{}, ErrInvalidClientConfig
		}
		log.Error("authorize: application lookup failed", "client_id", clientID, "error", err)
		s.Metrics.LoginFailed("store")
		return AuthenticateResult{}, storeErr("get application", err)
	}

	if !app.AllowsRedirect(req.RedirectURI) {
		log.Warn("authorize: redirect uri not registered", "client_id", clientID, "redirect_uri", req.RedirectURI)
		s.Metrics.LoginFailed("invalid_config")
		return AuthenticateResult{}, ErrInvalidClientConfig
	}

	code, err := cryptox.GenerateAlphanumeric(CodeLength)
	if err != nil {
		return AuthenticateResult{}, fmt.Errorf("generate code: %w", err)
	}

	now := clock(s.Now)
	ttl := s.CodeTTL
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}

	grant := domain.Grant{
		ID:        idx.NewAt(now).String(),
		ClientID:  app.ID,
		UserID:    user.ID,
		CodeHash:  cryptox.FingerprintToken(code),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	sctx, cancel := withStoreTimeout(ctx, s.StoreTimeout)
	defer cancel()
	if err := s.Store.Grants().CreateGrant(sctx, grant); err != nil {
		log.Error("authorize: failed to persist grant", "client_id", clientID, "error", err)
		s.Metrics.LoginFailed("store")
		return AuthenticateResult{}, storeErr("create grant", err)
	}

	s.Metrics.GrantIssued()
	log.Info("authorize: grant issued", "client_id", clientID, "user_id", user.ID)

	return AuthenticateResult{
		Code:        code,
		RedirectURI: req.RedirectURI,
		State:       req.State,
		ExpiresAt:   grant.ExpiresAt,
	}, nil
}

func (s *AuthorizeService) lookupUser(ctx context.Context, username string) (domain.User, error) {
	ctx, cancel := withStoreTimeout(ctx, s.StoreTimeout)
	defer cancel()
	return s.Store.Users().GetUserByUsername(ctx, username)
}

func (s *AuthorizeService) lookupApplication(ctx context.Context, id string) (domain.Application, error) {
	ctx, cancel := withStoreTimeout(ctx, s.StoreTimeout)
	defer cancel()
	return s.Store.Applications().GetApplicationByID(ctx, id)
}

// dummy returns a valid hash of a random password, computed once.
func (s *AuthorizeService) dummy() string {
	s.dummyOnce.Do(func() {
		pw, err := cryptox.GenerateToken(cryptox.TokenSize128)
		if err != nil {
			return
		}
		s.dummyHash, _ = s.Hasher.Hash(pw)
	})
	return s.dummyHash
}

// ParseClientID validates a client id taken from the network. Client ids
// are opaque: 1 to 128 characters from [A-Za-z0-9._~-].
func ParseClientID(raw string) (string, bool) {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > maxClientIDLength {
		return "", false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.', c == '~':
		default:
			return "", false
		}
	}
	return id, true
}
