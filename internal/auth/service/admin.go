package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/snazzyfellas/auth/internal/auth/domain"
	"github.com/snazzyfellas/auth/internal/auth/store"
	"github.com/snazzyfellas/auth/pkg/cryptox"
	"github.com/snazzyfellas/auth/pkg/idx"
	"github.com/snazzyfellas/auth/pkg/slogx"
)

const (
	minPasswordLength = 8
	maxUsernameLength = 64
	maxNameLength     = 128
)

// AdminService provisions users and client applications.
type AdminService struct {
	Store        store.Store
	Hasher       *cryptox.Hasher
	StoreTimeout time.Duration
	Now          func() time.Time
}

// CreatedApplication carries the client secret, which is only ever
// available at creation time.
type CreatedApplication struct {
	Application  domain.Application
	ClientSecret string
}

// CreateUser registers a user with an Argon2id password hash.
func (s *AdminService) CreateUser(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > maxUsernameLength || strings.ContainsAny(username, " \t\r\n") {
		return domain.User{}, fmt.Errorf("%w: username must be 1-%d characters without whitespace", ErrInvalidRequest, maxUsernameLength)
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return domain.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidRequest, minPasswordLength)
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %w", ErrHashing, err)
	}

	now := clock(s.Now)
	u := domain.User{
		ID:           idx.NewAt(now).String(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
	}

	sctx, cancel := withStoreTimeout(ctx, s.StoreTimeout)
	defer cancel()
	if err := s.Store.Users().CreateUser(sctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, storeErr("create user", err)
	}

	slogx.FromContext(ctx).Info("admin: user created", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// CreateApplication registers a client with a fresh secret. Redirect URIs
// must be absolute http(s) URLs without fragments.
func (s *AdminService) CreateApplication(ctx context.Context, name string, redirectURIs []string) (CreatedApplication, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxNameLength {
		return CreatedApplication{}, fmt.Errorf("%w: name must be 1-%d characters", ErrInvalidRequest, maxNameLength)
	}

	uris, err := normaliseRedirectURIs(redirectURIs)
	if err != nil {
		return CreatedApplication{}, err
	}

	secret, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return CreatedApplication{}, fmt.Errorf("generate client secret: %w", err)
	}
	secretHash, err := s.Hasher.Hash(secret)
	if err != nil {
		return CreatedApplication{}, fmt.Errorf("%w: %w", ErrHashing, err)
	}

	now := clock(s.Now)
	app := domain.Application{
		ID:           idx.NewAt(now).String(),
		Name:         name,
		SecretHash:   secretHash,
		RedirectURIs: uris,
		CreatedAt:    now,
	}

	sctx, cancel := withStoreTimeout(ctx, s.StoreTimeout)
	defer cancel()
	if err := s.Store.Applications().CreateApplication(sctx, app); err != nil {
		return CreatedApplication{}, storeErr("create application", err)
	}

	slogx.FromContext(ctx).Info("admin: application created", "client_id", app.ID, "name", app.Name)
	return CreatedApplication{Application: app, ClientSecret: secret}, nil
}

// ListApplications returns every registered application, newest first.
func (s *AdminService) ListApplications(ctx context.Context) ([]domain.Application, error) {
	sctx, cancel := withStoreTimeout(ctx, s.StoreTimeout)
	defer cancel()

	apps, err := s.Store.Applications().ListApplications(sctx)
	if err != nil {
		return nil, storeErr("list applications", err)
	}
	return apps, nil
}

func normaliseRedirectURIs(in []string) ([]string, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: at least one redirect uri is required", ErrInvalidRequest)
	}

	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, raw := range in {
		raw = strings.TrimSpace(raw)
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" || u.Fragment != "" || strings.ContainsAny(raw, " \t") {
			return nil, fmt.Errorf("%w: invalid redirect uri %q", ErrInvalidRequest, raw)
		}
		if _, dup := seen[raw]; dup {
			continue
		}
		seen[raw] = struct{}{}
		out = append(out, raw)
	}
	return out, nil
}
