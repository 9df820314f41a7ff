package store

import (
	"context"
	"errors"
	"time"

	"github.com/snazzyfellas/auth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and so a Tx-scoped Store cannot start a nested transaction.
type Store interface {
	Users() Users
	Applications() Applications
	Grants() Grants
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used when authenticating a login.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user. A taken username gives ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error
}

type Applications interface {
	// GetApplicationByID fetches an application by its client id.
	GetApplicationByID(ctx context.Context, id string) (domain.Application, error)

	// CreateApplication inserts a new application.
	CreateApplication(ctx context.Context, a domain.Application) error

	// ListApplications returns all applications, newest first.
	ListApplications(ctx context.Context) ([]domain.Application, error)
}

type Grants interface {
	// CreateGrant stores a freshly minted grant.
	CreateGrant(ctx context.Context, g domain.Grant) error

	// ConsumeGrant deletes the grant with the given code fingerprint and
	// returns it in one statement, so at most one caller ever receives it.
	// Expired grants are still returned; the caller decides.
	ConsumeGrant(ctx context.Context, codeHash string) (domain.Grant, error)

	// DeleteExpiredGrants removes grants that expired at or before now.
	DeleteExpiredGrants(ctx context.Context, now time.Time) (int64, error)
}

type Sessions interface {
	// CreateSession stores a newly issued session.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByKey fetches a session by the fingerprint of its bearer key.
	GetSessionByKey(ctx context.Context, keyHash string) (domain.Session, error)

	// DeleteExpiredSessions removes sessions that expired at or before now.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}
