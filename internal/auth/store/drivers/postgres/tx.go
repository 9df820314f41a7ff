package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/snazzyfellas/auth/internal/auth/store"
)

var errNestedTx = errors.New("postgres: nested transactions are not supported")

// txStore scopes the repos to one pgx.Tx. ctx is the context the
// transaction was opened with and is used for Commit and Rollback.
type txStore struct {
	tx  pgx.Tx
	ctx context.Context
}

func (t *txStore) context() context.Context {
	if t.ctx == nil {
		return context.Background()
	}
	return t.ctx
}

func (t *txStore) Commit() error   { return t.tx.Commit(t.context()) }
func (t *txStore) Rollback() error { return t.tx.Rollback(t.context()) }

func (t *txStore) Close() error                   { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }
func (t *txStore) ApplyMigrations() error         { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) { return nil, errNestedTx }

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return errNestedTx
}

func (t *txStore) Users() store.Users               { return &usersRepo{q: t.tx} }
func (t *txStore) Applications() store.Applications { return &applicationsRepo{q: t.tx} }
func (t *txStore) Grants() store.Grants             { return &grantsRepo{q: t.tx} }
func (t *txStore) Sessions() store.Sessions         { return &sessionsRepo{q: t.tx} }
