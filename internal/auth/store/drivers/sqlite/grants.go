package sqlite

import (
	"context"
	"time"

	"github.com/snazzyfellas/auth/internal/auth/domain"
)

type grantsRepo struct {
	db dbtx
}

func (r *grantsRepo) CreateGrant(ctx context.Context, g domain.Grant) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO grants (id, client_id, user_id, code_hash, expires_at, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.ClientID, g.UserID, g.CodeHash, toMillis(g.ExpiresAt), toMillis(g.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *grantsRepo) ConsumeGrant(ctx context.Context, codeHash string) (domain.Grant, error) {
	var (
		g                    domain.Grant
		expiresAt, createdAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM grants WHERE code_hash = ?
		 RETURNING id, client_id, user_id, code_hash, expires_at, created_at`,
		codeHash,
	).Scan(&g.ID, &g.ClientID, &g.UserID, &g.CodeHash, &expiresAt, &createdAt)
	if err != nil {
		return domain.Grant{}, mapNotFound(err)
	}

	g.ExpiresAt = fromMillis(expiresAt)
	g.CreatedAt = fromMillis(createdAt)
	return g, nil
}

func (r *grantsRepo) DeleteExpiredGrants(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM grants WHERE expires_at <= ?`, toMillis(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
