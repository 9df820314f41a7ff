package postgres

import (
	"context"
	"time"

	"github.com/snazzyfellas/auth/internal/auth/domain"
)

type grantsRepo struct {
	q querier
}

func (r *grantsRepo) CreateGrant(ctx context.Context, g domain.Grant) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO grants (id, client_id, user_id, code_hash, expires_at, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		g.ID, g.ClientID, g.UserID, g.CodeHash, g.ExpiresAt, g.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *grantsRepo) ConsumeGrant(ctx context.Context, codeHash string) (domain.Grant, error) {
	var g domain.Grant
	err := r.q.QueryRow(ctx,
		`DELETE FROM grants WHERE code_hash = $1
		 RETURNING id, client_id, user_id, code_hash, expires_at, created_at`,
		codeHash,
	).Scan(&g.ID, &g.ClientID, &g.UserID, &g.CodeHash, &g.ExpiresAt, &g.CreatedAt)
	if err != nil {
		return domain.Grant{}, mapNotFound(err)
	}

	g.ExpiresAt = utc(g.ExpiresAt)
	g.CreatedAt = utc(g.CreatedAt)
	return g, nil
}

func (r *grantsRepo) DeleteExpiredGrants(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM grants WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
