package postgres

import (
	"context"
	"time"

	"github.com/snazzyfellas/auth/internal/auth/domain"
)

type sessionsRepo struct {
	q querier
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO sessions (id, user_id, client_id, key_hash, id_token, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.UserID, s.ClientID, s.KeyHash, s.IDToken, s.ExpiresAt, s.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSessionByKey(ctx context.Context, keyHash string) (domain.Session, error) {
	var s domain.Session
	err := r.q.QueryRow(ctx,
		`SELECT id, user_id, client_id, key_hash, id_token, expires_at, created_at
		 FROM sessions WHERE key_hash = $1`,
		keyHash,
	).Scan(&s.ID, &s.UserID, &s.ClientID, &s.KeyHash, &s.IDToken, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}

	s.ExpiresAt = utc(s.ExpiresAt)
	s.CreatedAt = utc(s.CreatedAt)
	return s, nil
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
