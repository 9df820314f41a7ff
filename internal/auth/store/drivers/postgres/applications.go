package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/snazzyfellas/auth/internal/auth/domain"
)

type applicationsRepo struct {
	q querier
}

const applicationColumns = `id, name, secret_hash, redirect_uris, created_at`

func (r *applicationsRepo) GetApplicationByID(ctx context.Context, id string) (domain.Application, error) {
	return scanApplication(r.q.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
}

func (r *applicationsRepo) CreateApplication(ctx context.Context, a domain.Application) error {
	uris := a.RedirectURIs
	if uris == nil {
		uris = []string{}
	}
	_, err := r.q.Exec(ctx,
		`INSERT INTO applications (id, name, secret_hash, redirect_uris, created_at) VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.Name, a.SecretHash, uris, a.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *applicationsRepo) ListApplications(ctx context.Context) ([]domain.Application, error) {
	rows, err := r.q.Query(ctx, `SELECT `+applicationColumns+` FROM applications ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanApplication(row pgx.Row) (domain.Application, error) {
	var a domain.Application
	if err := row.Scan(&a.ID, &a.Name, &a.SecretHash, &a.RedirectURIs, &a.CreatedAt); err != nil {
		return domain.Application{}, mapNotFound(err)
	}
	if len(a.RedirectURIs) == 0 {
		a.RedirectURIs = nil
	}
	a.CreatedAt = utc(a.CreatedAt)
	return a, nil
}
