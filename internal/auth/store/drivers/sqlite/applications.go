package sqlite

import (
	"context"

	"github.com/snazzyfellas/auth/internal/auth/domain"
)

type applicationsRepo struct {
	db dbtx
}

const applicationColumns = `id, name, secret_hash, redirect_uris, created_at`

func (r *applicationsRepo) GetApplicationByID(ctx context.Context, id string) (domain.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = ?`, id)
	return scanApplication(row)
}

func (r *applicationsRepo) CreateApplication(ctx context.Context, a domain.Application) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO applications (id, name, secret_hash, redirect_uris, created_at) VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.SecretHash, joinURIs(a.RedirectURIs), toMillis(a.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *applicationsRepo) ListApplications(ctx context.Context) ([]domain.Application, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+applicationColumns+` FROM applications ORDER BY created_at DESC, id DESC`)
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

func scanApplication(row interface{ Scan(...any) error }) (domain.Application, error) {
	var (
		a         domain.Application
		uris      string
		createdAt int64
	)
	if err := row.Scan(&a.ID, &a.Name, &a.SecretHash, &uris, &createdAt); err != nil {
		return domain.Application{}, mapNotFound(err)
	}
	a.RedirectURIs = splitURIs(uris)
	a.CreatedAt = fromMillis(createdAt)
	return a, nil
}
