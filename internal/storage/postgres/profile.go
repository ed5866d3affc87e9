package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jmcadiz/sari-store/internal/domain/auth"
)

const (
	getProfileByIDSQL = `SELECT id, role, full_name, created_at FROM profiles WHERE id = $1`

	upsertProfileSQL = `INSERT INTO profiles (id, role, full_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET role = EXCLUDED.role, full_name = EXCLUDED.full_name`
)

var _ auth.ProfileRepository = (*ProfileRepository)(nil)

// ProfileRepository implements auth.ProfileRepository backed by PostgreSQL.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository returns a ProfileRepository that uses the given pool.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// GetByID looks up a profile by user id.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*auth.Profile, error) {
	var (
		p        auth.Profile
		fullName *string
	)
	err := r.pool.QueryRow(ctx, getProfileByIDSQL, id).Scan(&p.ID, &p.Role, &fullName, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrProfileNotFound
		}
		return nil, errors.Wrapf(err, "get profile %q", id)
	}
	if fullName != nil {
		p.FullName = *fullName
	}
	return &p, nil
}

// Upsert creates or updates a profile row.
func (r *ProfileRepository) Upsert(ctx context.Context, p *auth.Profile) error {
	if _, err := r.pool.Exec(ctx, upsertProfileSQL, p.ID, p.Role, p.FullName); err != nil {
		return errors.Wrapf(err, "upsert profile %q", p.ID)
	}
	return nil
}
