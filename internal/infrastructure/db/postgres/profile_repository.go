package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopgrid/platform/internal/core/domain"
)

const profileColumns = `id::text, email, username, password_hash, roles, is_active,
	first_name, last_name, phone, address, city, country, avatar, created_at, updated_at`

const insertProfileSQL = `
	INSERT INTO user_profiles (id, email, username, password_hash, roles, is_active,
		first_name, last_name, phone, address, city, country, avatar, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

// ProfileRepository stores user-service profiles in the user_profiles table.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func profileArgs(p *domain.Profile) []any {
	return []any{
		p.ID, p.Email, p.Username, p.PasswordHash, rolesToText(p.Roles), p.IsActive,
		p.FirstName, p.LastName, p.Phone, p.Address, p.City, p.Country, p.Avatar, p.CreatedAt, p.UpdatedAt,
	}
}

func (r *ProfileRepository) Create(ctx context.Context, p *domain.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.pool.Exec(ctx, insertProfileSQL, profileArgs(p)...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("profiles: create: %w", err)
	}
	return nil
}

// CreateIfAbsent skips the insert when a profile with the same id exists,
// so a redelivered event leaves the row untouched. A different profile
// already holding the email or username is reported as domain.ErrUserExists.
func (r *ProfileRepository) CreateIfAbsent(ctx context.Context, p *domain.Profile) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, insertProfileSQL+` ON CONFLICT (id) DO NOTHING`, profileArgs(p)...)
	if err != nil {
		if isUniqueViolation(err) {
			return false, domain.ErrUserExists
		}
		return false, fmt.Errorf("profiles: create if absent: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrUserNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	p, err := scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM user_profiles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("profiles: find by id: %w", err)
	}
	return p, nil
}

func (r *ProfileRepository) List(ctx context.Context, page domain.Page) ([]*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx,
		`SELECT `+profileColumns+` FROM user_profiles ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("profiles: list: %w", err)
	}
	defer rows.Close()

	var out []*domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("profiles: list scan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("profiles: list: %w", err)
	}
	return out, nil
}

func (r *ProfileRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM user_profiles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("profiles: count: %w", err)
	}
	return n, nil
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var (
		p     domain.Profile
		roles []string
	)
	err := row.Scan(
		&p.ID, &p.Email, &p.Username, &p.PasswordHash, &roles, &p.IsActive,
		&p.FirstName, &p.LastName, &p.Phone, &p.Address, &p.City, &p.Country, &p.Avatar,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Roles = rolesFromText(roles)
	return &p, nil
}
