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

const credentialColumns = `id::text, email, username, password_hash, roles, is_active, created_at, updated_at`

// CredentialRepository stores auth-service accounts in the credentials table.
type CredentialRepository struct {
	pool *pgxpool.Pool
}

func NewCredentialRepository(pool *pgxpool.Pool) *CredentialRepository {
	return &CredentialRepository{pool: pool}
}

func (r *CredentialRepository) Create(ctx context.Context, c *domain.Credential) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const insertSQL = `
		INSERT INTO credentials (id, email, username, password_hash, roles, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, insertSQL,
		c.ID, c.Email, c.Username, c.PasswordHash, rolesToText(c.Roles), c.IsActive, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("credentials: create: %w", err)
	}
	return nil
}

func (r *CredentialRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.Credential, error) {
	return r.findOne(ctx, "find by email or username",
		`SELECT `+credentialColumns+` FROM credentials WHERE email = $1 OR username = $2 LIMIT 1`,
		email, username)
}

func (r *CredentialRepository) FindByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	return r.findOne(ctx, "find by email",
		`SELECT `+credentialColumns+` FROM credentials WHERE email = $1`, email)
}

func (r *CredentialRepository) FindByID(ctx context.Context, id string) (*domain.Credential, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, "find by id",
		`SELECT `+credentialColumns+` FROM credentials WHERE id = $1`, id)
}

func (r *CredentialRepository) findOne(ctx context.Context, op, query string, args ...any) (*domain.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	c, err := scanCredential(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("credentials: %s: %w", op, err)
	}
	return c, nil
}

func scanCredential(row pgx.Row) (*domain.Credential, error) {
	var (
		c     domain.Credential
		roles []string
	)
	if err := row.Scan(&c.ID, &c.Email, &c.Username, &c.PasswordHash, &roles, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Roles = rolesFromText(roles)
	return &c, nil
}

func rolesToText(roles []domain.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

func rolesFromText(roles []string) []domain.Role {
	out := make([]domain.Role, len(roles))
	for i, r := range roles {
		out[i] = domain.Role(r)
	}
	return out
}
