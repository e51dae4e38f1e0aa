package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/langzhe001/cf-domain/internal/domain"
)

// UserRepo implements domain.UserRepository backed by PostgreSQL.
//
// The domain inventory lives as a JSONB array on the user row, guarded by a
// version column: writers read (domains, version) and write back with a
// version-checked UPDATE, so concurrent appends for the same user conflict
// instead of silently overwriting each other.
type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, username, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (username) DO NOTHING
	`, username, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserExists
	}
	return nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.pool.QueryRow(ctx, `
		SELECT username, password_hash, domains, created_at, updated_at
		FROM users
		WHERE username = $1
	`, username).Scan(&user.Username, &user.PasswordHash, &user.Domains, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *UserRepo) ListDomains(ctx context.Context, username string) ([]domain.DomainMapping, error) {
	var domains []domain.DomainMapping
	err := r.pool.QueryRow(ctx, `
		SELECT domains FROM users WHERE username = $1
	`, username).Scan(&domains)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	return domains, nil
}

func (r *UserRepo) GetDomainsForUpdate(ctx context.Context, username string) ([]domain.DomainMapping, int64, error) {
	var (
		domains []domain.DomainMapping
		version int64
	)
	err := r.pool.QueryRow(ctx, `
		SELECT domains, version FROM users WHERE username = $1
	`, username).Scan(&domains, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read domains for update: %w", err)
	}
	return domains, version, nil
}

func (r *UserRepo) CompareAndSwapDomains(ctx context.Context, username string, domains []domain.DomainMapping, expectedVersion int64) error {
	encoded, err := json.Marshal(domains)
	if err != nil {
		return fmt.Errorf("failed to encode domains: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET domains = $2::jsonb, version = version + 1, updated_at = NOW()
		WHERE username = $1 AND version = $3
	`, username, string(encoded), expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to write domains: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Zero rows: either the user vanished or another writer bumped the version.
	var exists bool
	if err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)
	`, username).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check user existence: %w", err)
	}
	if !exists {
		return domain.ErrUserNotFound
	}
	return domain.ErrVersionConflict
}
