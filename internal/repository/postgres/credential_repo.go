// internal/repository/postgres/credential_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"campus-gateway/internal/domain/directory"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// CredentialRepository reads accounts from the school system's shared
// Postgres. The gateway only reads; account lifecycle belongs to the
// backend services.
type CredentialRepository struct {
	db *pgxpool.Pool
}

func NewCredentialRepository(db *pgxpool.Pool) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// FindByUsername retrieves an account by login name
func (r *CredentialRepository) FindByUsername(ctx context.Context, username string) (*directory.Account, error) {
	query := `
		SELECT subject, username, full_name, password_hash, roles
		FROM accounts
		WHERE username = $1 AND is_active = TRUE
	`

	var a directory.Account
	err := r.db.QueryRow(ctx, query, username).Scan(
		&a.Subject, &a.Username, &a.FullName, &a.PasswordHash, pq.Array(&a.Roles),
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account by username: %w", err)
	}

	return &a, nil
}

// FindBySubject retrieves an account by its stable subject identifier
func (r *CredentialRepository) FindBySubject(ctx context.Context, subject string) (*directory.Account, error) {
	query := `
		SELECT subject, username, full_name, password_hash, roles
		FROM accounts
		WHERE subject = $1 AND is_active = TRUE
	`

	var a directory.Account
	err := r.db.QueryRow(ctx, query, subject).Scan(
		&a.Subject, &a.Username, &a.FullName, &a.PasswordHash, pq.Array(&a.Roles),
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account by subject: %w", err)
	}

	return &a, nil
}

// ListByRole retrieves active accounts carrying the given role
func (r *CredentialRepository) ListByRole(ctx context.Context, role string, limit int) ([]*directory.Account, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `
		SELECT subject, username, full_name, password_hash, roles
		FROM accounts
		WHERE roles @> $1 AND is_active = TRUE
		ORDER BY full_name
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, pq.Array([]string{role}), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts by role: %w", err)
	}
	defer rows.Close()

	var accounts []*directory.Account
	for rows.Next() {
		var a directory.Account
		if err := rows.Scan(&a.Subject, &a.Username, &a.FullName, &a.PasswordHash, pq.Array(&a.Roles)); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &a)
	}

	return accounts, rows.Err()
}
