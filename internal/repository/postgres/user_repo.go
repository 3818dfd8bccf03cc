// internal/repository/postgres/user_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"texttabs-service/internal/domain/user"
	xerrors "texttabs-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository is the local credential store backing password logins.
type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail retrieves a credential record by email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.Credential, error) {
	query := `
		SELECT id, email, password_hash, role, status, last_active
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`

	var cred user.Credential
	err := r.db.QueryRow(ctx, query, email).Scan(
		&cred.ID, &cred.Email, &cred.PasswordHash,
		&cred.Role, &cred.Status, &cred.LastActive,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &cred, nil
}

// UpdateLastActive stamps a successful login.
func (r *UserRepository) UpdateLastActive(ctx context.Context, id int64) error {
	query := `UPDATE users SET last_active = NOW() WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to update last active: %w", err)
	}
	return nil
}
