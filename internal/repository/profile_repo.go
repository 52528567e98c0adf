package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/cruzaro/hpcollect/internal/models"
)

// ProfileRepository handles database operations for identity accounts.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByEmail returns an account by email, matched case-insensitively.
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.ProfileAccount, error) {
	query := `SELECT id, email, password_hash, role, name, created_at
	          FROM profiles WHERE LOWER(email) = LOWER($1)`

	var a models.ProfileAccount
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.Name, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new identity account.
func (r *ProfileRepository) Create(ctx context.Context, a *models.ProfileAccount) error {
	query := `INSERT INTO profiles (id, email, password_hash, role, name)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING created_at`

	return r.db.QueryRowContext(ctx, query, a.ID, a.Email, a.PasswordHash, a.Role, a.Name).
		Scan(&a.CreatedAt)
}

// EmailExists reports whether any account uses the email.
func (r *ProfileRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM profiles WHERE LOWER(email) = LOWER($1))`, email,
	).Scan(&exists)
	return exists, err
}
