package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/cruzaro/hpcollect/internal/models"
)

// SettingsRepository handles the keyed singleton settings table.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetRegistrationFee returns the configured registration fee, or ok=false if
// no row has been saved yet.
func (r *SettingsRepository) GetRegistrationFee(ctx context.Context) (float64, bool, error) {
	var fee float64
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = $1`, models.SettingKeyRegistrationFee,
	).Scan(&fee)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return fee, true, nil
}

// UpsertRegistrationFee writes the registration fee, creating the row on
// first save.
func (r *SettingsRepository) UpsertRegistrationFee(ctx context.Context, fee float64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		models.SettingKeyRegistrationFee, fee,
	)
	return err
}
