package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/cruzaro/hpcollect/internal/models"
)

// LocationRepository handles database operations for zones.
type LocationRepository struct {
	db *sqlx.DB
}

// NewLocationRepository creates a new LocationRepository.
func NewLocationRepository(db *sqlx.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// GetAll returns all zones ordered by name.
func (r *LocationRepository) GetAll(ctx context.Context) ([]models.Location, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM locations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []models.Location
	for rows.Next() {
		var l models.Location
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// Create inserts a new zone.
func (r *LocationRepository) Create(ctx context.Context, l *models.Location) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO locations (id, name) VALUES ($1, $2)`, l.ID, l.Name)
	return err
}
