package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/cruzaro/hpcollect/internal/models"
)

// ItemRepository handles database operations for products.
type ItemRepository struct {
	db *sqlx.DB
}

// NewItemRepository creates a new ItemRepository.
func NewItemRepository(db *sqlx.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// GetAll returns all items.
func (r *ItemRepository) GetAll(ctx context.Context) ([]models.Item, error) {
	query := `SELECT id, name, box_value, total_boxes, price, COALESCE(image_url, '')
	          FROM items ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var it models.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.BoxValue, &it.TotalBoxes, &it.Price, &it.ImageURL); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetByID returns one item.
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	query := `SELECT id, name, box_value, total_boxes, price, COALESCE(image_url, '')
	          FROM items WHERE id = $1`

	var it models.Item
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&it.ID, &it.Name, &it.BoxValue, &it.TotalBoxes, &it.Price, &it.ImageURL)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Create inserts a new item. Price is computed by the service, never taken
// from client input.
func (r *ItemRepository) Create(ctx context.Context, it *models.Item) error {
	query := `INSERT INTO items (id, name, box_value, total_boxes, price, image_url)
	          VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))`

	_, err := r.db.ExecContext(ctx, query, it.ID, it.Name, it.BoxValue, it.TotalBoxes, it.Price, it.ImageURL)
	return err
}

// Update rewrites an item's definition.
func (r *ItemRepository) Update(ctx context.Context, it *models.Item) error {
	query := `UPDATE items SET name = $1, box_value = $2, total_boxes = $3, price = $4, image_url = NULLIF($5, '')
	          WHERE id = $6`

	res, err := r.db.ExecContext(ctx, query, it.Name, it.BoxValue, it.TotalBoxes, it.Price, it.ImageURL, it.ID)
	if err != nil {
		return err
	}
	return requireRowChanged(res)
}

// Delete removes an item row.
func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRowChanged(res)
}

// CountAssignments returns how many customer product lines reference the item.
// Items with live assignments must not be deleted.
func (r *ItemRepository) CountAssignments(ctx context.Context, itemID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM customer_products WHERE item_id = $1`, itemID,
	).Scan(&count)
	if err != nil && err != sql.ErrNoRows {
		return 0, err
	}
	return count, nil
}
