package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cruzaro/hpcollect/internal/models"
)

// PaymentRepository handles database operations for payment facts. Payments
// are append-only: there is no update or delete here on purpose.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, customer_id, item_id, agent_id, amount, box_count, payment_date`

// Recent returns the newest payments, bounded by limit, most recent first.
func (r *PaymentRepository) Recent(ctx context.Context, limit int) ([]models.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments ORDER BY payment_date DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

// ByDateRange returns payments inside a window, most recent first.
func (r *PaymentRepository) ByDateRange(ctx context.Context, start, end time.Time) ([]models.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments
		 WHERE payment_date >= $1 AND payment_date <= $2 ORDER BY payment_date DESC`,
		start, end,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

// SumByDateRange returns the total amount collected inside a window.
func (r *PaymentRepository) SumByDateRange(ctx context.Context, start, end time.Time) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE payment_date >= $1 AND payment_date <= $2`,
		start, end,
	).Scan(&total)
	return total, err
}

// CreateWithBalance records a payment and applies its effect on the
// assignment's balance in one transaction. Either both rows change or
// neither does; the dual-write inconsistency of writing the fact without the
// derived balance cannot occur.
func (r *PaymentRepository) CreateWithBalance(ctx context.Context, p *models.Payment, productID string, newBalance float64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO payments (id, customer_id, item_id, agent_id, amount, box_count, payment_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.CustomerID, p.ItemID, p.AgentID, p.Amount, p.BoxCount, p.PaymentDate,
	)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE customer_products SET balance = $1 WHERE id = $2`, newBalance, productID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

func scanPayments(rows *sql.Rows) ([]models.Payment, error) {
	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.CustomerID, &p.ItemID, &p.AgentID, &p.Amount, &p.BoxCount, &p.PaymentDate); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
