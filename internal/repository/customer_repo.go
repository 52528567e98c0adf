package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cruzaro/hpcollect/internal/models"
)

// CustomerRepository handles database operations for customers and their
// product assignment lines. Assignment lines are owned by the customer and
// have no independent lifecycle, so they live here rather than in their own
// repository.
type CustomerRepository struct {
	db *sqlx.DB
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(db *sqlx.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

const customerColumns = `id, name, phone, location_id, agent_id, registration_fee_paid, active, created_at`

// GetAll returns every customer with product lines attached.
func (r *CustomerRepository) GetAll(ctx context.Context) ([]models.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []models.Customer
	index := make(map[string]int)
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.LocationID, &c.AgentID, &c.RegistrationFeePaid, &c.Active, &c.CreatedAt); err != nil {
			return nil, err
		}
		index[c.ID] = len(customers)
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	products, err := r.allProducts(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if i, ok := index[p.CustomerID]; ok {
			customers[i].Products = append(customers[i].Products, p)
		}
	}
	return customers, nil
}

// GetByID returns one customer with product lines attached.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	var c models.Customer
	err := r.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Phone, &c.LocationID, &c.AgentID, &c.RegistrationFeePaid, &c.Active, &c.CreatedAt)
	if err != nil {
		return nil, err
	}

	products, err := r.productsByCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Products = products
	return &c, nil
}

// Create inserts a new customer row.
func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	query := `INSERT INTO customers (id, name, phone, location_id, agent_id, registration_fee_paid, active)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING created_at`

	return r.db.QueryRowContext(ctx, query,
		c.ID, c.Name, c.Phone, c.LocationID, c.AgentID, c.RegistrationFeePaid, c.Active,
	).Scan(&c.CreatedAt)
}

// UpdateProfile changes a customer's name and phone.
func (r *CustomerRepository) UpdateProfile(ctx context.Context, id, name, phone string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE customers SET name = $1, phone = $2 WHERE id = $3`, name, phone, id)
	if err != nil {
		return err
	}
	return requireRowChanged(res)
}

// SetActive flips the customer's active flag.
func (r *CustomerRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE customers SET active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	return requireRowChanged(res)
}

// SetAgent reassigns the customer to another agent.
func (r *CustomerRepository) SetAgent(ctx context.Context, id, agentID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE customers SET agent_id = $1 WHERE id = $2`, agentID, id)
	if err != nil {
		return err
	}
	return requireRowChanged(res)
}

const productColumns = `id, customer_id, item_id, total_amount, cost_basis, balance, created_at`

// CreateProduct inserts a new assignment line. Balance starts equal to
// TotalAmount; nothing but payment application ever changes it afterwards.
func (r *CustomerRepository) CreateProduct(ctx context.Context, p *models.CustomerProduct) error {
	query := `INSERT INTO customer_products (id, customer_id, item_id, total_amount, cost_basis, balance)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING created_at`

	return r.db.QueryRowContext(ctx, query,
		p.ID, p.CustomerID, p.ItemID, p.TotalAmount, p.CostBasis, p.Balance,
	).Scan(&p.CreatedAt)
}

// GetProduct returns the assignment line for a customer/item pair.
func (r *CustomerRepository) GetProduct(ctx context.Context, customerID, itemID string) (*models.CustomerProduct, error) {
	var p models.CustomerProduct
	err := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM customer_products WHERE customer_id = $1 AND item_id = $2`,
		customerID, itemID,
	).Scan(&p.ID, &p.CustomerID, &p.ItemID, &p.TotalAmount, &p.CostBasis, &p.Balance, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ProductsCreatedBetween returns assignment lines created inside a window,
// newest first. Feeds the LINK half of the historical feed.
func (r *CustomerRepository) ProductsCreatedBetween(ctx context.Context, start, end time.Time) ([]models.CustomerProduct, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM customer_products
		 WHERE created_at >= $1 AND created_at <= $2 ORDER BY created_at DESC`,
		start, end,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *CustomerRepository) allProducts(ctx context.Context) ([]models.CustomerProduct, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM customer_products ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *CustomerRepository) productsByCustomer(ctx context.Context, customerID string) ([]models.CustomerProduct, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM customer_products WHERE customer_id = $1 ORDER BY created_at`,
		customerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func scanProducts(rows *sql.Rows) ([]models.CustomerProduct, error) {
	var products []models.CustomerProduct
	for rows.Next() {
		var p models.CustomerProduct
		if err := rows.Scan(&p.ID, &p.CustomerID, &p.ItemID, &p.TotalAmount, &p.CostBasis, &p.Balance, &p.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
