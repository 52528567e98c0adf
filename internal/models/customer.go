package models

import "time"

// Customer is a hire-purchase client. A customer exclusively owns its
// CustomerProduct lines; agents and locations are referenced, not owned.
// Active=false hides the customer from the owning agent's working list but
// keeps it visible to admins.
type Customer struct {
	ID                  string            `db:"id" json:"id"`
	Name                string            `db:"name" json:"name"`
	Phone               string            `db:"phone" json:"phone"`
	LocationID          string            `db:"location_id" json:"locationId"`
	AgentID             string            `db:"agent_id" json:"agentId"`
	RegistrationFeePaid float64           `db:"registration_fee_paid" json:"registrationFeePaid"`
	Active              bool              `db:"active" json:"active"`
	Products            []CustomerProduct `db:"-" json:"products"`
	CreatedAt           time.Time         `db:"created_at" json:"createdAt"`
}

// CustomerProduct is one assignment line: the full debt for an item taken on
// hire purchase. It is created with Balance == TotalAmount, only ever mutated
// by payment application (balance decreases), and never deleted.
type CustomerProduct struct {
	ID          string    `db:"id" json:"id"`
	CustomerID  string    `db:"customer_id" json:"customerId"`
	ItemID      string    `db:"item_id" json:"itemId"`
	TotalAmount float64   `db:"total_amount" json:"totalAmount"`
	CostBasis   float64   `db:"cost_basis" json:"costBasis"`
	Balance     float64   `db:"balance" json:"balance"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
