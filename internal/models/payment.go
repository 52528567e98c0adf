package models

import "time"

// Payment is an immutable collection event: an agent received money from a
// customer against one assigned item. Amount equals BoxCount * the item's box
// value at collection time; the collection workflow enforces this, reads do
// not re-validate it.
type Payment struct {
	ID          string    `db:"id" json:"id"`
	CustomerID  string    `db:"customer_id" json:"customerId"`
	ItemID      string    `db:"item_id" json:"itemId"`
	AgentID     string    `db:"agent_id" json:"agentId"`
	Amount      float64   `db:"amount" json:"amount"`
	BoxCount    int       `db:"box_count" json:"boxCount"`
	PaymentDate time.Time `db:"payment_date" json:"paymentDate"`
}
