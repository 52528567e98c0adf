// Package ledger contains the pure derivation rules of the hire-purchase
// system: box counts, balances, and revenue aggregates. Functions here are
// side-effect-free and total over well-typed input; validation happens in the
// workflows that call them.
package ledger

import (
	"math"

	"github.com/cruzaro/hpcollect/internal/models"
)

// BoxesRemaining returns how many boxes are still owed on one assignment:
// ceil(balance / boxValue). A zero or negative box value yields 0 — a
// zero-rate item must never divide.
func BoxesRemaining(p models.CustomerProduct, item models.Item) int {
	if item.BoxValue <= 0 {
		return 0
	}
	return int(math.Ceil(p.Balance / item.BoxValue))
}

// TotalOriginalBoxes returns the assignment's original size in boxes:
// round(totalAmount / boxValue).
func TotalOriginalBoxes(p models.CustomerProduct, item models.Item) int {
	if item.BoxValue <= 0 {
		return 0
	}
	return int(math.Round(p.TotalAmount / item.BoxValue))
}

// CustomerOutstanding sums the remaining balance and boxes across all of a
// customer's assignments. Items are looked up by id; an assignment whose item
// is unknown still contributes its balance but no boxes.
func CustomerOutstanding(c models.Customer, items map[string]models.Item) (amount float64, boxes int) {
	for _, p := range c.Products {
		amount += p.Balance
		if item, ok := items[p.ItemID]; ok {
			boxes += BoxesRemaining(p, item)
		}
	}
	return amount, boxes
}

// CustomerPaidToDate sums amount and box count over the payments belonging to
// the given customer.
func CustomerPaidToDate(customerID string, payments []models.Payment) (amount float64, boxes int) {
	for _, pay := range payments {
		if pay.CustomerID != customerID {
			continue
		}
		amount += pay.Amount
		boxes += pay.BoxCount
	}
	return amount, boxes
}

// ApplyCollection computes the monetary effect of collecting boxCount boxes
// against one assignment: the amount due and the balance after applying it.
// A negative new balance is permitted — over-collection is allowed by policy,
// callers warn but do not block.
func ApplyCollection(p models.CustomerProduct, item models.Item, boxCount int) (amount, newBalance float64) {
	amount = float64(boxCount) * item.BoxValue
	return amount, p.Balance - amount
}

// SystemRevenue is all money the system has taken in: every payment amount
// plus every registration fee paid.
func SystemRevenue(customers []models.Customer, payments []models.Payment) float64 {
	var total float64
	for _, p := range payments {
		total += p.Amount
	}
	for _, c := range customers {
		total += c.RegistrationFeePaid
	}
	return total
}

// ProjectedRevenue is the total debt ever assigned: the sum of TotalAmount
// across all customers' assignments.
func ProjectedRevenue(customers []models.Customer) float64 {
	var total float64
	for _, c := range customers {
		for _, p := range c.Products {
			total += p.TotalAmount
		}
	}
	return total
}

// RegistrationIncome returns the total registration fees collected and how
// many customers have paid one.
func RegistrationIncome(customers []models.Customer) (total float64, count int) {
	for _, c := range customers {
		total += c.RegistrationFeePaid
		if c.RegistrationFeePaid > 0 {
			count++
		}
	}
	return total, count
}

// AgentCollected is the lifetime sum of one agent's collected payments.
func AgentCollected(agentID string, payments []models.Payment) float64 {
	var total float64
	for _, p := range payments {
		if p.AgentID == agentID {
			total += p.Amount
		}
	}
	return total
}
