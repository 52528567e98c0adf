package models

import "time"

// Agent represents a field agent who registers customers and collects
// installment payments. ProfileID links the agent to an identity account;
// Email is kept as a fallback match key for older rows created before
// profile linking existed.
type Agent struct {
	ID         string    `db:"id" json:"id"`
	ProfileID  string    `db:"profile_id" json:"profileId"`
	Email      string    `db:"email" json:"email"`
	FirstName  string    `db:"first_name" json:"firstName"`
	LastName   string    `db:"last_name" json:"lastName"`
	Phone      string    `db:"phone" json:"phone"`
	LocationID string    `db:"location_id" json:"locationId"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// FullName returns the agent's display name.
func (a Agent) FullName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}
