package models

import "time"

// ActivityType discriminates entries in the historical feed.
type ActivityType string

const (
	// ActivityCollection is a payment collected by an agent.
	ActivityCollection ActivityType = "COLLECTION"
	// ActivityLink is a product assignment (debt linked to a customer).
	ActivityLink ActivityType = "LINK"
)

// Activity is one row of the merged historical feed: payments and product
// assignments flattened into a single time-ordered stream.
type Activity struct {
	ID        string       `json:"id"`
	Type      ActivityType `json:"type"`
	Date      time.Time    `json:"date"`
	AgentName string       `json:"agentName"`
	Title     string       `json:"title"`
	Amount    float64      `json:"amount,omitempty"`
}
