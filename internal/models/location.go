package models

// Location is a geographic zone used to group agents and customers.
type Location struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
