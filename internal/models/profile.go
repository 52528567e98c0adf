package models

import "time"

// Role of a signed-in identity.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleAgent Role = "AGENT"
)

// Profile is the signed-in identity as reported by the auth layer: an opaque
// id, an optional role claim, and an optional email. It is what the access
// guard matches against the agent roster.
type Profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Name  string `json:"name"`
}

// ProfileAccount is the stored identity record behind a Profile. Agents are
// linked to it through Agent.ProfileID; admins have no agent row.
type ProfileAccount struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	Name         string    `db:"name" json:"name"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Claims view of a stored account.
func (a ProfileAccount) Profile() Profile {
	return Profile{ID: a.ID, Email: a.Email, Role: a.Role, Name: a.Name}
}
