package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/cruzaro/hpcollect/internal/models"
)

// AgentRepository handles database operations for agents.
type AgentRepository struct {
	db *sqlx.DB
}

// NewAgentRepository creates a new AgentRepository.
func NewAgentRepository(db *sqlx.DB) *AgentRepository {
	return &AgentRepository{db: db}
}

// GetAll returns every agent, active or not.
func (r *AgentRepository) GetAll(ctx context.Context) ([]models.Agent, error) {
	query := `SELECT id, profile_id, email, first_name, last_name, phone, location_id, active, created_at
	          FROM agents ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agents []models.Agent
	for rows.Next() {
		var a models.Agent
		if err := rows.Scan(&a.ID, &a.ProfileID, &a.Email, &a.FirstName, &a.LastName, &a.Phone, &a.LocationID, &a.Active, &a.CreatedAt); err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

// GetByID returns a single agent.
func (r *AgentRepository) GetByID(ctx context.Context, id string) (*models.Agent, error) {
	query := `SELECT id, profile_id, email, first_name, last_name, phone, location_id, active, created_at
	          FROM agents WHERE id = $1`

	var a models.Agent
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&a.ID, &a.ProfileID, &a.Email, &a.FirstName, &a.LastName, &a.Phone, &a.LocationID, &a.Active, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByProfileID returns the agent linked to an identity, if any.
func (r *AgentRepository) GetByProfileID(ctx context.Context, profileID string) (*models.Agent, error) {
	query := `SELECT id, profile_id, email, first_name, last_name, phone, location_id, active, created_at
	          FROM agents WHERE profile_id = $1`

	var a models.Agent
	err := r.db.QueryRowContext(ctx, query, profileID).
		Scan(&a.ID, &a.ProfileID, &a.Email, &a.FirstName, &a.LastName, &a.Phone, &a.LocationID, &a.Active, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new agent row.
func (r *AgentRepository) Create(ctx context.Context, a *models.Agent) error {
	query := `INSERT INTO agents (id, profile_id, email, first_name, last_name, phone, location_id, active)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING created_at`

	return r.db.QueryRowContext(ctx, query,
		a.ID, a.ProfileID, a.Email, a.FirstName, a.LastName, a.Phone, a.LocationID, a.Active,
	).Scan(&a.CreatedAt)
}

// SetActive flips the active flag. Deactivation is what ultimately forces the
// agent's session out on the next snapshot.
func (r *AgentRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE agents SET active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	return requireRowChanged(res)
}
