package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/cruzaro/hpcollect/internal/ledger"
	"github.com/cruzaro/hpcollect/internal/models"
	"github.com/cruzaro/hpcollect/internal/repository"
	"github.com/cruzaro/hpcollect/internal/utils"
)

// AgentService manages the field-agent roster: onboarding, activation, and
// the agent-facing dashboard view.
type AgentService struct {
	agentRepo   *repository.AgentRepository
	profileRepo *repository.ProfileRepository
	refresher   Refresher
	snapshots   SnapshotSource
}

// NewAgentService constructs an AgentService.
func NewAgentService(
	agentRepo *repository.AgentRepository,
	profileRepo *repository.ProfileRepository,
	refresher Refresher,
	snapshots SnapshotSource,
) *AgentService {
	return &AgentService{
		agentRepo:   agentRepo,
		profileRepo: profileRepo,
		refresher:   refresher,
		snapshots:   snapshots,
	}
}

// CreateAgentRequest carries the onboarding form.
type CreateAgentRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	FirstName  string `json:"firstName" binding:"required"`
	LastName   string `json:"lastName" binding:"required"`
	Phone      string `json:"phone"`
	LocationID string `json:"locationId" binding:"required"`
}

// CreateAgent onboards a new agent: an identity account with the AGENT role
// plus the roster row that links back to it.
func (s *AgentService) CreateAgent(ctx context.Context, req CreateAgentRequest) (*models.Agent, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" || strings.TrimSpace(req.FirstName) == "" {
		return nil, utils.ErrMissingField
	}

	taken, err := s.profileRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, utils.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &models.ProfileAccount{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAgent,
		Name:         strings.TrimSpace(req.FirstName) + " " + strings.TrimSpace(req.LastName),
	}
	if err := s.profileRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	agent := &models.Agent{
		ID:         uuid.New().String(),
		ProfileID:  account.ID,
		Email:      email,
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
		Phone:      strings.TrimSpace(req.Phone),
		LocationID: req.LocationID,
		Active:     true,
	}
	if err := s.agentRepo.Create(ctx, agent); err != nil {
		return nil, err
	}

	log.Info().
		Str("agent_id", agent.ID).
		Str("email", agent.Email).
		Msg("agent onboarded")

	s.requestRefresh(ctx)
	return agent, nil
}

// SetActive flips the agent's active flag. Deactivation takes effect on the
// next snapshot: the access guard observes the inactive roster entry and
// forces the agent's session out.
func (s *AgentService) SetActive(ctx context.Context, agentID string, active bool) error {
	if err := s.agentRepo.SetActive(ctx, agentID, active); err != nil {
		if repository.IsNoRows(err) {
			return utils.ErrAgentNotFound
		}
		return err
	}
	log.Info().Str("agent_id", agentID).Bool("active", active).Msg("agent status changed")
	s.requestRefresh(ctx)
	return nil
}

// AgentDashboard is what a signed-in agent sees: their working list and their
// collection totals, all derived from one snapshot version.
type AgentDashboard struct {
	Agent          models.Agent      `json:"agent"`
	Customers      []models.Customer `json:"customers"`
	Payments       []models.Payment  `json:"payments"`
	TotalCollected float64           `json:"totalCollected"`
	Outstanding    float64           `json:"outstanding"`
	SnapshotAge    string            `json:"snapshotAge"`
}

// Dashboard builds the agent's home view from the current snapshot. An agent
// whose identity is not yet on the roster gets ErrAgentNotFound.
func (s *AgentService) Dashboard(profileID string) (*AgentDashboard, error) {
	snap, err := s.snapshots.Current()
	if err != nil {
		return nil, err
	}

	var agent *models.Agent
	for i := range snap.Agents {
		if snap.Agents[i].ProfileID == profileID {
			agent = &snap.Agents[i]
			break
		}
	}
	if agent == nil {
		return nil, utils.ErrAgentNotFound
	}

	customers := snap.CustomersForAgent(agent.ID)
	items := snap.ItemIndex()

	var outstanding float64
	for _, c := range customers {
		amount, _ := ledger.CustomerOutstanding(c, items)
		outstanding += amount
	}

	return &AgentDashboard{
		Agent:          *agent,
		Customers:      customers,
		Payments:       snap.PaymentsForAgent(agent.ID),
		TotalCollected: ledger.AgentCollected(agent.ID, snap.Payments),
		Outstanding:    outstanding,
		SnapshotAge:    snap.FetchedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}, nil
}

func (s *AgentService) requestRefresh(ctx context.Context) {
	if _, err := s.refresher.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("post-write snapshot refresh failed")
	}
}
