package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/cruzaro/hpcollect/internal/ledger"
	"github.com/cruzaro/hpcollect/internal/models"
	"github.com/cruzaro/hpcollect/internal/repository"
	"github.com/cruzaro/hpcollect/internal/utils"
)

// CustomerService covers admin-side customer management: transfer between
// agents, activation toggles, and profile edits.
type CustomerService struct {
	customerRepo *repository.CustomerRepository
	agentRepo    *repository.AgentRepository
	refresher    Refresher
	snapshots    SnapshotSource
}

// NewCustomerService constructs a CustomerService.
func NewCustomerService(
	customerRepo *repository.CustomerRepository,
	agentRepo *repository.AgentRepository,
	refresher Refresher,
	snapshots SnapshotSource,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		agentRepo:    agentRepo,
		refresher:    refresher,
		snapshots:    snapshots,
	}
}

// Transfer reassigns a customer to another agent. Reports ErrNoChange when
// the target is already the owning agent.
func (s *CustomerService) Transfer(ctx context.Context, customerID, agentID string) error {
	if customerID == "" || agentID == "" {
		return utils.ErrMissingField
	}

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		if repository.IsNoRows(err) {
			return utils.ErrCustomerNotFound
		}
		return err
	}
	if customer.AgentID == agentID {
		return utils.ErrNoChange
	}
	if _, err := s.agentRepo.GetByID(ctx, agentID); err != nil {
		if repository.IsNoRows(err) {
			return utils.ErrAgentNotFound
		}
		return err
	}

	if err := s.customerRepo.SetAgent(ctx, customerID, agentID); err != nil {
		return err
	}

	log.Info().
		Str("customer_id", customerID).
		Str("from_agent", customer.AgentID).
		Str("to_agent", agentID).
		Msg("customer transferred")

	s.requestRefresh(ctx)
	return nil
}

// SetActive activates or deactivates a customer. A deactivated customer
// drops off the owning agent's working list but stays visible to admins.
func (s *CustomerService) SetActive(ctx context.Context, customerID string, active bool) error {
	if err := s.customerRepo.SetActive(ctx, customerID, active); err != nil {
		if repository.IsNoRows(err) {
			return utils.ErrCustomerNotFound
		}
		return err
	}
	log.Info().Str("customer_id", customerID).Bool("active", active).Msg("customer status changed")
	s.requestRefresh(ctx)
	return nil
}

// UpdateProfile changes customer contact details.
func (s *CustomerService) UpdateProfile(ctx context.Context, customerID, name, phone string) error {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" || phone == "" {
		return utils.ErrMissingField
	}
	if err := s.customerRepo.UpdateProfile(ctx, customerID, name, phone); err != nil {
		if repository.IsNoRows(err) {
			return utils.ErrCustomerNotFound
		}
		return err
	}
	s.requestRefresh(ctx)
	return nil
}

// CustomerStatement is the admin's per-customer ledger view.
type CustomerStatement struct {
	Customer         models.Customer  `json:"customer"`
	AgentName        string           `json:"agentName"`
	LocationName     string           `json:"locationName"`
	TotalPaid        float64          `json:"totalPaid"`
	TotalBoxesPaid   int              `json:"totalBoxesPaid"`
	OutstandingTotal float64          `json:"outstandingTotal"`
	OutstandingBoxes int              `json:"outstandingBoxes"`
	Portfolio        []PortfolioLine  `json:"portfolio"`
	History          []models.Payment `json:"history"`
}

// PortfolioLine is one assignment with its derived box math.
type PortfolioLine struct {
	models.CustomerProduct
	ItemName      string  `json:"itemName"`
	BoxRate       float64 `json:"boxRate"`
	OriginalBoxes int     `json:"originalBoxes"`
	BoxesLeft     int     `json:"boxesLeft"`
}

// Statement derives the full per-customer ledger from the current snapshot.
func (s *CustomerService) Statement(customerID string) (*CustomerStatement, error) {
	snap, err := s.snapshots.Current()
	if err != nil {
		return nil, err
	}
	customer, ok := snap.CustomerByID(customerID)
	if !ok {
		return nil, utils.ErrCustomerNotFound
	}

	st := &CustomerStatement{
		Customer:     customer,
		AgentName:    "Unassigned",
		LocationName: "Unknown Zone",
	}
	if agent, ok := snap.AgentByID(customer.AgentID); ok {
		st.AgentName = agent.FullName()
	}
	if loc, ok := snap.LocationByID(customer.LocationID); ok {
		st.LocationName = loc.Name
	}

	st.TotalPaid, st.TotalBoxesPaid = ledger.CustomerPaidToDate(customerID, snap.Payments)
	st.OutstandingTotal, st.OutstandingBoxes = ledger.CustomerOutstanding(customer, snap.ItemIndex())

	for _, p := range customer.Products {
		line := PortfolioLine{CustomerProduct: p, ItemName: "Unknown Item"}
		if item, ok := snap.ItemByID(p.ItemID); ok {
			line.ItemName = item.Name
			line.BoxRate = item.BoxValue
			line.OriginalBoxes = ledger.TotalOriginalBoxes(p, item)
			line.BoxesLeft = ledger.BoxesRemaining(p, item)
		}
		st.Portfolio = append(st.Portfolio, line)
	}

	for _, p := range snap.Payments {
		if p.CustomerID == customerID {
			st.History = append(st.History, p)
		}
	}
	return st, nil
}

func (s *CustomerService) requestRefresh(ctx context.Context) {
	if _, err := s.refresher.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("post-write snapshot refresh failed")
	}
}
