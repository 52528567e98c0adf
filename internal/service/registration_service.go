package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/cruzaro/hpcollect/internal/models"
	"github.com/cruzaro/hpcollect/internal/repository"
	"github.com/cruzaro/hpcollect/internal/utils"
)

// RegistrationService registers customers and assigns hire-purchase products.
type RegistrationService struct {
	customerRepo *repository.CustomerRepository
	itemRepo     *repository.ItemRepository
	settingsRepo *repository.SettingsRepository
	defaultFee   float64
	refresher    Refresher
}

// NewRegistrationService constructs a RegistrationService. defaultFee applies
// until an admin saves the registration fee.
func NewRegistrationService(
	customerRepo *repository.CustomerRepository,
	itemRepo *repository.ItemRepository,
	settingsRepo *repository.SettingsRepository,
	defaultFee float64,
	refresher Refresher,
) *RegistrationService {
	return &RegistrationService{
		customerRepo: customerRepo,
		itemRepo:     itemRepo,
		settingsRepo: settingsRepo,
		defaultFee:   defaultFee,
		refresher:    refresher,
	}
}

// RegisterRequest input.
type RegisterRequest struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	LocationID string `json:"locationId" binding:"required"`
	AgentID    string `json:"agentId" binding:"required"`
	ItemID     string `json:"itemId" binding:"required"`
}

// Register creates a customer and assigns their first product. The
// registration fee is taken from settings at registration time.
func (s *RegistrationService) Register(ctx context.Context, req *RegisterRequest) (*models.Customer, error) {
	name := strings.TrimSpace(req.Name)
	phone := strings.TrimSpace(req.Phone)
	if name == "" || phone == "" || req.LocationID == "" || req.AgentID == "" {
		return nil, utils.ErrMissingField
	}

	fee, found, err := s.settingsRepo.GetRegistrationFee(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		fee = s.defaultFee
	}

	customer := &models.Customer{
		ID:                  uuid.New().String(),
		Name:                name,
		Phone:               phone,
		LocationID:          req.LocationID,
		AgentID:             req.AgentID,
		RegistrationFeePaid: fee,
		Active:              true,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	product, err := s.assign(ctx, customer.ID, req.ItemID)
	if err != nil {
		// The customer row exists but carries no debt yet; the caller can
		// retry the assignment on its own.
		log.Error().Err(err).Str("customer_id", customer.ID).Msg("initial product assignment failed")
		return nil, err
	}
	customer.Products = []models.CustomerProduct{*product}

	log.Info().
		Str("customer_id", customer.ID).
		Str("agent_id", req.AgentID).
		Float64("registration_fee", fee).
		Msg("customer registered")

	s.requestRefresh(ctx)
	return customer, nil
}

// AssignProduct adds a product to an existing customer. The full debt is
// always assigned; there is no partial-assignment mode.
func (s *RegistrationService) AssignProduct(ctx context.Context, customerID, itemID string) (*models.CustomerProduct, error) {
	if customerID == "" || itemID == "" {
		return nil, utils.ErrMissingField
	}
	if _, err := s.customerRepo.GetByID(ctx, customerID); err != nil {
		if repository.IsNoRows(err) {
			return nil, utils.ErrCustomerNotFound
		}
		return nil, err
	}

	product, err := s.assign(ctx, customerID, itemID)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("customer_id", customerID).
		Str("item_id", itemID).
		Float64("debt", product.TotalAmount).
		Msg("product assigned")

	s.requestRefresh(ctx)
	return product, nil
}

func (s *RegistrationService) assign(ctx context.Context, customerID, itemID string) (*models.CustomerProduct, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, utils.ErrItemNotFound
		}
		return nil, err
	}

	debt := item.Price
	if debt <= 0 {
		// Legacy rows may predate the stored price; derive it.
		debt = item.BoxValue * float64(item.TotalBoxes)
	}
	if debt <= 0 {
		return nil, utils.ErrInvalidItem
	}

	product := &models.CustomerProduct{
		ID:          uuid.New().String(),
		CustomerID:  customerID,
		ItemID:      item.ID,
		TotalAmount: debt,
		CostBasis:   debt,
		Balance:     debt,
	}
	if err := s.customerRepo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *RegistrationService) requestRefresh(ctx context.Context) {
	if _, err := s.refresher.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("post-write snapshot refresh failed")
	}
}
