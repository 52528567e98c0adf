package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/cruzaro/hpcollect/internal/ledger"
	"github.com/cruzaro/hpcollect/internal/models"
	"github.com/cruzaro/hpcollect/internal/repository"
	"github.com/cruzaro/hpcollect/internal/utils"
)

// CollectionService records installment payments.
type CollectionService struct {
	paymentRepo  *repository.PaymentRepository
	customerRepo *repository.CustomerRepository
	itemRepo     *repository.ItemRepository
	refresher    Refresher
}

// NewCollectionService constructs a CollectionService.
func NewCollectionService(
	paymentRepo *repository.PaymentRepository,
	customerRepo *repository.CustomerRepository,
	itemRepo *repository.ItemRepository,
	refresher Refresher,
) *CollectionService {
	return &CollectionService{
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		itemRepo:     itemRepo,
		refresher:    refresher,
	}
}

// CollectRequest input.
type CollectRequest struct {
	CustomerID string `json:"customerId" binding:"required"`
	ItemID     string `json:"itemId" binding:"required"`
	AgentID    string `json:"agentId" binding:"required"`
	BoxCount   int    `json:"boxCount" binding:"required"`
	// Confirmed acknowledges collecting more boxes than the customer owes.
	// Over-collection is allowed by policy but never applied silently.
	Confirmed bool `json:"confirmed"`
}

// Collect validates and records one payment. The payment fact and the new
// balance are committed in a single transaction, so a failure leaves no
// half-applied state.
func (s *CollectionService) Collect(ctx context.Context, req *CollectRequest) (*models.Payment, error) {
	if req.BoxCount < 1 {
		return nil, utils.ErrInvalidBoxCount
	}

	product, err := s.customerRepo.GetProduct(ctx, req.CustomerID, req.ItemID)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}

	item, err := s.itemRepo.GetByID(ctx, req.ItemID)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, utils.ErrItemNotFound
		}
		return nil, err
	}

	remaining := ledger.BoxesRemaining(*product, *item)
	if req.BoxCount > remaining && remaining > 0 && !req.Confirmed {
		return nil, utils.ErrOverCollection
	}

	amount, newBalance := ledger.ApplyCollection(*product, *item, req.BoxCount)

	payment := &models.Payment{
		ID:          uuid.New().String(),
		CustomerID:  req.CustomerID,
		ItemID:      req.ItemID,
		AgentID:     req.AgentID,
		Amount:      amount,
		BoxCount:    req.BoxCount,
		PaymentDate: time.Now(),
	}

	if err := s.paymentRepo.CreateWithBalance(ctx, payment, product.ID, newBalance); err != nil {
		return nil, err
	}

	log.Info().
		Str("payment_id", payment.ID).
		Str("customer_id", req.CustomerID).
		Str("agent_id", req.AgentID).
		Int("boxes", req.BoxCount).
		Float64("amount", amount).
		Float64("new_balance", newBalance).
		Msg("payment collected")

	s.requestRefresh(ctx)
	return payment, nil
}

// requestRefresh asks for a fresh snapshot after a write. The write itself
// already committed; a refresh failure only delays visibility.
func (s *CollectionService) requestRefresh(ctx context.Context) {
	if _, err := s.refresher.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("post-write snapshot refresh failed")
	}
}
