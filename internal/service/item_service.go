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

// ItemService manages the product catalog.
type ItemService struct {
	itemRepo  *repository.ItemRepository
	refresher Refresher
}

// NewItemService constructs an ItemService.
func NewItemService(itemRepo *repository.ItemRepository, refresher Refresher) *ItemService {
	return &ItemService{itemRepo: itemRepo, refresher: refresher}
}

// SaveItemRequest is the create/update form. Price is absent on purpose: it
// is always derived from BoxValue and TotalBoxes.
type SaveItemRequest struct {
	ID         string  `json:"id"`
	Name       string  `json:"name" binding:"required"`
	BoxValue   float64 `json:"boxValue" binding:"required"`
	TotalBoxes int     `json:"totalBoxes" binding:"required"`
	ImageURL   string  `json:"imageUrl"`
}

// Save creates or updates a catalog item, recomputing price from the box
// terms on every save.
func (s *ItemService) Save(ctx context.Context, req SaveItemRequest) (*models.Item, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, utils.ErrMissingField
	}
	if req.BoxValue <= 0 || req.TotalBoxes <= 0 {
		return nil, utils.ErrInvalidItem
	}

	item := &models.Item{
		ID:         req.ID,
		Name:       name,
		BoxValue:   req.BoxValue,
		TotalBoxes: req.TotalBoxes,
		Price:      req.BoxValue * float64(req.TotalBoxes),
		ImageURL:   strings.TrimSpace(req.ImageURL),
	}

	if item.ID == "" {
		item.ID = uuid.New().String()
		if err := s.itemRepo.Create(ctx, item); err != nil {
			return nil, err
		}
		log.Info().Str("item_id", item.ID).Str("name", item.Name).Msg("item created")
	} else {
		if err := s.itemRepo.Update(ctx, item); err != nil {
			if repository.IsNoRows(err) {
				return nil, utils.ErrItemNotFound
			}
			return nil, err
		}
		log.Info().Str("item_id", item.ID).Str("name", item.Name).Msg("item updated")
	}

	s.requestRefresh(ctx)
	return item, nil
}

// Delete removes an item that no customer assignment references. Existing
// assignments keep their frozen debt regardless, but a referenced item must
// stay so box math keeps working.
func (s *ItemService) Delete(ctx context.Context, itemID string) error {
	count, err := s.itemRepo.CountAssignments(ctx, itemID)
	if err != nil {
		return err
	}
	if count > 0 {
		return utils.ErrItemInUse
	}

	if err := s.itemRepo.Delete(ctx, itemID); err != nil {
		if repository.IsNoRows(err) {
			return utils.ErrItemNotFound
		}
		return err
	}
	log.Info().Str("item_id", itemID).Msg("item deleted")
	s.requestRefresh(ctx)
	return nil
}

func (s *ItemService) requestRefresh(ctx context.Context) {
	if _, err := s.refresher.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("post-write snapshot refresh failed")
	}
}
