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

// SettingsService manages system configuration: the registration fee and the
// zone list.
type SettingsService struct {
	settingsRepo *repository.SettingsRepository
	locationRepo *repository.LocationRepository
	refresher    Refresher
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(
	settingsRepo *repository.SettingsRepository,
	locationRepo *repository.LocationRepository,
	refresher Refresher,
) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		locationRepo: locationRepo,
		refresher:    refresher,
	}
}

// UpdateRegistrationFee saves a new fee. Registrations already recorded keep
// the fee they were charged; only future registrations see the new value.
func (s *SettingsService) UpdateRegistrationFee(ctx context.Context, fee float64) error {
	if fee <= 0 {
		return utils.ErrInvalidAmount
	}
	if err := s.settingsRepo.UpsertRegistrationFee(ctx, fee); err != nil {
		return err
	}
	log.Info().Float64("registration_fee", fee).Msg("registration fee updated")
	s.requestRefresh(ctx)
	return nil
}

// AddZone creates a new geographic zone.
func (s *SettingsService) AddZone(ctx context.Context, name string) (*models.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, utils.ErrMissingField
	}
	loc := &models.Location{ID: uuid.New().String(), Name: name}
	if err := s.locationRepo.Create(ctx, loc); err != nil {
		return nil, err
	}
	log.Info().Str("location_id", loc.ID).Str("name", loc.Name).Msg("zone added")
	s.requestRefresh(ctx)
	return loc, nil
}

func (s *SettingsService) requestRefresh(ctx context.Context) {
	if _, err := s.refresher.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("post-write snapshot refresh failed")
	}
}
