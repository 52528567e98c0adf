package snapshot

import (
	"context"

	"github.com/cruzaro/hpcollect/internal/models"
	"github.com/cruzaro/hpcollect/internal/repository"
)

// repoStore adapts the repositories to the Store interface.
type repoStore struct {
	agents    *repository.AgentRepository
	locations *repository.LocationRepository
	items     *repository.ItemRepository
	customers *repository.CustomerRepository
	payments  *repository.PaymentRepository
	settings  *repository.SettingsRepository
}

// NewStore bundles the repositories into the orchestrator's read capability.
func NewStore(
	agents *repository.AgentRepository,
	locations *repository.LocationRepository,
	items *repository.ItemRepository,
	customers *repository.CustomerRepository,
	payments *repository.PaymentRepository,
	settings *repository.SettingsRepository,
) Store {
	return &repoStore{
		agents:    agents,
		locations: locations,
		items:     items,
		customers: customers,
		payments:  payments,
		settings:  settings,
	}
}

func (s *repoStore) Agents(ctx context.Context) ([]models.Agent, error) {
	return s.agents.GetAll(ctx)
}

func (s *repoStore) Locations(ctx context.Context) ([]models.Location, error) {
	return s.locations.GetAll(ctx)
}

func (s *repoStore) Items(ctx context.Context) ([]models.Item, error) {
	return s.items.GetAll(ctx)
}

func (s *repoStore) Customers(ctx context.Context) ([]models.Customer, error) {
	return s.customers.GetAll(ctx)
}

func (s *repoStore) RecentPayments(ctx context.Context, limit int) ([]models.Payment, error) {
	return s.payments.Recent(ctx, limit)
}

func (s *repoStore) RegistrationFee(ctx context.Context) (float64, bool, error) {
	return s.settings.GetRegistrationFee(ctx)
}
