package snapshot

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/cruzaro/hpcollect/internal/models"
	"github.com/cruzaro/hpcollect/internal/utils"
)

// Store is the read capability the orchestrator needs from the backing store.
type Store interface {
	Agents(ctx context.Context) ([]models.Agent, error)
	Locations(ctx context.Context) ([]models.Location, error)
	Items(ctx context.Context) ([]models.Item, error)
	Customers(ctx context.Context) ([]models.Customer, error)
	RecentPayments(ctx context.Context, limit int) ([]models.Payment, error)
	RegistrationFee(ctx context.Context) (fee float64, found bool, err error)
}

// Observer is notified after each successful publication.
type Observer func(ctx context.Context, snap *Snapshot)

// Orchestrator owns the published snapshot. Refresh recomputes it from
// scratch; concurrent refreshes are safe and resolve last-write-wins.
type Orchestrator struct {
	store         Store
	paymentWindow int
	fetchTimeout  time.Duration
	defaults      models.Settings

	version   atomic.Int64
	current   atomic.Pointer[Snapshot]
	observers []Observer
}

// NewOrchestrator creates an Orchestrator. defaults supplies settings values
// used until the store has a saved row.
func NewOrchestrator(store Store, paymentWindow int, fetchTimeout time.Duration, defaults models.Settings) *Orchestrator {
	return &Orchestrator{
		store:         store,
		paymentWindow: paymentWindow,
		fetchTimeout:  fetchTimeout,
		defaults:      defaults,
	}
}

// Subscribe registers an observer. Must be called before the first Refresh;
// the observer list is not synchronized afterwards.
func (o *Orchestrator) Subscribe(obs Observer) {
	o.observers = append(o.observers, obs)
}

// Current returns the latest published snapshot, or ErrNoSnapshot before the
// first successful refresh.
func (o *Orchestrator) Current() (*Snapshot, error) {
	snap := o.current.Load()
	if snap == nil {
		return nil, utils.ErrNoSnapshot
	}
	return snap, nil
}

// Refresh fetches every collection, maps rows into the domain model, and
// publishes a new snapshot. Independent collections are fetched in parallel.
// On any sub-fetch failure the previous snapshot is retained untouched and a
// recoverable error is returned.
func (o *Orchestrator) Refresh(ctx context.Context) (*Snapshot, error) {
	if o.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.fetchTimeout)
		defer cancel()
	}

	start := time.Now()

	var (
		agents    []models.Agent
		locations []models.Location
		items     []models.Item
		customers []models.Customer
		payments  []models.Payment
		fee       float64
		feeFound  bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		agents, err = o.store.Agents(gctx)
		return err
	})
	g.Go(func() (err error) {
		locations, err = o.store.Locations(gctx)
		return err
	})
	g.Go(func() (err error) {
		items, err = o.store.Items(gctx)
		return err
	})
	g.Go(func() (err error) {
		customers, err = o.store.Customers(gctx)
		return err
	})
	g.Go(func() (err error) {
		payments, err = o.store.RecentPayments(gctx, o.paymentWindow)
		return err
	})
	g.Go(func() (err error) {
		fee, feeFound, err = o.store.RegistrationFee(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("snapshot refresh failed, previous snapshot retained")
		return nil, fmt.Errorf("%w: %v", utils.ErrSyncFailed, err)
	}

	snap := Seal(Snapshot{
		Version:   o.version.Add(1),
		FetchedAt: start,
		Agents:    agents,
		Locations: normalizeLocations(locations),
		Items:     normalizeItems(items, o.defaults.BoxValue),
		Customers: customers,
		Payments:  payments,
		Settings:  normalizeSettings(fee, feeFound, o.defaults),
	})

	o.current.Store(snap)
	log.Info().
		Int64("version", snap.Version).
		Int("agents", len(agents)).
		Int("customers", len(customers)).
		Int("payments", len(payments)).
		Dur("duration", time.Since(start)).
		Msg("snapshot published")

	for _, obs := range o.observers {
		obs(ctx, snap)
	}
	return snap, nil
}
