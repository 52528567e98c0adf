package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cruzaro/hpcollect/internal/models"
	"github.com/cruzaro/hpcollect/internal/utils"
)

type fakeStore struct {
	agents    []models.Agent
	locations []models.Location
	items     []models.Item
	customers []models.Customer
	payments  []models.Payment
	fee       float64
	feeFound  bool

	failPayments error
}

func (f *fakeStore) Agents(context.Context) ([]models.Agent, error)       { return f.agents, nil }
func (f *fakeStore) Locations(context.Context) ([]models.Location, error) { return f.locations, nil }
func (f *fakeStore) Items(context.Context) ([]models.Item, error)         { return f.items, nil }
func (f *fakeStore) Customers(context.Context) ([]models.Customer, error) { return f.customers, nil }
func (f *fakeStore) RecentPayments(_ context.Context, limit int) ([]models.Payment, error) {
	if f.failPayments != nil {
		return nil, f.failPayments
	}
	if len(f.payments) > limit {
		return f.payments[:limit], nil
	}
	return f.payments, nil
}
func (f *fakeStore) RegistrationFee(context.Context) (float64, bool, error) {
	return f.fee, f.feeFound, nil
}

func defaults() models.Settings {
	return models.Settings{RegistrationFee: 50, BoxValue: 10}
}

func sampleStore() *fakeStore {
	return &fakeStore{
		agents:    []models.Agent{{ID: "ag-1", ProfileID: "prof-1", Active: true}},
		locations: []models.Location{{ID: "loc-1", Name: "Adenta"}, {ID: "loc-2"}},
		items:     []models.Item{{ID: "it-1", Name: "CUZO 24", BoxValue: 10, TotalBoxes: 50, Price: 500}},
		customers: []models.Customer{{ID: "c-1", AgentID: "ag-1", Active: true}},
		payments:  []models.Payment{{ID: "p-1", CustomerID: "c-1", Amount: 30}},
		fee:       75,
		feeFound:  true,
	}
}

func TestRefreshPublishesVersionedSnapshot(t *testing.T) {
	o := NewOrchestrator(sampleStore(), 500, time.Second, defaults())

	_, err := o.Current()
	assert.ErrorIs(t, err, utils.ErrNoSnapshot)

	snap, err := o.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.Version)
	assert.Equal(t, 75.0, snap.Settings.RegistrationFee)

	again, err := o.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), again.Version)

	cur, err := o.Current()
	require.NoError(t, err)
	assert.Equal(t, again, cur)
}

func TestRefreshRetainsPreviousOnPartialFailure(t *testing.T) {
	store := sampleStore()
	o := NewOrchestrator(store, 500, time.Second, defaults())

	first, err := o.Refresh(context.Background())
	require.NoError(t, err)

	store.failPayments = errors.New("connection reset")
	_, err = o.Refresh(context.Background())
	assert.ErrorIs(t, err, utils.ErrSyncFailed)

	// Previous snapshot must remain untouched — no partial overwrite.
	cur, err := o.Current()
	require.NoError(t, err)
	assert.Equal(t, first.Version, cur.Version)
	assert.Len(t, cur.Payments, 1)

	// A later successful refresh recovers.
	store.failPayments = nil
	recovered, err := o.Refresh(context.Background())
	require.NoError(t, err)
	assert.Greater(t, recovered.Version, first.Version)
}

func TestRefreshAppliesDefaults(t *testing.T) {
	store := sampleStore()
	store.feeFound = false
	store.items = append(store.items, models.Item{ID: "it-legacy", Name: "OLD", TotalBoxes: 20})

	o := NewOrchestrator(store, 500, time.Second, defaults())
	snap, err := o.Refresh(context.Background())
	require.NoError(t, err)

	// No settings row: fall back to the configured default fee.
	assert.Equal(t, 50.0, snap.Settings.RegistrationFee)

	// Blank zone name filled.
	loc, ok := snap.LocationByID("loc-2")
	require.True(t, ok)
	assert.Equal(t, "Unknown Zone", loc.Name)

	// Legacy item gets the default rate and a derived price.
	it, ok := snap.ItemByID("it-legacy")
	require.True(t, ok)
	assert.Equal(t, 10.0, it.BoxValue)
	assert.Equal(t, 200.0, it.Price)
}

func TestRefreshHonorsPaymentWindow(t *testing.T) {
	store := sampleStore()
	for i := 0; i < 10; i++ {
		store.payments = append(store.payments, models.Payment{ID: "extra", Amount: 1})
	}
	o := NewOrchestrator(store, 5, time.Second, defaults())

	snap, err := o.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Payments, 5)
}

func TestObserversSeeEachPublication(t *testing.T) {
	store := sampleStore()
	o := NewOrchestrator(store, 500, time.Second, defaults())

	var seen []int64
	o.Subscribe(func(_ context.Context, snap *Snapshot) {
		seen = append(seen, snap.Version)
	})

	_, err := o.Refresh(context.Background())
	require.NoError(t, err)
	store.failPayments = errors.New("boom")
	_, _ = o.Refresh(context.Background())
	store.failPayments = nil
	_, err = o.Refresh(context.Background())
	require.NoError(t, err)

	// Observers fire only on successful publications.
	assert.Equal(t, []int64{1, 2}, seen)
}

func TestSnapshotAgentViews(t *testing.T) {
	store := sampleStore()
	store.customers = []models.Customer{
		{ID: "c-1", AgentID: "ag-1", Active: true},
		{ID: "c-2", AgentID: "ag-1", Active: false}, // deactivated: admin-only
		{ID: "c-3", AgentID: "ag-9", Active: true},
	}
	o := NewOrchestrator(store, 500, time.Second, defaults())
	snap, err := o.Refresh(context.Background())
	require.NoError(t, err)

	mine := snap.CustomersForAgent("ag-1")
	require.Len(t, mine, 1)
	assert.Equal(t, "c-1", mine[0].ID)
}
