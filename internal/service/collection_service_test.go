package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cruzaro/hpcollect/internal/repository"
	"github.com/cruzaro/hpcollect/internal/snapshot"
	"github.com/cruzaro/hpcollect/internal/utils"
)

var sampleTime = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

// stubRefresher satisfies Refresher without touching a store.
type stubRefresher struct {
	calls int
}

func (r *stubRefresher) Refresh(ctx context.Context) (*snapshot.Snapshot, error) {
	r.calls++
	return snapshot.Seal(snapshot.Snapshot{Version: int64(r.calls)}), nil
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func newCollectionService(db *sqlx.DB, refresher Refresher) *CollectionService {
	return NewCollectionService(
		repository.NewPaymentRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewItemRepository(db),
		refresher,
	)
}

func expectProductLookup(mock sqlmock.Sqlmock, balance float64) {
	mock.ExpectQuery(`FROM customer_products WHERE customer_id = \$1 AND item_id = \$2`).
		WithArgs("cust-1", "item-1").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "customer_id", "item_id", "total_amount", "cost_basis", "balance", "created_at"},
		).AddRow("prod-1", "cust-1", "item-1", 500.0, 500.0, balance, sampleTime))

	mock.ExpectQuery(`FROM items WHERE id = \$1`).
		WithArgs("item-1").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "name", "box_value", "total_boxes", "price", "image_url"},
		).AddRow("item-1", "Fridge", 10.0, 50, 500.0, ""))
}

func TestCollectRecordsPaymentAndBalanceAtomically(t *testing.T) {
	db, mock := newMockDB(t)
	refresher := &stubRefresher{}
	svc := newCollectionService(db, refresher)

	expectProductLookup(mock, 470.0)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO payments`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE customer_products SET balance = \$1 WHERE id = \$2`).
		WithArgs(440.0, "prod-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	payment, err := svc.Collect(context.Background(), &CollectRequest{
		CustomerID: "cust-1",
		ItemID:     "item-1",
		AgentID:    "agent-1",
		BoxCount:   3,
	})
	require.NoError(t, err)
	assert.Equal(t, 30.0, payment.Amount)
	assert.Equal(t, 3, payment.BoxCount)
	assert.Equal(t, 1, refresher.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectRejectsNonPositiveBoxCount(t *testing.T) {
	db, _ := newMockDB(t)
	svc := newCollectionService(db, &stubRefresher{})

	_, err := svc.Collect(context.Background(), &CollectRequest{
		CustomerID: "cust-1", ItemID: "item-1", AgentID: "agent-1", BoxCount: 0,
	})
	assert.ErrorIs(t, err, utils.ErrInvalidBoxCount)
}

func TestCollectOverCollectionNeedsConfirmation(t *testing.T) {
	db, mock := newMockDB(t)
	refresher := &stubRefresher{}
	svc := newCollectionService(db, refresher)

	// 25 remaining covers 3 boxes at 10 each, so 4 is over-collection.
	expectProductLookup(mock, 25.0)

	_, err := svc.Collect(context.Background(), &CollectRequest{
		CustomerID: "cust-1", ItemID: "item-1", AgentID: "agent-1", BoxCount: 4,
	})
	assert.ErrorIs(t, err, utils.ErrOverCollection)
	assert.Zero(t, refresher.calls, "rejected collection must not trigger a refresh")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectConfirmedOverCollectionGoesNegative(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newCollectionService(db, &stubRefresher{})

	expectProductLookup(mock, 25.0)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO payments`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE customer_products SET balance = \$1 WHERE id = \$2`).
		WithArgs(-15.0, "prod-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	payment, err := svc.Collect(context.Background(), &CollectRequest{
		CustomerID: "cust-1", ItemID: "item-1", AgentID: "agent-1",
		BoxCount: 4, Confirmed: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 40.0, payment.Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectRollsBackWhenBalanceUpdateMisses(t *testing.T) {
	db, mock := newMockDB(t)
	refresher := &stubRefresher{}
	svc := newCollectionService(db, refresher)

	expectProductLookup(mock, 470.0)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO payments`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE customer_products SET balance = \$1 WHERE id = \$2`).
		WithArgs(440.0, "prod-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.Collect(context.Background(), &CollectRequest{
		CustomerID: "cust-1", ItemID: "item-1", AgentID: "agent-1", BoxCount: 3,
	})
	require.Error(t, err)
	assert.Zero(t, refresher.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectUnknownAssignment(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newCollectionService(db, &stubRefresher{})

	mock.ExpectQuery(`FROM customer_products WHERE customer_id = \$1 AND item_id = \$2`).
		WithArgs("cust-1", "item-9").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Collect(context.Background(), &CollectRequest{
		CustomerID: "cust-1", ItemID: "item-9", AgentID: "agent-1", BoxCount: 1,
	})
	assert.ErrorIs(t, err, utils.ErrProductNotFound)
}
