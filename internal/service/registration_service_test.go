package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cruzaro/hpcollect/internal/repository"
	"github.com/cruzaro/hpcollect/internal/utils"
)

func newRegistrationService(db *sqlx.DB, refresher Refresher) *RegistrationService {
	return NewRegistrationService(
		repository.NewCustomerRepository(db),
		repository.NewItemRepository(db),
		repository.NewSettingsRepository(db),
		50.0,
		refresher,
	)
}

func TestRegisterUsesDefaultFeeWhenUnset(t *testing.T) {
	db, mock := newMockDB(t)
	refresher := &stubRefresher{}
	svc := newRegistrationService(db, refresher)

	mock.ExpectQuery(`SELECT value FROM settings WHERE key = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"value"})) // no row saved yet

	mock.ExpectQuery(`INSERT INTO customers`).
		WithArgs(sqlmock.AnyArg(), "Ama Mensah", "0244000001", "loc-1", "agent-1", 50.0, true).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(sampleTime))

	mock.ExpectQuery(`FROM items WHERE id = \$1`).
		WithArgs("item-1").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "name", "box_value", "total_boxes", "price", "image_url"},
		).AddRow("item-1", "Fridge", 10.0, 50, 500.0, ""))

	mock.ExpectQuery(`INSERT INTO customer_products`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "item-1", 500.0, 500.0, 500.0).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(sampleTime))

	customer, err := svc.Register(context.Background(), &RegisterRequest{
		Name:       "  Ama Mensah ",
		Phone:      " 0244000001 ",
		LocationID: "loc-1",
		AgentID:    "agent-1",
		ItemID:     "item-1",
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, customer.RegistrationFeePaid)
	assert.True(t, customer.Active)
	require.Len(t, customer.Products, 1)
	assert.Equal(t, 500.0, customer.Products[0].Balance)
	assert.Equal(t, customer.Products[0].TotalAmount, customer.Products[0].Balance,
		"assigned debt must start fully unpaid")
	assert.Equal(t, 1, refresher.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterUsesSavedFee(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newRegistrationService(db, &stubRefresher{})

	mock.ExpectQuery(`SELECT value FROM settings WHERE key = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(75.0))

	mock.ExpectQuery(`INSERT INTO customers`).
		WithArgs(sqlmock.AnyArg(), "Kofi Owusu", "0244000002", "loc-1", "agent-1", 75.0, true).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(sampleTime))

	mock.ExpectQuery(`FROM items WHERE id = \$1`).
		WithArgs("item-1").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "name", "box_value", "total_boxes", "price", "image_url"},
		).AddRow("item-1", "Fridge", 10.0, 50, 500.0, ""))

	mock.ExpectQuery(`INSERT INTO customer_products`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(sampleTime))

	customer, err := svc.Register(context.Background(), &RegisterRequest{
		Name: "Kofi Owusu", Phone: "0244000002",
		LocationID: "loc-1", AgentID: "agent-1", ItemID: "item-1",
	})
	require.NoError(t, err)
	assert.Equal(t, 75.0, customer.RegistrationFeePaid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterRejectsBlankFields(t *testing.T) {
	db, _ := newMockDB(t)
	svc := newRegistrationService(db, &stubRefresher{})

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Name: "   ", Phone: "0244000001",
		LocationID: "loc-1", AgentID: "agent-1", ItemID: "item-1",
	})
	assert.ErrorIs(t, err, utils.ErrMissingField)
}

func TestAssignProductDerivesLegacyPrice(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newRegistrationService(db, &stubRefresher{})

	mock.ExpectQuery(`FROM customers WHERE id = \$1`).
		WithArgs("cust-1").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "name", "phone", "location_id", "agent_id", "registration_fee_paid", "active", "created_at"},
		).AddRow("cust-1", "Ama Mensah", "0244000001", "loc-1", "agent-1", 50.0, true, sampleTime))
	mock.ExpectQuery(`FROM customer_products WHERE customer_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	// Legacy item row with no stored price; debt falls back to boxValue * totalBoxes.
	mock.ExpectQuery(`FROM items WHERE id = \$1`).
		WithArgs("item-2").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "name", "box_value", "total_boxes", "price", "image_url"},
		).AddRow("item-2", "Stove", 20.0, 15, 0.0, ""))

	mock.ExpectQuery(`INSERT INTO customer_products`).
		WithArgs(sqlmock.AnyArg(), "cust-1", "item-2", 300.0, 300.0, 300.0).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(sampleTime))

	product, err := svc.AssignProduct(context.Background(), "cust-1", "item-2")
	require.NoError(t, err)
	assert.Equal(t, 300.0, product.TotalAmount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignProductUnknownCustomer(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newRegistrationService(db, &stubRefresher{})

	mock.ExpectQuery(`FROM customers WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.AssignProduct(context.Background(), "missing", "item-1")
	assert.ErrorIs(t, err, utils.ErrCustomerNotFound)
}
