package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cruzaro/hpcollect/internal/models"
	"github.com/cruzaro/hpcollect/internal/repository"
	"github.com/cruzaro/hpcollect/internal/snapshot"
	"github.com/cruzaro/hpcollect/internal/utils"
)

func newCustomerService(db *sqlx.DB, refresher Refresher, snaps SnapshotSource) *CustomerService {
	return NewCustomerService(
		repository.NewCustomerRepository(db),
		repository.NewAgentRepository(db),
		refresher,
		snaps,
	)
}

func expectCustomerLookup(mock sqlmock.Sqlmock, id, agentID string) {
	mock.ExpectQuery(`FROM customers WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "name", "phone", "location_id", "agent_id", "registration_fee_paid", "active", "created_at"},
		).AddRow(id, "Ama Mensah", "0244000001", "loc-1", agentID, 50.0, true, sampleTime))
	mock.ExpectQuery(`FROM customer_products WHERE customer_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
}

func TestTransferRejectsSameAgent(t *testing.T) {
	db, mock := newMockDB(t)
	refresher := &stubRefresher{}
	svc := newCustomerService(db, refresher, nil)

	expectCustomerLookup(mock, "cust-1", "agent-1")

	err := svc.Transfer(context.Background(), "cust-1", "agent-1")
	assert.ErrorIs(t, err, utils.ErrNoChange)
	assert.Zero(t, refresher.calls)
}

func TestTransferReassigns(t *testing.T) {
	db, mock := newMockDB(t)
	refresher := &stubRefresher{}
	svc := newCustomerService(db, refresher, nil)

	expectCustomerLookup(mock, "cust-1", "agent-1")
	mock.ExpectQuery(`FROM agents WHERE id = \$1`).
		WithArgs("agent-2").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "profile_id", "email", "first_name", "last_name", "phone", "location_id", "active", "created_at"},
		).AddRow("agent-2", "prof-2", "yaw@cruzaro.com", "Yaw", "Boateng", "", "loc-1", true, sampleTime))
	mock.ExpectExec(`UPDATE customers SET agent_id = \$1 WHERE id = \$2`).
		WithArgs("agent-2", "cust-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.Transfer(context.Background(), "cust-1", "agent-2")
	require.NoError(t, err)
	assert.Equal(t, 1, refresher.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferUnknownTargetAgent(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newCustomerService(db, &stubRefresher{}, nil)

	expectCustomerLookup(mock, "cust-1", "agent-1")
	mock.ExpectQuery(`FROM agents WHERE id = \$1`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := svc.Transfer(context.Background(), "cust-1", "ghost")
	assert.ErrorIs(t, err, utils.ErrAgentNotFound)
}

func TestStatementDerivesLedgerFromSnapshot(t *testing.T) {
	db, _ := newMockDB(t)
	snap := snapshot.Seal(snapshot.Snapshot{
		Version: 3,
		Agents: []models.Agent{
			{ID: "agent-1", FirstName: "Yaw", LastName: "Boateng"},
		},
		Locations: []models.Location{{ID: "loc-1", Name: "Adabraka"}},
		Items: []models.Item{
			{ID: "item-1", Name: "Fridge", BoxValue: 10, TotalBoxes: 50, Price: 500},
		},
		Customers: []models.Customer{
			{
				ID: "cust-1", Name: "Ama Mensah", AgentID: "agent-1", LocationID: "loc-1", Active: true,
				Products: []models.CustomerProduct{
					{ID: "prod-1", CustomerID: "cust-1", ItemID: "item-1", TotalAmount: 500, Balance: 470},
				},
			},
		},
		Payments: []models.Payment{
			{ID: "pay-1", CustomerID: "cust-1", AgentID: "agent-1", Amount: 30, BoxCount: 3},
		},
	})
	svc := newCustomerService(db, &stubRefresher{}, &stubSource{snap: snap})

	st, err := svc.Statement("cust-1")
	require.NoError(t, err)
	assert.Equal(t, "Yaw Boateng", st.AgentName)
	assert.Equal(t, "Adabraka", st.LocationName)
	assert.Equal(t, 30.0, st.TotalPaid)
	assert.Equal(t, 3, st.TotalBoxesPaid)
	assert.Equal(t, 470.0, st.OutstandingTotal)
	assert.Equal(t, 47, st.OutstandingBoxes)
	require.Len(t, st.Portfolio, 1)
	assert.Equal(t, 50, st.Portfolio[0].OriginalBoxes)
	assert.Equal(t, 47, st.Portfolio[0].BoxesLeft)
	require.Len(t, st.History, 1)
}

func TestStatementUnknownCustomer(t *testing.T) {
	db, _ := newMockDB(t)
	svc := newCustomerService(db, &stubRefresher{}, &stubSource{snap: snapshot.Seal(snapshot.Snapshot{})})

	_, err := svc.Statement("ghost")
	assert.ErrorIs(t, err, utils.ErrCustomerNotFound)
}
