package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cruzaro/hpcollect/internal/models"
	"github.com/cruzaro/hpcollect/internal/repository"
	"github.com/cruzaro/hpcollect/internal/snapshot"
)

// stubSource serves one fixed snapshot.
type stubSource struct {
	snap *snapshot.Snapshot
}

func (s *stubSource) Current() (*snapshot.Snapshot, error) {
	return s.snap, nil
}

func reportFixture() *snapshot.Snapshot {
	return snapshot.Seal(snapshot.Snapshot{
		Version: 1,
		Agents: []models.Agent{
			{ID: "agent-1", FirstName: "Yaw", LastName: "Boateng", Active: true},
		},
		Items: []models.Item{
			{ID: "item-1", Name: "Fridge", BoxValue: 10, TotalBoxes: 50, Price: 500},
		},
		Customers: []models.Customer{
			{ID: "cust-1", Name: "Ama Mensah", AgentID: "agent-1", Active: true},
		},
	})
}

func TestHistoryFeedMergesNewestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewReportService(
		repository.NewPaymentRepository(db),
		repository.NewCustomerRepository(db),
		nil,
		&stubSource{snap: reportFixture()},
	)

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time {
		return time.Date(2025, 6, 1, h, m, 0, 0, time.UTC)
	}

	mock.ExpectQuery(`FROM payments`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "customer_id", "item_id", "agent_id", "amount", "box_count", "payment_date"},
		).
			AddRow("pay-2", "cust-1", "item-1", "agent-1", 50.0, 5, at(10, 5)).
			AddRow("pay-1", "cust-1", "item-1", "agent-1", 30.0, 3, at(10, 0)))
	mock.ExpectQuery(`FROM customer_products`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "customer_id", "item_id", "total_amount", "cost_basis", "balance", "created_at"},
		).AddRow("prod-1", "cust-1", "item-1", 500.0, 500.0, 500.0, at(10, 2)))

	feed, err := svc.HistoryFeed(context.Background(), day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, feed, 3)

	assert.Equal(t, "pay-2", feed[0].ID)
	assert.Equal(t, models.ActivityCollection, feed[0].Type)
	assert.Equal(t, "prod-1", feed[1].ID)
	assert.Equal(t, models.ActivityLink, feed[1].Type)
	assert.Equal(t, "pay-1", feed[2].ID)

	assert.Equal(t, "Yaw Boateng", feed[0].AgentName)
	assert.Equal(t, "Yaw Boateng", feed[1].AgentName, "link inherits the customer's agent")
	assert.Equal(t, "Fridge assigned to Ama Mensah", feed[1].Title)
}

func TestHistoryFeedEqualTimestampsKeepPaymentsFirst(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewReportService(
		repository.NewPaymentRepository(db),
		repository.NewCustomerRepository(db),
		nil,
		&stubSource{snap: reportFixture()},
	)

	tick := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM payments`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "customer_id", "item_id", "agent_id", "amount", "box_count", "payment_date"},
		).AddRow("pay-1", "cust-1", "item-1", "agent-1", 30.0, 3, tick))
	mock.ExpectQuery(`FROM customer_products`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "customer_id", "item_id", "total_amount", "cost_basis", "balance", "created_at"},
		).AddRow("prod-1", "cust-1", "item-1", 500.0, 500.0, 500.0, tick))

	feed, err := svc.HistoryFeed(context.Background(), tick.Add(-time.Hour), tick.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, models.ActivityCollection, feed[0].Type)
	assert.Equal(t, models.ActivityLink, feed[1].Type)
}

func TestDailyTotalUsesInclusiveDayBounds(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewReportService(
		repository.NewPaymentRepository(db),
		repository.NewCustomerRepository(db),
		nil,
		&stubSource{snap: reportFixture()},
	)

	day := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 1, 23, 59, 59, 0, time.UTC)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM payments`).
		WithArgs(start, end).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(230.0))

	total, err := svc.DailyTotal(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, 230.0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardAggregates(t *testing.T) {
	db, _ := newMockDB(t)
	snap := snapshot.Seal(snapshot.Snapshot{
		Version: 7,
		Agents: []models.Agent{
			{ID: "agent-1", Active: true},
			{ID: "agent-2", Active: false},
		},
		Items: []models.Item{
			{ID: "item-1", BoxValue: 10, TotalBoxes: 50, Price: 500},
		},
		Customers: []models.Customer{
			{
				ID: "cust-1", AgentID: "agent-1", Active: true, RegistrationFeePaid: 50,
				Products: []models.CustomerProduct{
					{ID: "prod-1", CustomerID: "cust-1", ItemID: "item-1", TotalAmount: 500, Balance: 470},
				},
			},
			{ID: "cust-2", AgentID: "agent-1", Active: false},
		},
		Payments: []models.Payment{
			{ID: "pay-1", CustomerID: "cust-1", AgentID: "agent-1", Amount: 30, BoxCount: 3},
		},
	})
	svc := NewReportService(
		repository.NewPaymentRepository(db),
		repository.NewCustomerRepository(db),
		nil,
		&stubSource{snap: snap},
	)

	d, err := svc.Dashboard()
	require.NoError(t, err)
	assert.Equal(t, int64(7), d.SnapshotVersion)
	assert.Equal(t, 2, d.TotalCustomers)
	assert.Equal(t, 1, d.ActiveCustomers)
	assert.Equal(t, 1, d.ActiveAgents)
	assert.Equal(t, 80.0, d.SystemRevenue, "payments plus registration fees")
	assert.Equal(t, 500.0, d.ProjectedRevenue)
	assert.Equal(t, 470.0, d.OutstandingTotal)
	assert.Equal(t, 50.0, d.RegistrationIncome)
	assert.Equal(t, 1, d.RegisteredPaying)
}
