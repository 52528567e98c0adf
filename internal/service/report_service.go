package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cruzaro/hpcollect/internal/cache"
	"github.com/cruzaro/hpcollect/internal/ledger"
	"github.com/cruzaro/hpcollect/internal/models"
	"github.com/cruzaro/hpcollect/internal/repository"
)

// ReportService builds the admin reporting views: the daily collection
// total, the merged historical feed, and the dashboard aggregates.
type ReportService struct {
	paymentRepo  *repository.PaymentRepository
	customerRepo *repository.CustomerRepository
	reportCache  *cache.ReportCache
	snapshots    SnapshotSource
}

// NewReportService constructs a ReportService.
func NewReportService(
	paymentRepo *repository.PaymentRepository,
	customerRepo *repository.CustomerRepository,
	reportCache *cache.ReportCache,
	snapshots SnapshotSource,
) *ReportService {
	return &ReportService{
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		reportCache:  reportCache,
		snapshots:    snapshots,
	}
}

// dayWindow returns the inclusive [00:00:00, 23:59:59] bounds of a calendar
// day in the given location.
func dayWindow(date time.Time) (start, end time.Time) {
	y, m, d := date.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	end = time.Date(y, m, d, 23, 59, 59, 0, date.Location())
	return start, end
}

// DailyTotal returns the sum collected on one calendar day. Cached totals
// are served when present; the cache is best-effort and the database sum is
// authoritative.
func (s *ReportService) DailyTotal(ctx context.Context, date time.Time) (float64, error) {
	key := date.Format("2006-01-02")
	if s.reportCache != nil {
		if total, ok := s.reportCache.GetDailyTotal(ctx, key); ok {
			return total, nil
		}
	}

	start, end := dayWindow(date)
	total, err := s.paymentRepo.SumByDateRange(ctx, start, end)
	if err != nil {
		return 0, err
	}

	if s.reportCache != nil {
		if err := s.reportCache.SetDailyTotal(ctx, key, total); err != nil {
			log.Warn().Err(err).Str("date", key).Msg("daily total cache write failed")
		}
	}
	return total, nil
}

// HistoryFeed merges payments and product assignments inside a window into
// one stream, newest first. Entries with equal timestamps keep payments
// ahead of assignments, so repeated builds of the same window render
// identically.
func (s *ReportService) HistoryFeed(ctx context.Context, start, end time.Time) ([]models.Activity, error) {
	snap, err := s.snapshots.Current()
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.ByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	links, err := s.customerRepo.ProductsCreatedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	feed := make([]models.Activity, 0, len(payments)+len(links))
	for _, p := range payments {
		a := models.Activity{
			ID:        p.ID,
			Type:      models.ActivityCollection,
			Date:      p.PaymentDate,
			AgentName: "Unknown Agent",
			Amount:    p.Amount,
		}
		if agent, ok := snap.AgentByID(p.AgentID); ok {
			a.AgentName = agent.FullName()
		}
		customerName := "Unknown Customer"
		if c, ok := snap.CustomerByID(p.CustomerID); ok {
			customerName = c.Name
		}
		a.Title = fmt.Sprintf("%d box(es) collected from %s", p.BoxCount, customerName)
		feed = append(feed, a)
	}
	for _, l := range links {
		a := models.Activity{
			ID:     l.ID,
			Type:   models.ActivityLink,
			Date:   l.CreatedAt,
			Amount: l.TotalAmount,
		}
		customerName := "Unknown Customer"
		if c, ok := snap.CustomerByID(l.CustomerID); ok {
			customerName = c.Name
			if agent, ok := snap.AgentByID(c.AgentID); ok {
				a.AgentName = agent.FullName()
			}
		}
		itemName := "Unknown Item"
		if item, ok := snap.ItemByID(l.ItemID); ok {
			itemName = item.Name
		}
		a.Title = fmt.Sprintf("%s assigned to %s", itemName, customerName)
		feed = append(feed, a)
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Date.After(feed[j].Date)
	})
	return feed, nil
}

// Dashboard is the admin overview, derived entirely from one snapshot.
type Dashboard struct {
	SnapshotVersion    int64   `json:"snapshotVersion"`
	TotalCustomers     int     `json:"totalCustomers"`
	ActiveCustomers    int     `json:"activeCustomers"`
	TotalAgents        int     `json:"totalAgents"`
	ActiveAgents       int     `json:"activeAgents"`
	SystemRevenue      float64 `json:"systemRevenue"`
	ProjectedRevenue   float64 `json:"projectedRevenue"`
	OutstandingTotal   float64 `json:"outstandingTotal"`
	RegistrationIncome float64 `json:"registrationIncome"`
	RegisteredPaying   int     `json:"registeredPaying"`
}

// Dashboard builds the admin aggregate view.
func (s *ReportService) Dashboard() (*Dashboard, error) {
	snap, err := s.snapshots.Current()
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		SnapshotVersion:  snap.Version,
		TotalCustomers:   len(snap.Customers),
		TotalAgents:      len(snap.Agents),
		SystemRevenue:    ledger.SystemRevenue(snap.Customers, snap.Payments),
		ProjectedRevenue: ledger.ProjectedRevenue(snap.Customers),
	}
	d.RegistrationIncome, d.RegisteredPaying = ledger.RegistrationIncome(snap.Customers)

	items := snap.ItemIndex()
	for _, c := range snap.Customers {
		if c.Active {
			d.ActiveCustomers++
		}
		amount, _ := ledger.CustomerOutstanding(c, items)
		d.OutstandingTotal += amount
	}
	for _, a := range snap.Agents {
		if a.Active {
			d.ActiveAgents++
		}
	}
	return d, nil
}
