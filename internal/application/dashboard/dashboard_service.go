package dashboard

import (
	"context"
	"time"

	"github.com/xuanhoa/backend/internal/domain/manufacturing"
	"github.com/xuanhoa/backend/internal/domain/shared"
	"github.com/xuanhoa/backend/internal/domain/stock"
	"github.com/xuanhoa/backend/internal/infrastructure/cache"
	"go.uber.org/zap"
)

const kpiCacheKey = "dashboard:kpi"

// WorkOrderCounts breaks down active work orders by status.
type WorkOrderCounts struct {
	NotStarted int64 `json:"not_started"`
	InProcess  int64 `json:"in_process"`
	Completed  int64 `json:"completed"`
	Stopped    int64 `json:"stopped"`
}

// KPI is the headline dashboard payload.
type KPI struct {
	WorkOrders    WorkOrderCounts `json:"work_orders"`
	StockValue    string          `json:"stock_value"`
	ReceiptsToday int64           `json:"receipts_today"`
	IssuesToday   int64           `json:"issues_today"`
}

// Activity is one recent document for the dashboard feed.
type Activity struct {
	Doctype     string    `json:"doctype"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
}

// DashboardService aggregates KPI numbers for the landing page. Results
// are cached briefly since the page polls.
type DashboardService struct {
	workOrders manufacturing.WorkOrderRepository
	entries    stock.StockEntryRepository
	bins       stock.BinRepository
	cache      cache.Cache
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	workOrders manufacturing.WorkOrderRepository,
	entries stock.StockEntryRepository,
	bins stock.BinRepository,
	c cache.Cache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		workOrders: workOrders,
		entries:    entries,
		bins:       bins,
		cache:      c,
		cacheTTL:   cacheTTL,
		logger:     logger.Named("dashboard"),
	}
}

// KPI returns the dashboard headline numbers, served from cache when fresh
func (s *DashboardService) KPI(ctx context.Context) (*KPI, error) {
	var cached KPI
	if hit, err := s.cache.Get(ctx, kpiCacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	kpi, err := s.computeKPI(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, kpiCacheKey, kpi, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache dashboard KPI", zap.Error(err))
	}
	return kpi, nil
}

func (s *DashboardService) computeKPI(ctx context.Context) (*KPI, error) {
	kpi := &KPI{}

	counts := []struct {
		status manufacturing.WorkOrderStatus
		dest   *int64
	}{
		{manufacturing.StatusNotStarted, &kpi.WorkOrders.NotStarted},
		{manufacturing.StatusInProcess, &kpi.WorkOrders.InProcess},
		{manufacturing.StatusCompleted, &kpi.WorkOrders.Completed},
		{manufacturing.StatusStopped, &kpi.WorkOrders.Stopped},
	}
	for _, c := range counts {
		n, err := s.workOrders.CountByStatus(ctx, c.status)
		if err != nil {
			return nil, err
		}
		*c.dest = n
	}

	value, err := s.bins.TotalStockValue(ctx)
	if err != nil {
		return nil, err
	}
	kpi.StockValue = value

	today := time.Now()
	if kpi.ReceiptsToday, err = s.entries.CountByPurposeAndDate(ctx, stock.PurposeMaterialReceipt, today); err != nil {
		return nil, err
	}
	if kpi.IssuesToday, err = s.entries.CountByPurposeAndDate(ctx, stock.PurposeMaterialIssue, today); err != nil {
		return nil, err
	}
	return kpi, nil
}

// RecentActivities returns the latest stock entries and work orders merged
// into one feed, newest first
func (s *DashboardService) RecentActivities(ctx context.Context, limit int) ([]Activity, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	filter := shared.Filter{Page: 1, PageSize: limit, OrderBy: "updated_at", OrderDir: "desc"}
	entries, _, err := s.entries.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	orders, _, err := s.workOrders.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	activities := make([]Activity, 0, len(entries)+len(orders))
	for _, e := range entries {
		activities = append(activities, Activity{
			Doctype:     "Stock Entry",
			Name:        e.Name,
			Description: e.Purpose.Label(),
			Status:      e.DocStatus.String(),
			Timestamp:   e.UpdatedAt,
		})
	}
	for _, wo := range orders {
		activities = append(activities, Activity{
			Doctype:     "Work Order",
			Name:        wo.Name,
			Description: wo.ItemName,
			Status:      string(wo.Status),
			Timestamp:   wo.UpdatedAt,
		})
	}

	// Merge and keep the newest entries overall
	for i := 1; i < len(activities); i++ {
		for j := i; j > 0 && activities[j].Timestamp.After(activities[j-1].Timestamp); j-- {
			activities[j], activities[j-1] = activities[j-1], activities[j]
		}
	}
	if len(activities) > limit {
		activities = activities[:limit]
	}
	return activities, nil
}
