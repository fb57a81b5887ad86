package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ardidrizi/inventory-saas/pkg/config"
	"github.com/ardidrizi/inventory-saas/pkg/db/models"
	"github.com/ardidrizi/inventory-saas/pkg/enums"
	pkgerrors "github.com/ardidrizi/inventory-saas/pkg/errors"
	"github.com/ardidrizi/inventory-saas/pkg/logger"
)

// seriesDays is the span of the per-day order/revenue series.
const seriesDays = 30

const recentOrderLimit = 5

// RecentOrderDTO is a dashboard row for a freshly created order.
type RecentOrderDTO struct {
	ID          uuid.UUID         `json:"id"`
	OrderNumber string            `json:"orderNumber"`
	Status      enums.OrderStatus `json:"status"`
	TotalAmount decimal.Decimal   `json:"totalAmount"`
	CreatorName string            `json:"creatorName,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// LowStockItemDTO flags a product that needs restocking.
type LowStockItemDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	SKU      string    `json:"sku"`
	Quantity int       `json:"quantity"`
}

// DayPointDTO is one day of the trailing series.
type DayPointDTO struct {
	Date    string          `json:"date"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// StatsDTO is the aggregated dashboard payload.
type StatsDTO struct {
	TotalProducts  int64                       `json:"totalProducts"`
	TotalOrders    int64                       `json:"totalOrders"`
	TotalUsers     int64                       `json:"totalUsers"`
	TotalRevenue   decimal.Decimal             `json:"totalRevenue"`
	LowStockCount  int64                       `json:"lowStockCount"`
	LowStockItems  []LowStockItemDTO           `json:"lowStockItems"`
	RecentOrders   []RecentOrderDTO            `json:"recentOrders"`
	OrdersByStatus map[enums.OrderStatus]int64 `json:"ordersByStatus"`
	DailySeries    []DayPointDTO               `json:"dailySeries"`
}

type productCounter interface {
	CountActive(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context, threshold int) (int64, error)
	LowStock(ctx context.Context, threshold, limit int) ([]models.Product, error)
}

type statsCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(parts ...string) string
}

// Service exposes the dashboard aggregation.
type Service interface {
	Stats(ctx context.Context) (*StatsDTO, error)
}

type service struct {
	repo     *Repository
	products productCounter
	cache    statsCache
	logg     *logger.Logger
	cfg      config.DashboardConfig
}

// ServiceParams bundles the dependencies required to build a dashboard
// service. Cache may be nil; stats are then computed on every call.
type ServiceParams struct {
	Repo     *Repository
	Products productCounter
	Cache    statsCache
	Logger   *logger.Logger
	Config   config.DashboardConfig
}

// NewService constructs a dashboard service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("dashboard repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product store is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		repo:     params.Repo,
		products: params.Products,
		cache:    params.Cache,
		logg:     params.Logger,
		cfg:      params.Config,
	}, nil
}

func (s *service) Stats(ctx context.Context) (*StatsDTO, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	stats, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, stats)
	return stats, nil
}

func (s *service) compute(ctx context.Context) (*StatsDTO, error) {
	stats := &StatsDTO{TotalRevenue: decimal.Zero}

	var err error
	if stats.TotalProducts, err = s.products.CountActive(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count products")
	}
	if stats.TotalOrders, err = s.repo.CountOrders(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count orders")
	}
	if stats.TotalUsers, err = s.repo.CountUsers(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count users")
	}
	if stats.TotalRevenue, err = s.repo.Revenue(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum revenue")
	}
	if stats.OrdersByStatus, err = s.repo.CountByStatus(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count orders by status")
	}

	threshold := s.cfg.LowStockLimit
	if stats.LowStockCount, err = s.products.CountLowStock(ctx, threshold); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count low stock")
	}
	lowStock, err := s.products.LowStock(ctx, threshold, threshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list low stock")
	}
	stats.LowStockItems = make([]LowStockItemDTO, 0, len(lowStock))
	for _, product := range lowStock {
		stats.LowStockItems = append(stats.LowStockItems, LowStockItemDTO{
			ID:       product.ID,
			Name:     product.Name,
			SKU:      product.SKU,
			Quantity: product.Quantity,
		})
	}

	recent, err := s.repo.RecentOrders(ctx, recentOrderLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list recent orders")
	}
	stats.RecentOrders = make([]RecentOrderDTO, 0, len(recent))
	for _, order := range recent {
		row := RecentOrderDTO{
			ID:          order.ID,
			OrderNumber: order.OrderNumber,
			Status:      order.Status,
			TotalAmount: order.TotalAmount,
			CreatedAt:   order.CreatedAt,
		}
		if order.Creator != nil {
			row.CreatorName = order.Creator.Name
		}
		stats.RecentOrders = append(stats.RecentOrders, row)
	}

	if stats.DailySeries, err = s.dailySeries(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}

// dailySeries folds the trailing 30 days of orders into one zero-filled
// point per day. Cancelled orders still count as orders but contribute
// no revenue.
func (s *service) dailySeries(ctx context.Context) ([]DayPointDTO, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -(seriesDays - 1))

	rows, err := s.repo.OrdersSince(ctx, start)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order series")
	}

	byDay := make(map[string]*DayPointDTO, seriesDays)
	series := make([]DayPointDTO, seriesDays)
	for i := 0; i < seriesDays; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		series[i] = DayPointDTO{Date: date, Revenue: decimal.Zero}
		byDay[date] = &series[i]
	}

	for _, order := range rows {
		point, ok := byDay[order.CreatedAt.UTC().Format("2006-01-02")]
		if !ok {
			continue
		}
		point.Orders++
		if order.Status != enums.OrderStatusCancelled {
			point.Revenue = point.Revenue.Add(order.TotalAmount)
		}
	}
	return series, nil
}

func (s *service) fromCache(ctx context.Context) *StatsDTO {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, s.cache.CacheKey("dashboard", "stats"))
	if err != nil {
		return nil
	}
	var stats StatsDTO
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		s.logg.Warn(ctx, "discarding unreadable dashboard cache entry")
		return nil
	}
	return &stats
}

func (s *service) toCache(ctx context.Context, stats *StatsDTO) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.CacheKey("dashboard", "stats"), payload, s.cfg.StatsCacheTTL); err != nil {
		s.logg.Warn(ctx, "failed to cache dashboard stats")
	}
}
