package services

import (
	"context"
	"time"

	"github.com/foodhub/foodhub-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const trendMonths = 6

// MonthCount is one bucket of a monthly trend
type MonthCount struct {
	Month string `json:"month"` // YYYY-MM
	Count int64  `json:"count"`
}

// DashboardStats is the staff overview
type DashboardStats struct {
	TotalUsers  int64           `json:"total_users"`
	TotalOrders int64           `json:"total_orders"`
	TotalSales  decimal.Decimal `json:"total_sales"`
	UserGrowth  []MonthCount    `json:"user_growth"`
	OrderTrends []MonthCount    `json:"order_trends"`
}

// DashboardService computes staff statistics
type DashboardService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDashboardService creates a dashboard service on the given database handle
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db, now: time.Now}
}

// Stats returns totals plus the last six months of signups and orders, oldest month first.
// Months are bucketed in Go so the query is the same on every database.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &DashboardStats{TotalSales: decimal.Zero}

	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, NewStorageError("Failed to count users", err)
	}
	if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, NewStorageError("Failed to count orders", err)
	}

	var sales struct {
		Total decimal.NullDecimal
	}
	err := db.Model(&models.Order{}).
		Select("SUM(total_amount) AS total").
		Where("order_status = ?", models.OrderStatusDelivered).
		Scan(&sales).Error
	if err != nil {
		return nil, NewStorageError("Failed to sum sales", err)
	}
	if sales.Total.Valid {
		stats.TotalSales = sales.Total.Decimal
	}

	months := lastMonths(s.now().UTC(), trendMonths)
	since, _ := time.Parse("2006-01", months[0])

	if stats.UserGrowth, err = s.monthly(db.Model(&models.User{}), since, months); err != nil {
		return nil, NewStorageError("Failed to compute user growth", err)
	}
	if stats.OrderTrends, err = s.monthly(db.Model(&models.Order{}), since, months); err != nil {
		return nil, NewStorageError("Failed to compute order trends", err)
	}
	return stats, nil
}

func (s *DashboardService) monthly(query *gorm.DB, since time.Time, months []string) ([]MonthCount, error) {
	var createdAt []time.Time
	if err := query.Where("created_at >= ?", since).Pluck("created_at", &createdAt).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(months))
	for _, t := range createdAt {
		counts[t.UTC().Format("2006-01")]++
	}
	trend := make([]MonthCount, 0, len(months))
	for _, month := range months {
		trend = append(trend, MonthCount{Month: month, Count: counts[month]})
	}
	return trend, nil
}

// lastMonths returns the n months ending with now's month as YYYY-MM, oldest first
func lastMonths(now time.Time, n int) []string {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	months := make([]string, n)
	for i := 0; i < n; i++ {
		months[n-1-i] = first.AddDate(0, -i, 0).Format("2006-01")
	}
	return months
}
