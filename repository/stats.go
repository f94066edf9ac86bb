package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"restaurant/models"
)

type OrderStats struct {
	TotalOrders   int64 `json:"total_orders"`
	PendingOrders int64 `json:"pending_orders"`
	TodayOrders   int64 `json:"today_orders"`
	TotalRevenue  uint  `json:"total_revenue"`
}

func (s *Store) OrderStats(ctx context.Context) (OrderStats, error) {
	var stats OrderStats
	db := s.db.WithContext(ctx).Model(&models.Order{})

	if err := db.Count(&stats.TotalOrders).Error; err != nil {
		return stats, fmt.Errorf("count orders: %w", err)
	}

	err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ?", models.OrderPending).
		Count(&stats.PendingOrders).
		Error
	if err != nil {
		return stats, fmt.Errorf("count pending orders: %w", err)
	}

	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	err = s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", start, start.AddDate(0, 0, 1)).
		Count(&stats.TodayOrders).
		Error
	if err != nil {
		return stats, fmt.Errorf("count today's orders: %w", err)
	}

	var revenue sql.NullInt64
	err = s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status <> ?", models.OrderCancelled).
		Select("SUM(total_amount)").
		Row().
		Scan(&revenue)
	if err != nil {
		return stats, fmt.Errorf("sum revenue: %w", err)
	}
	stats.TotalRevenue = uint(revenue.Int64)
	return stats, nil
}
