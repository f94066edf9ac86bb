package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"restaurant/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderLine is one submitted cart line. Price is what the client saw and is
// only kept for comparison; the menu's price is the one that gets charged.
type OrderLine struct {
	MenuItemID uint
	Quantity   uint
	Price      uint
}

type NewOrder struct {
	UserID          uint
	Items           []OrderLine
	BookingDate     time.Time
	Persons         int
	SpecialRequests string
}

type OrderSummary struct {
	models.Order
	Items      string `json:"items_summary"`
	TotalItems uint   `json:"total_items"`
}

type AdminOrder struct {
	models.Order
	UserName   string `json:"user_name"`
	UserEmail  string `json:"user_email"`
	Items      string `json:"items_summary"`
	TotalItems uint   `json:"total_items"`
}

type OrderFilter struct {
	Status models.OrderStatus
	// Day limits the result to orders created on that calendar day.
	Day   *time.Time
	Limit int
}

// CreateOrder stores the order and all of its lines in one transaction.
// Either every row commits or none does.
func (s *Store) CreateOrder(ctx context.Context, in NewOrder) (models.Order, error) {
	if len(in.Items) == 0 {
		return models.Order{}, ErrEmptyOrder
	}
	ids := make([]uint, 0, len(in.Items))
	for _, line := range in.Items {
		if line.Quantity == 0 {
			return models.Order{}, ErrInvalidQuantity
		}
		ids = append(ids, line.MenuItemID)
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return models.Order{}, fmt.Errorf("begin order transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	order, err := createOrderTx(tx, in, ids)
	if err != nil {
		tx.Rollback()
		return models.Order{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Order{}, fmt.Errorf("commit order: %w", err)
	}
	return order, nil
}

func createOrderTx(tx *gorm.DB, in NewOrder, ids []uint) (models.Order, error) {
	var menuItems []models.MenuItem
	if err := tx.Where("id IN ?", ids).Find(&menuItems).Error; err != nil {
		return models.Order{}, fmt.Errorf("load menu items: %w", err)
	}
	byID := make(map[uint]models.MenuItem, len(menuItems))
	for _, item := range menuItems {
		byID[item.ID] = item
	}

	lines := make([]models.OrderItem, 0, len(in.Items))
	var total uint
	for _, line := range in.Items {
		item, ok := byID[line.MenuItemID]
		if !ok || !item.IsAvailable {
			return models.Order{}, fmt.Errorf("%w: %d", ErrMenuItemUnavailable, line.MenuItemID)
		}
		if item.Price > (MaxAmount-total)/line.Quantity {
			return models.Order{}, fmt.Errorf("%w: item %d x%d", ErrAmountTooLarge, item.ID, line.Quantity)
		}
		total += item.Price * line.Quantity
		lines = append(lines, models.OrderItem{
			MenuItemID: item.ID,
			Quantity:   line.Quantity,
			Price:      item.Price,
		})
	}

	order := models.Order{
		UserID:          in.UserID,
		TotalAmount:     total,
		Status:          models.OrderPending,
		SpecialRequests: strings.TrimSpace(in.SpecialRequests),
		Persons:         in.Persons,
		BookingDate:     in.BookingDate,
	}
	if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
		return models.Order{}, fmt.Errorf("insert order: %w", err)
	}

	for i := range lines {
		lines[i].OrderID = order.ID
		if err := tx.Omit(clause.Associations).Create(&lines[i]).Error; err != nil {
			return models.Order{}, fmt.Errorf("insert order item %d: %w", lines[i].MenuItemID, err)
		}
	}

	order.OrderItems = lines
	return order, nil
}

func (s *Store) GetOrder(ctx context.Context, id uint) (models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("OrderItems").
		First(&order, id).
		Error
	if err != nil {
		return order, notFound(err)
	}
	return order, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id uint, status models.OrderStatus) (models.Order, error) {
	if !status.Valid() {
		return models.Order{}, ErrInvalidStatus
	}

	var order models.Order
	db := s.db.WithContext(ctx)
	if err := db.First(&order, id).Error; err != nil {
		return order, notFound(err)
	}
	err := db.Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).
		Error
	if err != nil {
		return order, fmt.Errorf("update order %d status: %w", id, err)
	}
	order.Status = status
	return order, nil
}

// ListUserOrders returns the user's orders, newest first, each with a
// "Name (xN), ..." summary of its lines.
func (s *Store) ListUserOrders(ctx context.Context, userID uint, limit int) ([]OrderSummary, error) {
	query := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders of user %d: %w", userID, err)
	}

	ids := make([]uint, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	lines, err := s.orderLineSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]OrderSummary, len(orders))
	for i, o := range orders {
		l := lines[o.ID]
		summaries[i] = OrderSummary{Order: o, Items: l.text(), TotalItems: l.count}
	}
	return summaries, nil
}

// ListOrders is the admin listing with the customer's name and email.
func (s *Store) ListOrders(ctx context.Context, filter OrderFilter) ([]AdminOrder, error) {
	query := s.db.WithContext(ctx).
		Table("orders").
		Select("orders.*, users.name AS user_name, users.email AS user_email").
		Joins("LEFT JOIN users ON users.id = orders.user_id").
		Order("orders.created_at DESC").
		Order("orders.id DESC")

	if filter.Status != "" {
		query = query.Where("orders.status = ?", filter.Status)
	}
	if filter.Day != nil {
		start := time.Date(filter.Day.Year(), filter.Day.Month(), filter.Day.Day(), 0, 0, 0, 0, filter.Day.Location())
		query = query.Where("orders.created_at >= ? AND orders.created_at < ?", start, start.AddDate(0, 0, 1))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var orders []AdminOrder
	if err := query.Scan(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	ids := make([]uint, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	lines, err := s.orderLineSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		l := lines[orders[i].ID]
		orders[i].Items = l.text()
		orders[i].TotalItems = l.count
	}
	return orders, nil
}

type lineSummary struct {
	parts []string
	count uint
}

func (l lineSummary) text() string {
	return strings.Join(l.parts, ", ")
}

func (s *Store) orderLineSummaries(ctx context.Context, orderIDs []uint) (map[uint]lineSummary, error) {
	result := make(map[uint]lineSummary, len(orderIDs))
	if len(orderIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		OrderID  uint
		Name     string
		Quantity uint
	}
	err := s.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.order_id, menu_items.name, order_items.quantity").
		Joins("JOIN menu_items ON menu_items.id = order_items.menu_item_id").
		Where("order_items.order_id IN ?", orderIDs).
		Order("order_items.id").
		Scan(&rows).
		Error
	if err != nil {
		return nil, fmt.Errorf("order line summaries: %w", err)
	}

	for _, row := range rows {
		l := result[row.OrderID]
		l.parts = append(l.parts, fmt.Sprintf("%s (x%d)", row.Name, row.Quantity))
		l.count += row.Quantity
		result[row.OrderID] = l
	}
	return result, nil
}
