package models

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPreparing, OrderReady, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	UserID          uint        `gorm:"not null;index" json:"user_id"`
	User            User        `json:"-"`
	TotalAmount     uint        `gorm:"not null" json:"total_amount"`
	Status          OrderStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	SpecialRequests string      `json:"special_requests"`
	Persons         int         `gorm:"not null;default:1" json:"persons"`
	BookingDate     time.Time   `json:"booking_date"`
	CreatedAt       time.Time   `gorm:"index" json:"created_at"`
	OrderItems      []OrderItem `json:"items,omitempty"`
}
