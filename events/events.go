// Package events announces committed orders and status changes to the
// kitchen and notification consumers.
package events

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Type string

const (
	OrderCreated       Type = "order.created"
	OrderStatusChanged Type = "order.status_changed"
	BookingCreated     Type = "booking.created"
)

type Event struct {
	Type        Type      `json:"type"`
	OrderID     uint      `json:"order_id,omitempty"`
	BookingID   uint      `json:"booking_id,omitempty"`
	UserID      uint      `json:"user_id,omitempty"`
	TotalAmount uint      `json:"total_amount,omitempty"`
	Status      string    `json:"status,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher is called after the database commit. Callers log failures and
// carry on; the order is already placed.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// LogPublisher writes events to the log. Used when RabbitMQ is disabled.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, e Event) error {
	p.log.Info("event",
		zap.String("type", string(e.Type)),
		zap.Uint("order_id", e.OrderID),
		zap.Uint("booking_id", e.BookingID),
		zap.Uint("user_id", e.UserID),
		zap.Uint("total_amount", e.TotalAmount),
		zap.String("status", e.Status),
		zap.Time("occurred_at", e.OccurredAt),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
