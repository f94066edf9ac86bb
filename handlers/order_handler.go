package handlers

import (
	"context"
	"net/http"
	"time"

	"restaurant/events"
	"restaurant/logger"
	"restaurant/metrics"
	"restaurant/models"
	"restaurant/repository"
	"restaurant/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const recentOrdersLimit = 20

type orderItemRequest struct {
	ID       uint `json:"id" binding:"required"`
	Quantity uint `json:"quantity" binding:"required,min=1,max=99"`
	// Price is what the client displayed. The menu price is charged.
	Price float64 `json:"price"`
}

type orderDetails struct {
	BookingDate     string `json:"booking_date" binding:"required"`
	Persons         int    `json:"persons" binding:"required,min=1,max=10"`
	SpecialRequests string `json:"special_requests" binding:"max=500"`
}

type orderRequest struct {
	Items           []orderItemRequest `json:"items" binding:"required,min=1,dive"`
	BookingDate     string             `json:"booking_date" binding:"required"`
	Persons         int                `json:"persons" binding:"required,min=1,max=10"`
	SpecialRequests string             `json:"special_requests" binding:"max=500"`
}

func (r orderRequest) details() orderDetails {
	return orderDetails{
		BookingDate:     r.BookingDate,
		Persons:         r.Persons,
		SpecialRequests: r.SpecialRequests,
	}
}

func publish(c *gin.Context, publisher events.Publisher, e events.Event) {
	e.OccurredAt = time.Now().UTC()
	// the request may be gone by now; the event still has to go out
	ctx := context.WithoutCancel(c.Request.Context())
	if err := publisher.Publish(ctx, e); err != nil {
		logger.FromGin(c).Warn("publish event", zap.String("type", string(e.Type)), zap.Error(err))
	}
}

// placeOrder runs the order transaction and announces the new order.
func placeOrder(c *gin.Context, store *repository.Store, publisher events.Publisher, m *metrics.Metrics, id session.Identity, lines []repository.OrderLine, details orderDetails) (models.Order, bool) {
	bookingDate, ok := parseBookingDate(details.BookingDate)
	if !ok {
		invalidField(c, "booking_date", "Invalid date")
		return models.Order{}, false
	}

	order, err := store.CreateOrder(c.Request.Context(), repository.NewOrder{
		UserID:          id.UserID,
		Items:           lines,
		BookingDate:     bookingDate,
		Persons:         details.Persons,
		SpecialRequests: details.SpecialRequests,
	})
	if err != nil {
		failure(c, err, "Failed to create the order")
		return models.Order{}, false
	}

	m.OrderCreated(order.TotalAmount)
	logger.FromGin(c).Info("order created",
		zap.Uint("order_id", order.ID),
		zap.Uint("user_id", id.UserID),
		zap.Uint("total_amount", order.TotalAmount),
	)
	publish(c, publisher, events.Event{
		Type:        events.OrderCreated,
		OrderID:     order.ID,
		UserID:      id.UserID,
		TotalAmount: order.TotalAmount,
		Status:      string(order.Status),
	})
	return order, true
}

// OrderPageHandler returns what the order form needs: the menu and the
// user's table bookings.
func OrderPageHandler(c *gin.Context, store *repository.Store, id session.Identity) {
	items, err := store.ListMenuItems(c.Request.Context())
	if err != nil {
		failure(c, err, "Failed to load the menu")
		return
	}
	bookings, err := store.ListUserBookings(c.Request.Context(), id.UserID)
	if err != nil {
		failure(c, err, "Failed to load bookings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"menuItems": items,
		"bookings":  bookings,
	})
}

func CreateOrderHandler(c *gin.Context, store *repository.Store, publisher events.Publisher, m *metrics.Metrics, id session.Identity) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err)
		return
	}

	lines := make([]repository.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, repository.OrderLine{
			MenuItemID: item.ID,
			Quantity:   item.Quantity,
		})
	}

	order, ok := placeOrder(c, store, publisher, m, id, lines, req.details())
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"orderId":     order.ID,
		"totalAmount": order.TotalAmount,
		"message":     "Order placed",
	})
}

// GetUserOrdersHandler returns the user's most recent orders.
func GetUserOrdersHandler(c *gin.Context, store *repository.Store, id session.Identity) {
	orders, err := store.ListUserOrders(c.Request.Context(), id.UserID, recentOrdersLimit)
	if err != nil {
		failure(c, err, "Failed to load orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
	})
}
