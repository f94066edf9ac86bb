package handlers

import (
	"net/http"
	"time"

	"restaurant/events"
	"restaurant/logger"
	"restaurant/metrics"
	"restaurant/repository"
	"restaurant/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type bookingRequest struct {
	BookingDate string `json:"booking_date" form:"booking_date" binding:"required"`
	Persons     int    `json:"persons" form:"persons" binding:"required,min=1,max=10"`
	// 0 lets the restaurant pick a table
	TableNumber int `json:"table_number" form:"table_number" binding:"min=0"`
}

func GetBookingsHandler(c *gin.Context, store *repository.Store, id session.Identity) {
	bookings, err := store.ListUserBookings(c.Request.Context(), id.UserID)
	if err != nil {
		failure(c, err, "Failed to load bookings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
	})
}

func CreateBookingHandler(c *gin.Context, store *repository.Store, publisher events.Publisher, m *metrics.Metrics, id session.Identity) {
	var req bookingRequest
	if err := c.ShouldBind(&req); err != nil {
		validationFailed(c, err)
		return
	}

	bookingDate, ok := parseBookingDate(req.BookingDate)
	if !ok {
		invalidField(c, "booking_date", "Invalid date")
		return
	}
	if !bookingDate.After(time.Now()) {
		invalidField(c, "booking_date", "Date must be in the future")
		return
	}

	booking, err := store.CreateBooking(c.Request.Context(), repository.NewBooking{
		UserID:      id.UserID,
		BookingDate: bookingDate,
		Persons:     req.Persons,
		TableNumber: req.TableNumber,
	})
	if err != nil {
		failure(c, err, "Failed to book a table")
		return
	}

	m.BookingCreated()
	logger.FromGin(c).Info("table booked",
		zap.Uint("booking_id", booking.ID),
		zap.Int("table_number", booking.TableNumber),
		zap.Time("booking_date", booking.BookingDate),
	)
	publish(c, publisher, events.Event{
		Type:      events.BookingCreated,
		BookingID: booking.ID,
		UserID:    id.UserID,
		Status:    string(booking.Status),
	})

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"bookingId":   booking.ID,
		"tableNumber": booking.TableNumber,
	})
}

func CancelBookingHandler(c *gin.Context, store *repository.Store, id session.Identity) {
	bookingID, ok := parseID(c, "id")
	if !ok {
		invalidField(c, "id", "Invalid id")
		return
	}

	if _, err := store.CancelUserBooking(c.Request.Context(), id.UserID, bookingID); err != nil {
		failure(c, err, "Failed to cancel the booking")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}
