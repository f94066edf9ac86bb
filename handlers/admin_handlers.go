package handlers

import (
	"net/http"
	"time"

	"restaurant/cache"
	"restaurant/events"
	"restaurant/logger"
	"restaurant/models"
	"restaurant/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const dashboardOrdersLimit = 100

type menuItemRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
	Price       *uint  `json:"price" binding:"required,max=1000000000"`
	Category    string `json:"category" binding:"required,max=50"`
	ImageURL    string `json:"image_url" binding:"omitempty,url"`
	IsAvailable *bool  `json:"is_available"`
}

type menuItemPatchRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Price       *uint   `json:"price" binding:"omitempty,max=1000000000"`
	Category    *string `json:"category" binding:"omitempty,min=1,max=50"`
	ImageURL    *string `json:"image_url" binding:"omitempty,url"`
	IsAvailable *bool   `json:"is_available"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func invalidateMenu(c *gin.Context, menuCache cache.MenuCache) {
	if err := menuCache.Invalidate(c.Request.Context()); err != nil {
		logger.FromGin(c).Warn("invalidate menu cache", zap.Error(err))
	}
}

// AdminDashboardHandler loads everything the admin panel shows in parallel.
func AdminDashboardHandler(c *gin.Context, store *repository.Store) {
	var (
		orders   []repository.AdminOrder
		bookings []repository.AdminBooking
		menu     []models.MenuItem
		users    []models.User
		stats    repository.OrderStats
	)

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		orders, err = store.ListOrders(ctx, repository.OrderFilter{Limit: dashboardOrdersLimit})
		return err
	})
	g.Go(func() (err error) {
		bookings, err = store.ListBookings(ctx)
		return err
	})
	g.Go(func() (err error) {
		menu, err = store.ListAllMenuItems(ctx)
		return err
	})
	g.Go(func() (err error) {
		users, err = store.ListUsers(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats, err = store.OrderStats(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		failure(c, err, "Failed to load the dashboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":    orders,
		"bookings":  bookings,
		"menuItems": menu,
		"users":     users,
		"stats":     stats,
	})
}

// AdminOrdersHandler filters orders by ?status= and ?date=YYYY-MM-DD.
func AdminOrdersHandler(c *gin.Context, store *repository.Store) {
	var filter repository.OrderFilter

	if status := c.Query("status"); status != "" {
		filter.Status = models.OrderStatus(status)
		if !filter.Status.Valid() {
			invalidField(c, "status", "Unsupported value")
			return
		}
	}
	if date := c.Query("date"); date != "" {
		day, err := time.Parse(time.DateOnly, date)
		if err != nil {
			invalidField(c, "date", "Invalid date")
			return
		}
		filter.Day = &day
	}

	orders, err := store.ListOrders(c.Request.Context(), filter)
	if err != nil {
		failure(c, err, "Failed to load orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
	})
}

func AdminStatsHandler(c *gin.Context, store *repository.Store) {
	stats, err := store.OrderStats(c.Request.Context())
	if err != nil {
		failure(c, err, "Failed to load statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func AddMenuItemHandler(c *gin.Context, store *repository.Store, menuCache cache.MenuCache) {
	var req menuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err)
		return
	}

	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}

	item, err := store.AddMenuItem(c.Request.Context(), repository.NewMenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		IsAvailable: isAvailable,
	})
	if err != nil {
		failure(c, err, "Failed to add the menu item")
		return
	}
	invalidateMenu(c, menuCache)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"menuId":  item.ID,
	})
}

func UpdateMenuItemHandler(c *gin.Context, store *repository.Store, menuCache cache.MenuCache) {
	id, ok := parseID(c, "id")
	if !ok {
		invalidField(c, "id", "Invalid id")
		return
	}

	var req menuItemPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err)
		return
	}

	item, err := store.UpdateMenuItem(c.Request.Context(), id, repository.MenuItemPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		failure(c, err, "Failed to update the menu item")
		return
	}
	invalidateMenu(c, menuCache)

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"menuItem": item,
	})
}

func UpdateOrderStatusHandler(c *gin.Context, store *repository.Store, publisher events.Publisher) {
	id, ok := parseID(c, "id")
	if !ok {
		invalidField(c, "id", "Invalid id")
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err)
		return
	}

	order, err := store.UpdateOrderStatus(c.Request.Context(), id, models.OrderStatus(req.Status))
	if err != nil {
		failure(c, err, "Failed to update the order")
		return
	}

	publish(c, publisher, events.Event{
		Type:        events.OrderStatusChanged,
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		Status:      string(order.Status),
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

func UpdateBookingStatusHandler(c *gin.Context, store *repository.Store) {
	id, ok := parseID(c, "id")
	if !ok {
		invalidField(c, "id", "Invalid id")
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err)
		return
	}

	if _, err := store.UpdateBookingStatus(c.Request.Context(), id, models.BookingStatus(req.Status)); err != nil {
		failure(c, err, "Failed to update the booking")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}
