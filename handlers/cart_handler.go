package handlers

import (
	"errors"
	"net/http"

	"restaurant/cart"
	"restaurant/events"
	"restaurant/logger"
	"restaurant/metrics"
	"restaurant/middleware"
	"restaurant/repository"
	"restaurant/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type addToCartRequest struct {
	MenuItemID uint `json:"menuItemId" binding:"required"`
	Quantity   uint `json:"quantity" binding:"required,min=1,max=99"`
}

type updateCartRequest struct {
	MenuItemID uint `json:"menuItemId" binding:"required"`
	// zero removes the line
	Quantity uint `json:"quantity" binding:"max=99"`
}

// cartSession returns the visitor's session, starting an anonymous one when
// there is none yet.
func cartSession(c *gin.Context, manager *session.Manager) *session.Session {
	if s := middleware.CurrentSession(c); s != nil {
		return s
	}
	return manager.New()
}

func cartJSON(c *gin.Context, status int, ct *cart.Cart) {
	c.JSON(status, gin.H{
		"items": ct.Lines(),
		"total": ct.Total(),
		"count": ct.Count(),
	})
}

func saveCart(c *gin.Context, manager *session.Manager, s *session.Session) bool {
	if err := manager.Save(c, s); err != nil {
		failure(c, err, "Failed to update the cart")
		return false
	}
	return true
}

func GetCartHandler(c *gin.Context) {
	s := middleware.CurrentSession(c)
	if s == nil {
		cartJSON(c, http.StatusOK, &cart.Cart{})
		return
	}
	cartJSON(c, http.StatusOK, &s.Cart)
}

func AddToCartHandler(c *gin.Context, store *repository.Store, manager *session.Manager) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err)
		return
	}

	item, err := store.GetMenuItem(c.Request.Context(), req.MenuItemID)
	if err != nil {
		failure(c, err, "Failed to update the cart")
		return
	}
	if !item.IsAvailable {
		failure(c, repository.ErrMenuItemUnavailable, "Menu item unavailable")
		return
	}

	s := cartSession(c, manager)
	s.Cart.Add(item.ID, item.Name, item.Price, req.Quantity)
	if !saveCart(c, manager, s) {
		return
	}
	cartJSON(c, http.StatusOK, &s.Cart)
}

func UpdateCartItemHandler(c *gin.Context, manager *session.Manager) {
	var req updateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err)
		return
	}
	changeCart(c, manager, func(ct *cart.Cart) error {
		return ct.Update(req.MenuItemID, req.Quantity)
	})
}

func DeleteCartItemHandler(c *gin.Context, manager *session.Manager) {
	menuItemID, ok := parseID(c, "menuItemID")
	if !ok {
		invalidField(c, "menuItemID", "Invalid id")
		return
	}
	changeCart(c, manager, func(ct *cart.Cart) error {
		return ct.Remove(menuItemID)
	})
}

func ClearCartHandler(c *gin.Context, manager *session.Manager) {
	changeCart(c, manager, func(ct *cart.Cart) error {
		ct.Clear()
		return nil
	})
}

func changeCart(c *gin.Context, manager *session.Manager, change func(*cart.Cart) error) {
	s := cartSession(c, manager)
	if err := change(&s.Cart); err != nil {
		if errors.Is(err, cart.ErrUnknownItem) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Item is not in the cart",
			})
			return
		}
		failure(c, err, "Failed to update the cart")
		return
	}
	if !saveCart(c, manager, s) {
		return
	}
	cartJSON(c, http.StatusOK, &s.Cart)
}

// CheckoutHandler turns the session cart into an order and empties it.
func CheckoutHandler(c *gin.Context, store *repository.Store, manager *session.Manager, publisher events.Publisher, m *metrics.Metrics, id session.Identity) {
	var details orderDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		validationFailed(c, err)
		return
	}

	s := middleware.CurrentSession(c)
	if s == nil || s.Cart.IsEmpty() {
		failure(c, repository.ErrEmptyOrder, "Cart is empty")
		return
	}

	saved := s.Cart.Lines()
	lines := make([]repository.OrderLine, 0, len(saved))
	for _, l := range saved {
		lines = append(lines, repository.OrderLine{
			MenuItemID: l.MenuItemID,
			Quantity:   l.Quantity,
			Price:      l.Price,
		})
	}

	// the stored cart is emptied before the order commits, so a cart is
	// never turned into two orders
	s.Cart.Clear()
	if !saveCart(c, manager, s) {
		return
	}

	order, ok := placeOrder(c, store, publisher, m, id, lines, details)
	if !ok {
		s.Cart.Items = saved
		if err := manager.Save(c, s); err != nil {
			logger.FromGin(c).Error("restore cart after failed checkout", zap.Error(err))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"orderId":     order.ID,
		"totalAmount": order.TotalAmount,
		"message":     "Order placed",
	})
}
