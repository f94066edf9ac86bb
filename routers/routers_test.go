package routers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"restaurant/cache"
	"restaurant/events"
	"restaurant/jwt"
	"restaurant/models"
	"restaurant/repository"
	"restaurant/session"
	"restaurant/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	adminEmail    = "admin@restaurant.com"
	adminPassword = "admin123"
	cookieName    = "restaurant_sid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	router *gin.Engine
	store  *repository.Store
	events *observer.ObservedLogs
	mr     *miniredis.Miniredis
	menu   map[string]uint
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWithSessions(t, func(s session.Store) session.Store { return s })
}

// newTestAppWithSessions lets a test wrap the session store.
func newTestAppWithSessions(t *testing.T, wrap func(session.Store) session.Store) *testApp {
	t.Helper()
	ctx := context.Background()

	db := testutil.NewDB(t)
	store := repository.NewStore(db, repository.WithTables(2))
	require.NoError(t, store.Seed(ctx, repository.SeedAdmin{
		Name:     "Administrator",
		Email:    adminEmail,
		Phone:    "+79999999999",
		Password: adminPassword,
	}))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	core, logs := observer.New(zapcore.InfoLevel)
	sessions := session.NewManager(wrap(session.NewDBStore(db)), jwt.NewSigner("secret"), session.Options{MaxAge: time.Hour})

	router, err := SetupRouters(Dependencies{
		Store:     store,
		Sessions:  sessions,
		MenuCache: cache.NewRedisMenuCache(rdb, time.Minute),
		Publisher: events.NewLogPublisher(zap.New(core)),
	})
	require.NoError(t, err)

	items, err := store.ListAllMenuItems(ctx)
	require.NoError(t, err)
	menu := make(map[string]uint, len(items))
	for _, item := range items {
		menu[item.Name] = item.ID
	}

	return &testApp{router: router, store: store, events: logs, mr: mr, menu: menu}
}

// client carries the session cookie between requests like a browser would.
type client struct {
	t      *testing.T
	app    *testApp
	cookie *http.Cookie
}

func (a *testApp) client(t *testing.T) *client {
	return &client{t: t, app: a}
}

func (c *client) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	w := httptest.NewRecorder()
	c.app.router.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name != cookieName {
			continue
		}
		if cookie.MaxAge < 0 {
			c.cookie = nil
		} else {
			c.cookie = cookie
		}
	}
	return w
}

func (c *client) register(email string) {
	c.t.Helper()
	w := c.do(http.MethodPost, "/register", gin.H{
		"name":     "Ivan Petrov",
		"email":    email,
		"phone":    "+7 (900) 123-45-67",
		"password": "secret1",
	})
	require.Equal(c.t, http.StatusSeeOther, w.Code, w.Body.String())
	require.Equal(c.t, "/profile", w.Header().Get("Location"))
}

func (c *client) login(email, password string) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.do(http.MethodPost, "/login", gin.H{"email": email, "password": password})
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func orderBody(items ...gin.H) gin.H {
	return gin.H{
		"items":            items,
		"booking_date":     "2026-12-31T19:30",
		"persons":          2,
		"special_requests": "window seat",
	}
}

func TestCreateOrder(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	c.register("ivan@example.com")

	// the client claims a price of 1; the menu price is charged
	w := c.do(http.MethodPost, "/order", orderBody(
		gin.H{"id": app.menu["Ribeye Steak"], "quantity": 2, "price": 1},
		gin.H{"id": app.menu["Caesar Salad"], "quantity": 1, "price": 590},
	))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 4370, body["totalAmount"])
	orderID := uint(body["orderId"].(float64))
	assert.NotZero(t, orderID)

	order, err := app.store.GetOrder(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, uint(4370), order.TotalAmount)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, "window seat", order.SpecialRequests)
	require.Len(t, order.OrderItems, 2)

	created := app.events.FilterField(zap.String("type", string(events.OrderCreated))).All()
	require.Len(t, created, 1)
	assert.EqualValues(t, orderID, created[0].ContextMap()["order_id"])

	w = c.do(http.MethodGet, "/api/user/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Orders []struct {
			ID           uint   `json:"id"`
			ItemsSummary string `json:"items_summary"`
			TotalItems   uint   `json:"total_items"`
		} `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Orders, 1)
	assert.Equal(t, orderID, list.Orders[0].ID)
	assert.Equal(t, uint(3), list.Orders[0].TotalItems)
	assert.Contains(t, list.Orders[0].ItemsSummary, "Ribeye Steak (x2)")
}

func TestCreateOrderRejectsBadInput(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	c.register("ivan@example.com")

	unavailable, err := app.store.AddMenuItem(context.Background(), repository.NewMenuItem{
		Name: "Seasonal soup", Price: 450, Category: "Soups", IsAvailable: false,
	})
	require.NoError(t, err)

	steak := app.menu["Ribeye Steak"]
	tooMany := orderBody(gin.H{"id": steak, "quantity": 1})
	tooMany["persons"] = 11
	badDate := orderBody(gin.H{"id": steak, "quantity": 1})
	badDate["booking_date"] = "tomorrow"

	tests := map[string]gin.H{
		"no items":         orderBody(),
		"zero quantity":    orderBody(gin.H{"id": steak, "quantity": 0}),
		"too many persons": tooMany,
		"bad date":         badDate,
		"unknown item":     orderBody(gin.H{"id": 999, "quantity": 1}),
		"unavailable item": orderBody(gin.H{"id": unavailable.ID, "quantity": 1}),
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			w := c.do(http.MethodPost, "/order", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	var orders int64
	require.NoError(t, app.store.DB().Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
}

func TestAuthGuards(t *testing.T) {
	app := newTestApp(t)
	anonymous := app.client(t)

	for _, path := range []string{"/profile", "/order", "/booking", "/api/user/orders"} {
		w := anonymous.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/login", w.Header().Get("Location"), path)
	}
	assert.Equal(t, http.StatusForbidden, anonymous.do(http.MethodGet, "/admin", nil).Code)

	user := app.client(t)
	user.register("ivan@example.com")
	w := user.do(http.MethodGet, "/admin", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])
	assert.Equal(t, http.StatusForbidden, user.do(http.MethodPost, "/admin/menu/add", gin.H{"name": "x"}).Code)
	assert.Equal(t, http.StatusOK, user.do(http.MethodGet, "/profile", nil).Code)

	admin := app.client(t)
	require.Equal(t, http.StatusSeeOther, admin.login(adminEmail, adminPassword).Code)
	w = admin.do(http.MethodGet, "/admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	for _, key := range []string{"orders", "bookings", "menuItems", "users", "stats"} {
		assert.Contains(t, body, key)
	}
	assert.Len(t, body["users"], 2)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app := newTestApp(t)
	app.client(t).register("ivan@example.com")

	w := app.client(t).do(http.MethodPost, "/register", gin.H{
		"name":     "Someone Else",
		"email":    "IVAN@example.com",
		"phone":    "+79001112233",
		"password": "another1",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"errors":[{"field":"email","msg":"A user with this email already exists"}]}`, w.Body.String())

	users, err := app.store.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApp(t)

	w := app.client(t).do(http.MethodPost, "/register", gin.H{
		"name":     "I",
		"email":    "not-an-email",
		"phone":    "call me",
		"password": "123",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Errors []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	var fields []string
	for _, e := range body.Errors {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"Name", "Email", "Phone", "Password"}, fields)
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	w := c.login(adminEmail, "wrong")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	unknown := c.login("nobody@example.com", adminPassword)
	assert.Equal(t, http.StatusBadRequest, unknown.Code)
	assert.Equal(t, w.Body.String(), unknown.Body.String())

	require.Equal(t, http.StatusSeeOther, c.login(adminEmail, adminPassword).Code)
	assert.Equal(t, http.StatusFound, c.do(http.MethodGet, "/login", nil).Code)

	w = c.do(http.MethodGet, "/logout", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Nil(t, c.cookie)
	assert.Equal(t, http.StatusFound, c.do(http.MethodGet, "/profile", nil).Code)
}

func TestLoginRotatesSessionAndKeepsCart(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	w := c.do(http.MethodPost, "/cart/add", gin.H{"menuItemId": app.menu["Mojito"], "quantity": 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	anonymous := c.cookie
	require.NotNil(t, anonymous)

	require.Equal(t, http.StatusSeeOther, c.login(adminEmail, adminPassword).Code)
	require.NotNil(t, c.cookie)
	assert.NotEqual(t, anonymous.Value, c.cookie.Value)

	body := decode(t, c.do(http.MethodGet, "/cart", nil))
	assert.EqualValues(t, 3, body["count"])
	assert.EqualValues(t, 3*390, body["total"])

	// the pre-login session is gone
	stale := app.client(t)
	stale.cookie = anonymous
	assert.EqualValues(t, 0, decode(t, stale.do(http.MethodGet, "/cart", nil))["count"])
}

func TestCartAndCheckout(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	c.register("ivan@example.com")

	steak, salad := app.menu["Ribeye Steak"], app.menu["Caesar Salad"]
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/cart/add", gin.H{"menuItemId": steak, "quantity": 1}).Code)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/cart/add", gin.H{"menuItemId": salad, "quantity": 4}).Code)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/cart/update", gin.H{"menuItemId": steak, "quantity": 2}).Code)
	require.Equal(t, http.StatusOK, c.do(http.MethodDelete, fmt.Sprintf("/cart/%d", salad), nil).Code)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/cart/add", gin.H{"menuItemId": salad, "quantity": 1}).Code)

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/cart/update", gin.H{"menuItemId": 999, "quantity": 1}).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/cart/add", gin.H{"menuItemId": 999, "quantity": 1}).Code)

	body := decode(t, c.do(http.MethodGet, "/cart", nil))
	assert.EqualValues(t, 4370, body["total"])

	w := c.do(http.MethodPost, "/cart/checkout", gin.H{"booking_date": "2026-12-31T19:30:00+03:00", "persons": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 4370, decode(t, w)["totalAmount"])

	assert.EqualValues(t, 0, decode(t, c.do(http.MethodGet, "/cart", nil))["count"])
	w = c.do(http.MethodPost, "/cart/checkout", gin.H{"booking_date": "2026-12-31T19:30:00+03:00", "persons": 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusOK, c.do(http.MethodDelete, "/cart", nil).Code)
}

// flakySessions fails every Save while broken is set.
type flakySessions struct {
	session.Store
	broken atomic.Bool
}

func (f *flakySessions) Save(ctx context.Context, s *session.Session) error {
	if f.broken.Load() {
		return errors.New("session store unavailable")
	}
	return f.Store.Save(ctx, s)
}

func TestCheckoutSessionSaveFailurePlacesNoOrder(t *testing.T) {
	flaky := &flakySessions{}
	app := newTestAppWithSessions(t, func(s session.Store) session.Store {
		flaky.Store = s
		return flaky
	})
	c := app.client(t)
	c.register("ivan@example.com")
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/cart/add", gin.H{"menuItemId": app.menu["Ribeye Steak"], "quantity": 1}).Code)

	checkout := func() *httptest.ResponseRecorder {
		return c.do(http.MethodPost, "/cart/checkout", gin.H{"booking_date": "2026-12-31T19:30", "persons": 2})
	}
	countOrders := func() int {
		orders, err := app.store.ListOrders(context.Background(), repository.OrderFilter{})
		require.NoError(t, err)
		return len(orders)
	}

	flaky.broken.Store(true)
	assert.Equal(t, http.StatusInternalServerError, checkout().Code)
	assert.Zero(t, countOrders())
	assert.Empty(t, app.events.FilterField(zap.String("type", string(events.OrderCreated))).All())

	flaky.broken.Store(false)
	w := checkout()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 1890, decode(t, w)["totalAmount"])
	assert.Equal(t, 1, countOrders())

	// the cart was emptied with the order, a retry places nothing
	assert.Equal(t, http.StatusBadRequest, checkout().Code)
	assert.Equal(t, 1, countOrders())
}

func TestCheckoutKeepsCartWhenOrderFails(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	c.register("ivan@example.com")
	mojito := app.menu["Mojito"]
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/cart/add", gin.H{"menuItemId": mojito, "quantity": 2}).Code)

	available := false
	_, err := app.store.UpdateMenuItem(context.Background(), mojito, repository.MenuItemPatch{IsAvailable: &available})
	require.NoError(t, err)

	w := c.do(http.MethodPost, "/cart/checkout", gin.H{"booking_date": "2026-12-31T19:30", "persons": 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := decode(t, c.do(http.MethodGet, "/cart", nil))
	assert.EqualValues(t, 2, body["count"])
	assert.EqualValues(t, 780, body["total"])
}

func TestAdminMenuPriceBounds(t *testing.T) {
	app := newTestApp(t)
	admin := app.client(t)
	require.Equal(t, http.StatusSeeOther, admin.login(adminEmail, adminPassword).Code)

	add := func(price interface{}) *httptest.ResponseRecorder {
		return admin.do(http.MethodPost, "/admin/menu/add", gin.H{
			"name":     "Gold caviar",
			"price":    price,
			"category": "Starters",
		})
	}

	var body struct {
		Errors []struct {
			Field string `json:"field"`
			Msg   string `json:"msg"`
		} `json:"errors"`
	}

	w := add(12.5)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "price", body.Errors[0].Field)
	assert.Contains(t, body.Errors[0].Msg, "whole number")

	w = add(uint64(1) << 62)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "Price", body.Errors[0].Field)
	assert.Contains(t, body.Errors[0].Msg, "1000000000")

	w = admin.do(http.MethodPut, fmt.Sprintf("/admin/menu/%d", app.menu["Mojito"]), gin.H{"price": uint64(1) << 62})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	item, err := app.store.GetMenuItem(context.Background(), app.menu["Mojito"])
	require.NoError(t, err)
	assert.Equal(t, uint(390), item.Price)

	require.Equal(t, http.StatusOK, add(1000000000).Code)
}

func TestCheckoutRequiresLogin(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/cart/add", gin.H{"menuItemId": app.menu["Tiramisu"], "quantity": 1}).Code)

	w := c.do(http.MethodPost, "/cart/checkout", gin.H{"booking_date": "2026-12-31T19:30", "persons": 2})
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestAdminOrderStatus(t *testing.T) {
	app := newTestApp(t)
	user := app.client(t)
	user.register("ivan@example.com")
	w := user.do(http.MethodPost, "/order", orderBody(gin.H{"id": app.menu["Mojito"], "quantity": 1}))
	require.Equal(t, http.StatusOK, w.Code)
	orderID := uint(decode(t, w)["orderId"].(float64))

	admin := app.client(t)
	require.Equal(t, http.StatusSeeOther, admin.login(adminEmail, adminPassword).Code)

	path := fmt.Sprintf("/admin/order/%d/status", orderID)
	assert.Equal(t, http.StatusBadRequest, admin.do(http.MethodPut, path, gin.H{"status": "eaten"}).Code)
	assert.Equal(t, http.StatusNotFound, admin.do(http.MethodPut, "/admin/order/999/status", gin.H{"status": "ready"}).Code)

	w = admin.do(http.MethodPut, path, gin.H{"status": "preparing"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	order, err := app.store.GetOrder(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPreparing, order.Status)
	assert.Len(t, app.events.FilterField(zap.String("type", string(events.OrderStatusChanged))).All(), 1)

	w = admin.do(http.MethodGet, "/admin/orders?status=preparing", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["orders"], 1)
	w = admin.do(http.MethodGet, "/admin/orders?status=pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["orders"])
	assert.Equal(t, http.StatusBadRequest, admin.do(http.MethodGet, "/admin/orders?status=eaten", nil).Code)
	assert.Equal(t, http.StatusBadRequest, admin.do(http.MethodGet, "/admin/orders?date=31.12.2026", nil).Code)

	stats := decode(t, admin.do(http.MethodGet, "/admin/stats", nil))
	assert.EqualValues(t, 1, stats["total_orders"])
	assert.EqualValues(t, 390, stats["total_revenue"])
}

func TestAdminMenuInvalidatesCache(t *testing.T) {
	app := newTestApp(t)
	anonymous := app.client(t)
	require.Equal(t, http.StatusOK, anonymous.do(http.MethodGet, "/menu", nil).Code)
	require.True(t, app.mr.Exists("menu:available"))

	admin := app.client(t)
	require.Equal(t, http.StatusSeeOther, admin.login(adminEmail, adminPassword).Code)

	assert.Equal(t, http.StatusBadRequest, admin.do(http.MethodPost, "/admin/menu/add", gin.H{"name": "Borscht"}).Code)

	w := admin.do(http.MethodPost, "/admin/menu/add", gin.H{
		"name":        "Borscht",
		"description": "Beet soup with sour cream",
		"price":       450,
		"category":    "Soups",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	menuID := uint(body["menuId"].(float64))
	assert.False(t, app.mr.Exists("menu:available"))

	var grouped struct {
		Categories []struct {
			Name  string `json:"name"`
			Items []struct {
				ID uint `json:"id"`
			} `json:"items"`
		} `json:"categories"`
	}
	w = anonymous.do(http.MethodGet, "/api/menu", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &grouped))
	var soups []uint
	for _, cat := range grouped.Categories {
		if cat.Name == "Soups" {
			for _, item := range cat.Items {
				soups = append(soups, item.ID)
			}
		}
	}
	assert.Equal(t, []uint{menuID}, soups)

	w = admin.do(http.MethodPut, fmt.Sprintf("/admin/menu/%d", menuID), gin.H{"is_available": false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, app.mr.Exists("menu:available"))
	assert.Equal(t, http.StatusNotFound, admin.do(http.MethodPut, "/admin/menu/999", gin.H{"price": 1}).Code)

	w = anonymous.do(http.MethodGet, "/menu", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Borscht")
}

func TestBookingFlow(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)
	c.register("ivan@example.com")

	date := time.Now().Add(48 * time.Hour).Truncate(time.Hour).Format(time.RFC3339)
	book := func() *httptest.ResponseRecorder {
		return c.do(http.MethodPost, "/booking", gin.H{"booking_date": date, "persons": 4})
	}

	first := decode(t, book())
	assert.Equal(t, true, first["success"])
	assert.EqualValues(t, 1, first["tableNumber"])
	assert.EqualValues(t, 2, decode(t, book())["tableNumber"])

	// both tables of the test restaurant are taken
	assert.Equal(t, http.StatusConflict, book().Code)

	past := c.do(http.MethodPost, "/booking", gin.H{"booking_date": "2020-01-01T19:00:00Z", "persons": 2})
	assert.Equal(t, http.StatusBadRequest, past.Code)

	bookingID := uint(first["bookingId"].(float64))
	other := app.client(t)
	other.register("maria@example.com")
	assert.Equal(t, http.StatusNotFound, other.do(http.MethodPost, fmt.Sprintf("/booking/%d/cancel", bookingID), nil).Code)

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, fmt.Sprintf("/booking/%d/cancel", bookingID), nil).Code)
	assert.EqualValues(t, 1, decode(t, book())["tableNumber"])

	var list struct {
		Bookings []models.TableBooking `json:"bookings"`
	}
	w := c.do(http.MethodGet, "/booking", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Bookings, 3)
}

func TestPublicPages(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	w := c.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["popular"], 5)

	w = c.do(http.MethodGet, "/menu", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body["items"], 5)
	assert.Len(t, body["categories"], 4)

	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/healthz", nil).Code)
	w = c.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestUnknownRoute(t *testing.T) {
	app := newTestApp(t)

	w := app.client(t).do(http.MethodGet, "/no/such/page", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Page not found"}`, w.Body.String())
}
