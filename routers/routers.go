package routers

import (
	"net/http"

	"restaurant/cache"
	"restaurant/events"
	"restaurant/handlers"
	"restaurant/metrics"
	"restaurant/middleware"
	"restaurant/repository"
	"restaurant/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Dependencies struct {
	Store     *repository.Store
	Sessions  *session.Manager
	MenuCache cache.MenuCache
	Publisher events.Publisher
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

// identity is only called behind RequireAuth, which guarantees a user.
func identity(c *gin.Context) session.Identity {
	id, _ := middleware.CurrentIdentity(c)
	return id
}

func SetupRouters(deps Dependencies) (*gin.Engine, error) {
	if deps.MenuCache == nil {
		deps.MenuCache = cache.NopMenuCache{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NewLogPublisher(deps.Logger)
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New("restaurant")
	}
	if err := middleware.RegisterValidators(); err != nil {
		return nil, err
	}

	store, sessions, menuCache, publisher, m := deps.Store, deps.Sessions, deps.MenuCache, deps.Publisher, deps.Metrics

	// recovery runs inside the request logger so panics are logged with the request id
	router := gin.New()
	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, err
	}
	router.Use(
		middleware.RequestLogger(deps.Logger),
		middleware.Recovery(),
		m.Middleware(),
		middleware.AuthMiddleware(sessions),
	)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Page not found",
		})
	})

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	//// public
	router.GET("/", func(context *gin.Context) {
		handlers.HomeHandler(context, store)
	})
	router.GET("/menu", func(context *gin.Context) {
		handlers.MenuHandler(context, store, menuCache)
	})
	router.GET("/api/menu", func(context *gin.Context) {
		handlers.MenuAPIHandler(context, store, menuCache)
	})
	router.GET("/register", handlers.RegisterPageHandler)
	router.POST("/register", func(context *gin.Context) {
		handlers.RegisterHandler(context, store, sessions)
	})
	router.GET("/login", handlers.LoginPageHandler)
	router.POST("/login", func(context *gin.Context) {
		handlers.LoginHandler(context, store, sessions)
	})
	router.GET("/logout", func(context *gin.Context) {
		handlers.LogOutHandler(context, sessions)
	})

	// carts work for anonymous visitors too
	carts := router.Group("/cart")
	{
		carts.GET("", handlers.GetCartHandler)
		carts.POST("/add", func(context *gin.Context) {
			handlers.AddToCartHandler(context, store, sessions)
		})
		carts.POST("/update", func(context *gin.Context) {
			handlers.UpdateCartItemHandler(context, sessions)
		})
		carts.DELETE("/:menuItemID", func(context *gin.Context) {
			handlers.DeleteCartItemHandler(context, sessions)
		})
		carts.DELETE("", func(context *gin.Context) {
			handlers.ClearCartHandler(context, sessions)
		})
		carts.POST("/checkout", middleware.RequireAuth(), func(context *gin.Context) {
			handlers.CheckoutHandler(context, store, sessions, publisher, m, identity(context))
		})
	}

	//// login required
	loginRequired := router.Group("")
	loginRequired.Use(middleware.RequireAuth())
	{
		loginRequired.GET("/order", func(context *gin.Context) {
			handlers.OrderPageHandler(context, store, identity(context))
		})
		loginRequired.POST("/order", func(context *gin.Context) {
			handlers.CreateOrderHandler(context, store, publisher, m, identity(context))
		})
		loginRequired.GET("/profile", func(context *gin.Context) {
			handlers.GetUserProfileHandler(context, store, identity(context))
		})
		loginRequired.GET("/api/user/orders", func(context *gin.Context) {
			handlers.GetUserOrdersHandler(context, store, identity(context))
		})
		loginRequired.GET("/booking", func(context *gin.Context) {
			handlers.GetBookingsHandler(context, store, identity(context))
		})
		loginRequired.POST("/booking", func(context *gin.Context) {
			handlers.CreateBookingHandler(context, store, publisher, m, identity(context))
		})
		loginRequired.POST("/booking/:id/cancel", func(context *gin.Context) {
			handlers.CancelBookingHandler(context, store, identity(context))
		})
	}

	//// admin only
	adminRequired := router.Group("/admin")
	adminRequired.Use(middleware.RequireAdmin())
	{
		adminRequired.GET("", func(context *gin.Context) {
			handlers.AdminDashboardHandler(context, store)
		})
		adminRequired.GET("/orders", func(context *gin.Context) {
			handlers.AdminOrdersHandler(context, store)
		})
		adminRequired.GET("/stats", func(context *gin.Context) {
			handlers.AdminStatsHandler(context, store)
		})
		adminRequired.POST("/menu/add", func(context *gin.Context) {
			handlers.AddMenuItemHandler(context, store, menuCache)
		})
		adminRequired.PUT("/menu/:id", func(context *gin.Context) {
			handlers.UpdateMenuItemHandler(context, store, menuCache)
		})
		adminRequired.PUT("/order/:id/status", func(context *gin.Context) {
			handlers.UpdateOrderStatusHandler(context, store, publisher)
		})
		adminRequired.PUT("/booking/:id/status", func(context *gin.Context) {
			handlers.UpdateBookingStatusHandler(context, store)
		})
	}

	return router, nil
}
