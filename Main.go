package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant/cache"
	"restaurant/config"
	"restaurant/events"
	"restaurant/jwt"
	"restaurant/logger"
	"restaurant/metrics"
	"restaurant/repository"
	"restaurant/routers"
	"restaurant/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const sweepInterval = time.Hour

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = config.DefaultPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	log, err := logger.InitLogger(logger.Config{
		Level:       cfg.Log.Level,
		Environment: cfg.Log.Environment,
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		panic("cannot init logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.SetupDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		dbInstance, _ := db.DB()
		_ = dbInstance.Close()
	}()
	log.Info("database ready", zap.String("driver", cfg.Database.Driver))

	store := repository.NewStore(db,
		repository.WithTables(cfg.Restaurant.Tables),
		repository.WithBookingSlot(cfg.Restaurant.BookingSlot),
	)
	if cfg.Seed.Enabled {
		err := store.Seed(ctx, repository.SeedAdmin{
			Name:     cfg.Seed.AdminName,
			Email:    cfg.Seed.AdminEmail,
			Phone:    cfg.Seed.AdminPhone,
			Password: cfg.Seed.AdminPassword,
		})
		if err != nil {
			return err
		}
	}

	var rdb *redis.Client
	var menuCache cache.MenuCache = cache.NopMenuCache{}
	if cfg.Redis.Enabled {
		rdb, err = config.SetupRedisConnection(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()
		menuCache = cache.NewRedisMenuCache(rdb, cfg.Redis.MenuTTL)
		log.Info("redis ready", zap.String("addr", cfg.Redis.Addr))
	}

	var sessionStore session.Store
	if cfg.Session.Store == "redis" {
		sessionStore = session.NewRedisStore(rdb)
	} else {
		sessionStore = session.NewDBStore(db)
	}
	sessions := session.NewManager(sessionStore, jwt.NewSigner(cfg.Session.Secret), session.Options{
		CookieName: cfg.Session.CookieName,
		MaxAge:     cfg.Session.MaxAge,
		Secure:     cfg.Session.Secure,
	})

	var publisher events.Publisher = events.NewLogPublisher(log)
	if cfg.RabbitMQ.Enabled {
		publisher, err = events.NewRabbitPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
		if err != nil {
			return err
		}
		log.Info("rabbitmq ready", zap.String("exchange", cfg.RabbitMQ.Exchange))
	}
	defer publisher.Close()

	gin.SetMode(cfg.Server.Mode)
	router, err := routers.SetupRouters(routers.Dependencies{
		Store:     store,
		Sessions:  sessions,
		MenuCache: menuCache,
		Publisher: publisher,
		Metrics:   metrics.New(cfg.ServiceName),
		Logger:    log,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})
	if sweeper, ok := sessionStore.(session.Sweeper); ok {
		g.Go(func() error {
			sweepSessions(gctx, sweeper, log)
			return nil
		})
	}
	return g.Wait()
}

// sweepSessions drops expired session rows until ctx is done.
func sweepSessions(ctx context.Context, sweeper session.Sweeper, log *zap.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sweeper.DeleteExpired(ctx)
			if err != nil {
				log.Warn("sweep sessions", zap.Error(err))
				continue
			}
			log.Debug("expired sessions removed", zap.Int64("count", n))
		}
	}
}
