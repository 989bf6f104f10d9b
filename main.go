package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/scantagcandles/oremus-1/cart"
	"github.com/scantagcandles/oremus-1/catalog"
	"github.com/scantagcandles/oremus-1/config"
	"github.com/scantagcandles/oremus-1/logging"
	"github.com/scantagcandles/oremus-1/middleware"
	"github.com/scantagcandles/oremus-1/models"
	"github.com/scantagcandles/oremus-1/prayers"
	"github.com/scantagcandles/oremus-1/routes"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("❌ Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("✅ Starting OREMUS backend", zap.String("environment", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init DB
	db := initDatabase(cfg, logger)

	// Auto-migrate all tables
	if err := models.AutoMigrate(db); err != nil {
		logger.Fatal("❌ AutoMigrate failed", zap.Error(err))
	}

	if cfg.SeedCatalog {
		seeded, err := catalog.SeedDefaults(ctx, db)
		if err != nil {
			logger.Fatal("❌ Seeding candle catalog failed", zap.Error(err))
		}
		if seeded > 0 {
			logger.Info("🕯️ Seeded candle catalog", zap.Int("products", seeded))
		}
	}

	products := catalog.NewProducts(db)
	shipping := catalog.NewShipping(db, logger)
	checkouts := cart.NewGormRecorder(db)
	cartService := cart.NewService(
		initCartStore(ctx, cfg, logger),
		products,
		catalog.NewDiscounts(db),
		shipping,
		checkouts,
		logger,
	)

	// Gin setup
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(logger), middleware.Recovery(logger, cfg.IsProduction()))
	r.Use(middleware.SecurityHeaders())

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	go limiter.Run(5*time.Minute, ctx.Done())
	r.Use(limiter.Middleware())

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY", "X-Device-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup routes
	routes.SetupRoutes(r, routes.Deps{
		Config:    cfg,
		Log:       logger,
		Prayers:   prayers.NewRepository(db),
		Products:  products,
		Shipping:  shipping,
		Cart:      cartService,
		Checkouts: checkouts,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("🚀 Server running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("❌ Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("🛑 Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("❌ Graceful shutdown failed", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase(cfg config.Config, logger *zap.Logger) *gorm.DB {
	gormConfig := &gorm.Config{}
	if cfg.IsProduction() {
		gormConfig.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		logger.Fatal("❌ DB connection failed", zap.Error(err))
	}
	return db
}

// initCartStore picks Redis, or the in-process store when configured or
// when Redis is unreachable at startup.
func initCartStore(ctx context.Context, cfg config.Config, logger *zap.Logger) cart.Store {
	if cfg.CartStore == config.CartStoreMemory {
		logger.Warn("⚠️ Using in-memory cart store; carts are lost on restart")
		return cart.NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("⚠️ Redis unreachable, falling back to in-memory cart store",
			zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = client.Close()
		return cart.NewMemoryStore()
	}
	logger.Info("✅ Connected to Redis", zap.String("addr", cfg.RedisAddr))
	return cart.NewRedisStore(client, cfg.CartTTL)
}
