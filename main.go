package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apperrors "storefront/common/errors"
	"storefront/common/logger"
	commonmw "storefront/common/middleware"
	"storefront/config"
	"storefront/controllers"
	"storefront/database"
	"storefront/events"
	"storefront/middleware"
	"storefront/models"
	awspkg "storefront/pkg/aws"
	"storefront/repository"
	"storefront/routes"
	"storefront/services"
	"storefront/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	serviceName     = "storefront"
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 5 * time.Second
	rateLimiterTTL  = 10 * time.Minute
)

func main() {
	// --- 1. Configuration & logging ---
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Initialize("development")
		logger.Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	logger.Initialize(cfg.Env)
	metrics := setupCloudWatch(ctx, cfg)
	defer logger.Log.Sync()
	log := logger.Log

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- 2. Infrastructure ---
	db, err := database.Connect(cfg.DSN(), log)
	if err != nil {
		log.Fatal("Could not connect to PostgreSQL", zap.Error(err))
	}
	defer database.Close(db)

	if err := models.Migrate(db); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	publisher := buildPublisher(ctx, cfg, log)
	defer publisher.Close()

	// --- 3. Dependency Injection ---
	orderRepo := repository.NewGormOrderRepository(db)
	productRepo := repository.NewGormProductRepository(db)
	categoryRepo := repository.NewGormCategoryRepository(db)
	userRepo := repository.NewGormUserRepository(db)
	addressRepo := repository.NewGormAddressRepository(db)

	productCache := services.NewProductCache(redisClient, services.DefaultCacheTTL, log)
	catalogService := services.NewCatalogService(productRepo, categoryRepo, productCache, log)
	orderService := services.NewOrderService(orderRepo, publisher, log)
	authService := services.NewAuthService(userRepo, services.NewTokenService(cfg.JWTSecret), services.NewRedisRevocationStore(redisClient), log)
	accountService := services.NewAccountService(userRepo, addressRepo, orderRepo, log)

	ctrls := routes.Controllers{
		Auth:     controllers.NewAuthController(authService, cfg.IsProduction(), log),
		Account:  controllers.NewAccountController(accountService, orderService),
		Admin:    controllers.NewAdminController(orderService, accountService),
		Cart:     controllers.NewCartController(catalogService, log),
		Catalog:  controllers.NewCatalogController(catalogService),
		Checkout: controllers.NewCheckoutController(orderService, log),
		Order:    controllers.NewOrderController(orderService, catalogService, log),
		Storage:  controllers.NewStorageController(),
	}

	// --- 4. HTTP Server & Middleware ---
	limiter := commonmw.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, rateLimiterTTL)
	go limiter.Run(ctx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(commonmw.Metrics(metrics, serviceName))
	r.Use(apperrors.ErrorMiddleware())
	r.Use(commonmw.SecurityHeaders())
	r.Use(commonmw.CORS(cfg.AllowedOrigins))
	r.Use(limiter.Middleware())
	r.Use(commonmw.Timeout(requestTimeout))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	sessions := storage.NewProvider(storageFactory(cfg, redisClient), log)
	r.Use(middleware.Session(sessions))
	routes.RegisterRoutes(r, ctrls, authService)

	// --- 5. Graceful Shutdown ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("Storefront starting", zap.String("port", cfg.Port), zap.String("storage", cfg.StorageBackend))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down storefront...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Storefront stopped gracefully")
}

// setupCloudWatch tees logs into CloudWatch Logs and returns the request
// metrics recorder. It returns nil when CloudWatch is disabled or
// unreachable; the service runs without it.
func setupCloudWatch(ctx context.Context, cfg *config.Config) commonmw.MetricsRecorder {
	if !cfg.CloudWatchEnabled {
		return nil
	}
	awsCfg, err := awspkg.LoadAWSConfig(ctx)
	if err != nil {
		logger.Log.Error("CloudWatch disabled", zap.Error(err))
		return nil
	}

	logsClient, err := awspkg.NewLogsClient(ctx, awsCfg, cfg.CloudWatchLogGroup, serviceName)
	if err != nil {
		logger.Log.Error("CloudWatch Logs disabled", zap.Error(err))
	} else {
		logger.InitializeWithWriter(cfg.Env, logsClient)
		logger.Log.Info("CloudWatch Logs enabled", zap.String("log_group", cfg.CloudWatchLogGroup))
	}

	logger.Log.Info("CloudWatch metrics enabled", zap.String("namespace", cfg.CloudWatchNamespace))
	return awspkg.NewMetricsClient(awsCfg, cfg.CloudWatchNamespace)
}

func storageFactory(cfg *config.Config, client *redis.Client) storage.BackendFactory {
	if cfg.StorageBackend == "memory" {
		return storage.MemoryFactory(cfg.StorageCapacity)
	}
	return storage.RedisFactory(client, cfg.StorageCapacity, cfg.SessionTTL)
}

// buildPublisher fans order events out to Kafka and SNS when configured.
func buildPublisher(ctx context.Context, cfg *config.Config, log *zap.Logger) events.Publisher {
	var publishers []events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publishers = append(publishers, events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.OrderEventTopic, log))
		log.Info("Kafka order events enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.OrderEventTopic))
	}
	if cfg.OrderSNSTopic != "" {
		awsCfg, err := awspkg.LoadAWSConfig(ctx)
		if err != nil {
			log.Error("SNS order events disabled", zap.Error(err))
		} else {
			publishers = append(publishers, events.NewSNSPublisher(awspkg.NewSNSClient(awsCfg), cfg.OrderSNSTopic, log))
			log.Info("SNS order events enabled", zap.String("topic", cfg.OrderSNSTopic))
		}
	}
	if len(publishers) == 0 {
		log.Warn("No order event publishers configured")
		return events.NoopPublisher{}
	}
	return events.NewMultiPublisher(log, publishers...)
}
