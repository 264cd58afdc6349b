// 电商服务主程序
// 功能：商品目录、购物车、下单结算、用户与卖家工作台
// 架构：基于 DDD + 单体 HTTP 服务 + Outbox/Kafka
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	cartapp "github.com/wyfcoding/ecommerce/internal/cart/application"
	cartdomain "github.com/wyfcoding/ecommerce/internal/cart/domain"
	cartmysql "github.com/wyfcoding/ecommerce/internal/cart/infrastructure/persistence/mysql"
	carthttp "github.com/wyfcoding/ecommerce/internal/cart/interfaces/http"
	catalogapp "github.com/wyfcoding/ecommerce/internal/catalog/application"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	catalogmsg "github.com/wyfcoding/ecommerce/internal/catalog/infrastructure/messaging"
	catalogmysql "github.com/wyfcoding/ecommerce/internal/catalog/infrastructure/persistence/mysql"
	cataloghttp "github.com/wyfcoding/ecommerce/internal/catalog/interfaces/http"
	dashboardapp "github.com/wyfcoding/ecommerce/internal/dashboard/application"
	dashboardmysql "github.com/wyfcoding/ecommerce/internal/dashboard/infrastructure/persistence/mysql"
	dashboardhttp "github.com/wyfcoding/ecommerce/internal/dashboard/interfaces/http"
	orderapp "github.com/wyfcoding/ecommerce/internal/order/application"
	orderdomain "github.com/wyfcoding/ecommerce/internal/order/domain"
	ordermsg "github.com/wyfcoding/ecommerce/internal/order/infrastructure/messaging"
	ordermysql "github.com/wyfcoding/ecommerce/internal/order/infrastructure/persistence/mysql"
	orderhttp "github.com/wyfcoding/ecommerce/internal/order/interfaces/http"
	userapp "github.com/wyfcoding/ecommerce/internal/user/application"
	userdomain "github.com/wyfcoding/ecommerce/internal/user/domain"
	usermysql "github.com/wyfcoding/ecommerce/internal/user/infrastructure/persistence/mysql"
	userhttp "github.com/wyfcoding/ecommerce/internal/user/interfaces/http"
	"github.com/wyfcoding/ecommerce/pkg/cache"
	"github.com/wyfcoding/ecommerce/pkg/config"
	"github.com/wyfcoding/ecommerce/pkg/db"
	"github.com/wyfcoding/ecommerce/pkg/logger"
	"github.com/wyfcoding/ecommerce/pkg/metrics"
	"github.com/wyfcoding/ecommerce/pkg/middleware"
	"github.com/wyfcoding/ecommerce/pkg/mq"
	"github.com/wyfcoding/ecommerce/pkg/outbox"
	"github.com/wyfcoding/ecommerce/pkg/ratelimit"
	"github.com/wyfcoding/ecommerce/pkg/trace"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func main() {
	// 1. 加载配置
	configPath := os.Getenv("APP_CONFIG")
	if configPath == "" {
		configPath = "configs/server/config.toml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	loggerCfg := logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}
	if err := logger.Init(loggerCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	logger.Info(ctx, "Starting EcommerceService",
		"service", cfg.ServiceName,
		"version", cfg.Version,
		"environment", cfg.Environment,
	)

	// 3. 初始化追踪
	if cfg.Tracing.Enabled {
		shutdown, err := trace.InitTracer(cfg.ServiceName, cfg.Tracing.CollectorEndpoint, cfg.Tracing.SamplingRate)
		if err != nil {
			logger.Error(ctx, "Failed to initialize tracer", "error", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error(ctx, "Failed to shutdown tracer", "error", err)
				}
			}()
			logger.Info(ctx, "Tracer initialized", "endpoint", cfg.Tracing.CollectorEndpoint)
		}
	}

	// 4. 初始化数据库
	dbCfg := db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	}
	database, err := db.Init(dbCfg)
	if err != nil {
		logger.Fatal(ctx, "Failed to initialize database", "error", err)
	}
	defer database.Close()

	if err := database.AutoMigrate(
		&catalogdomain.Category{},
		&catalogdomain.Brand{},
		&catalogdomain.Product{},
		&catalogdomain.Review{},
		&catalogdomain.WishlistItem{},
		&cartdomain.Cart{},
		&cartdomain.CartItem{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
		&userdomain.User{},
		&userdomain.Address{},
		&outbox.Message{},
	); err != nil {
		logger.Fatal(ctx, "Failed to migrate database schema", "error", err)
	}

	// 5. 初始化 Redis
	redisCfg := cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ConnTimeout:  cfg.Redis.ConnTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	}
	redisCache, err := cache.New(redisCfg)
	if err != nil {
		logger.Fatal(ctx, "Failed to initialize Redis", "error", err)
	}
	defer redisCache.Close()

	// 6. 初始化限流器
	rateLimiter := ratelimit.NewRedisRateLimiter(redisCache.GetClient())

	// 7. 初始化 Outbox 与 Kafka
	pollerCtx, stopPoller := context.WithCancel(context.Background())
	defer stopPoller()

	outboxManager := outbox.NewManager(database.DB)
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		if err != nil {
			logger.Fatal(ctx, "Failed to create Kafka producer", "error", err)
		}
		defer producer.Close()

		poller := outbox.NewPoller(
			database.DB,
			producer,
			time.Duration(cfg.Kafka.OutboxPollInterval)*time.Millisecond,
			cfg.Kafka.OutboxBatchSize,
		)
		go poller.Run(pollerCtx)
	} else {
		logger.Warn(ctx, "Kafka brokers not configured, outbox poller disabled")
	}

	// 8. 初始化仓储
	productRepo := catalogmysql.NewProductRepository(database.DB)
	categoryRepo := catalogmysql.NewCategoryRepository(database.DB)
	brandRepo := catalogmysql.NewBrandRepository(database.DB)
	reviewRepo := catalogmysql.NewReviewRepository(database.DB)
	wishlistRepo := catalogmysql.NewWishlistRepository(database.DB)
	cartRepo := cartmysql.NewCartRepository(database.DB)
	orderRepo := ordermysql.NewOrderRepository(database.DB)
	userRepo := usermysql.NewUserRepository(database.DB)
	addressRepo := usermysql.NewAddressRepository(database.DB)
	salesRepo := dashboardmysql.NewSalesRepository(database.DB)

	// 9. 初始化应用服务
	metricsInstance := metrics.New(cfg.ServiceName)
	if err := metricsInstance.Register(); err != nil {
		logger.Fatal(ctx, "Failed to register metrics", "error", err)
	}
	if cfg.Metrics.Enabled {
		if err := metrics.StartHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Fatal(ctx, "Failed to start metrics HTTP server", "error", err)
		}
	}

	catalogService := catalogapp.NewCatalogService(
		productRepo, categoryRepo, brandRepo, reviewRepo, wishlistRepo,
		catalogmsg.NewOutboxPublisher(outboxManager),
	)
	cartService := cartapp.NewCartService(
		cartRepo,
		cartCatalogAdapter{catalog: catalogService},
		redisCache,
		metricsInstance,
	)
	checkoutService := orderapp.NewCheckoutService(
		database,
		cartRepo,
		orderRepo,
		orderCatalogAdapter{catalog: catalogService},
		addressBookAdapter{users: userRepo, addresses: addressRepo},
		ordermsg.NewOutboxPublisher(outboxManager),
		cartService,
		metricsInstance,
	)
	orderQueryService := orderapp.NewOrderQueryService(orderRepo)
	userService := userapp.NewUserService(userRepo, addressRepo, cfg.Auth)
	dashboardService := dashboardapp.NewDashboardService(catalogService, salesRepo)

	// 10. 创建 HTTP 服务器
	httpServer := createHTTPServer(cfg, rateLimiter,
		cataloghttp.NewCatalogHandler(catalogService),
		carthttp.NewCartHandler(cartService),
		orderhttp.NewOrderHandler(checkoutService, orderQueryService),
		userhttp.NewUserHandler(userService),
		dashboardhttp.NewDashboardHandler(dashboardService),
	)

	// 11. 启动 HTTP 服务器
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		logger.Info(ctx, "Starting HTTP server", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "HTTP server error", "error", err)
		}
	}()

	// 12. 优雅关停
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info(ctx, "Shutting down EcommerceService")

	stopPoller()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "HTTP server shutdown error", "error", err)
	}

	logger.Info(ctx, "EcommerceService stopped")
}

// createHTTPServer 创建 HTTP 服务器
func createHTTPServer(
	cfg *config.Config,
	rateLimiter ratelimit.RateLimiter,
	catalogHandler *cataloghttp.CatalogHandler,
	cartHandler *carthttp.CartHandler,
	orderHandler *orderhttp.OrderHandler,
	userHandler *userhttp.UserHandler,
	dashboardHandler *dashboardhttp.DashboardHandler,
) *http.Server {
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// 添加中间件
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.GinLoggingMiddleware())
	router.Use(middleware.GinRecoveryMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimitMiddleware(rateLimiter, ratelimit.Limit{
			Rate:   cfg.RateLimit.Rate,
			Period: time.Duration(cfg.RateLimit.Period) * time.Second,
			Burst:  cfg.RateLimit.Burst,
		}))
	}

	// 注册路由
	public := router.Group("/api/v1")
	authorized := router.Group("/api/v1")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.Auth.JWTSecret))
	seller := router.Group("/api/v1")
	seller.Use(middleware.JWTAuthMiddleware(cfg.Auth.JWTSecret), middleware.RequireSeller())

	catalogHandler.RegisterRoutes(public, authorized)
	cartHandler.RegisterRoutes(authorized)
	orderHandler.RegisterRoutes(authorized)
	userHandler.RegisterRoutes(public, authorized)
	dashboardHandler.RegisterRoutes(seller)

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   cfg.ServiceName,
			"timestamp": time.Now().Unix(),
		})
	})

	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}
}
