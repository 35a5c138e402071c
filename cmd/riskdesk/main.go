package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	positionapp "github.com/wyfcoding/riskdesk/internal/position/application"
	positiondomain "github.com/wyfcoding/riskdesk/internal/position/domain"
	positionmsg "github.com/wyfcoding/riskdesk/internal/position/infrastructure/messaging"
	positionmysql "github.com/wyfcoding/riskdesk/internal/position/infrastructure/persistence/mysql"
	positionhttp "github.com/wyfcoding/riskdesk/internal/position/interfaces/http"
	pricingapp "github.com/wyfcoding/riskdesk/internal/pricing/application"
	pricingdomain "github.com/wyfcoding/riskdesk/internal/pricing/domain"
	pricinghttp "github.com/wyfcoding/riskdesk/internal/pricing/interfaces/http"
	riskapp "github.com/wyfcoding/riskdesk/internal/risk/application"
	riskdomain "github.com/wyfcoding/riskdesk/internal/risk/domain"
	riskmsg "github.com/wyfcoding/riskdesk/internal/risk/infrastructure/messaging"
	riskmysql "github.com/wyfcoding/riskdesk/internal/risk/infrastructure/persistence/mysql"
	riskredis "github.com/wyfcoding/riskdesk/internal/risk/infrastructure/persistence/redis"
	riskhttp "github.com/wyfcoding/riskdesk/internal/risk/interfaces/http"
	"github.com/wyfcoding/riskdesk/pkg/cache"
	"github.com/wyfcoding/riskdesk/pkg/config"
	"github.com/wyfcoding/riskdesk/pkg/db"
	"github.com/wyfcoding/riskdesk/pkg/logger"
	"github.com/wyfcoding/riskdesk/pkg/metrics"
	"github.com/wyfcoding/riskdesk/pkg/middleware"
	"github.com/wyfcoding/riskdesk/pkg/mq"
	"github.com/wyfcoding/riskdesk/pkg/ratelimit"
)

func main() {
	configPath := flag.String("config", "configs/riskdesk/config.toml", "配置文件路径")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	logger.Info(ctx, "starting riskdesk service", "version", cfg.Version, "environment", cfg.Environment)

	// 3. 初始化数据库
	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init database", "error", err)
	}
	defer database.Close()

	if err := database.AutoMigrate(&positionmysql.PositionModel{}, &riskmysql.RiskSnapshotModel{}); err != nil {
		logger.Fatal(ctx, "failed to migrate database", "error", err)
	}

	// 4. 初始化 Redis
	redisCache, err := cache.New(cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ConnTimeout:  cfg.Redis.ConnTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init redis", "error", err)
	}
	defer redisCache.Close()

	// 5. Kafka 生产者（未配置 broker 时事件走空实现）
	var positionPublisher positiondomain.EventPublisher = positionmsg.NoopEventPublisher{}
	var riskPublisher riskdomain.EventPublisher = riskmsg.NoopEventPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		if err != nil {
			logger.Fatal(ctx, "failed to init kafka producer", "error", err)
		}
		defer producer.Close()
		positionPublisher = positionmsg.NewKafkaEventPublisher(producer, cfg.Kafka.PositionTopic)
		riskPublisher = riskmsg.NewKafkaEventPublisher(producer, cfg.Kafka.RiskAlertTopic)
	}

	// 6. 指标
	m := metrics.New("riskdesk")
	if cfg.Metrics.Enabled {
		if err := m.Register(); err != nil {
			logger.Fatal(ctx, "failed to register metrics", "error", err)
		}
		if err := metrics.StartHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Fatal(ctx, "failed to start metrics server", "error", err)
		}
	}

	// 7. 领域与应用装配
	engine := pricingdomain.NewEngine(cfg.Engine.RiskFreeRate)
	ledger := positiondomain.NewLedger()
	analyzer := riskdomain.NewAnalyzer(engine, riskdomain.Config{
		ContractMultiplier: cfg.Engine.ContractMultiplier,
		FutureVolatility:   cfg.Engine.FutureDefaultVolatility,
		ConfidenceZ:        cfg.Engine.VaRConfidenceZ,
		SensitivityPoints:  cfg.Engine.SensitivityPoints,
		SensitivityLower:   cfg.Engine.SensitivityLower,
		SensitivityUpper:   cfg.Engine.SensitivityUpper,
	})

	positionRepo := positionmysql.NewPositionRepository(database.DB)
	snapshotRepo := riskmysql.NewRiskSnapshotRepository(database.DB)
	riskCache := riskredis.NewRiskCache(redisCache)

	pricingService := pricingapp.NewPricingService(engine, m)
	positionService := positionapp.NewPositionService(ledger, engine, positionRepo, positionPublisher, m, cfg.Engine.ContractMultiplier)
	riskService := riskapp.NewRiskService(analyzer, ledger, snapshotRepo, riskCache, riskPublisher, m, cfg.Engine.VaRLimit)

	// 8. 启动时恢复账本
	if err := positionService.Restore(ctx); err != nil {
		logger.Fatal(ctx, "failed to restore ledger", "error", err)
	}

	// 9. HTTP 服务
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.GinRecoveryMiddleware())
	router.Use(middleware.GinLoggingMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	if cfg.Metrics.Enabled {
		router.Use(middleware.GinMetricsMiddleware(m))
	}
	if cfg.RateLimit.Enabled {
		limiter := ratelimit.NewRedisRateLimiter(redisCache.GetClient(), cfg.RateLimit.QPS, cfg.RateLimit.Burst)
		router.Use(middleware.RateLimitMiddleware(limiter, cfg.RateLimit))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.ServiceName})
	})

	api := router.Group("/api/v1")
	pricinghttp.NewPricingHandler(pricingService, cfg.Engine).RegisterRoutes(api)
	positionhttp.NewPositionHandler(positionService).RegisterRoutes(api)
	riskhttp.NewRiskHandler(riskService).RegisterRoutes(api)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info(ctx, "HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "HTTP server failed", "error", err)
		}
	}()

	// 10. 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "shutting down riskdesk service")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "server shutdown failed", "error", err)
	}
	logger.Info(ctx, "riskdesk service stopped")
}
