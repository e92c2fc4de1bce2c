package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/cache"
	"github.com/wyfcoding/pkg/config"
	"github.com/wyfcoding/pkg/database"
	"github.com/wyfcoding/pkg/limiter"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/messagequeue/kafka"
	"github.com/wyfcoding/pkg/messagequeue/outbox"
	"github.com/wyfcoding/pkg/metrics"
	"github.com/wyfcoding/pkg/middleware"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	cartapp "github.com/wyfcoding/retailordering/internal/cart/application"
	"github.com/wyfcoding/retailordering/internal/cart/infrastructure/adapter"
	cartmessaging "github.com/wyfcoding/retailordering/internal/cart/infrastructure/messaging"
	cartmysql "github.com/wyfcoding/retailordering/internal/cart/infrastructure/persistence/mysql"
	carthttp "github.com/wyfcoding/retailordering/internal/cart/interfaces/http"
	catalogapp "github.com/wyfcoding/retailordering/internal/catalog/application"
	catalogmysql "github.com/wyfcoding/retailordering/internal/catalog/infrastructure/persistence/mysql"
	catalogredis "github.com/wyfcoding/retailordering/internal/catalog/infrastructure/persistence/redis"
	catalogconsumer "github.com/wyfcoding/retailordering/internal/catalog/interfaces/consumer"
	cataloghttp "github.com/wyfcoding/retailordering/internal/catalog/interfaces/http"
)

var configPath = flag.String("config", "configs/cart/config.toml", "config file path")

func main() {
	flag.Parse()

	// 1. 配置
	var cfg config.Config
	if err := config.Load(*configPath, &cfg); err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. 日志
	logCfg := &logging.Config{Service: cfg.Server.Name, Level: cfg.Log.Level}
	logger := logging.NewFromConfig(logCfg)
	slog.SetDefault(logger.Logger)

	// 3. 指标
	metricsImpl := metrics.NewMetrics(cfg.Server.Name)
	if cfg.Metrics.Enabled {
		go metricsImpl.ExposeHTTP(cfg.Metrics.Port)
	}

	// 4. 数据库
	db, err := database.NewDB(cfg.Data.Database, cfg.CircuitBreaker, logger, metricsImpl)
	if err != nil {
		slog.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	if cfg.Server.Environment == "dev" {
		if err := db.RawDB().AutoMigrate(
			&cartmysql.CartModel{},
			&cartmysql.CartItemModel{},
			&catalogmysql.ProductModel{},
			&outbox.Message{},
		); err != nil {
			slog.Error("failed to migrate database", "error", err)
		}
	}

	// 5. Kafka & Outbox
	kafkaProducer := kafka.NewProducer(&cfg.MessageQueue.Kafka, logger, metricsImpl)
	outboxMgr := outbox.NewManager(db.RawDB(), logger.Logger)
	pusher := func(ctx context.Context, topic, key string, payload []byte) error {
		return kafkaProducer.PublishToTopic(ctx, topic, []byte(key), payload)
	}
	outboxProcessor := outbox.NewProcessor(outboxMgr, pusher, 100, 2*time.Second)

	// 6. Redis
	redisCache, err := cache.NewRedisCache(&cfg.Data.Redis, cfg.CircuitBreaker, logger, metricsImpl)
	if err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}
	rateLimiter := limiter.NewRedisLimiter(redisCache.GetClient(), cfg.RateLimit.Rate, time.Second)

	// 7. 仓储与适配器
	cartRepo := cartmysql.NewCartRepository(db.RawDB())
	productRepo := catalogmysql.NewProductRepository(db.RawDB())
	demandRepo := catalogredis.NewDemandRedisRepository(redisCache.GetClient())
	stockOracle := adapter.NewStockOracle(productRepo)
	publisher := cartmessaging.NewOutboxPublisher(outboxMgr)

	// 8. 应用服务
	cartSvc := cartapp.NewCartService(cartRepo, stockOracle, publisher)
	catalogSvc := catalogapp.NewCatalogService(productRepo)
	demandSvc := catalogapp.NewDemandService(demandRepo)

	// 9. 需求投影消费者
	demandHandler := catalogconsumer.NewDemandProjectionHandler(demandSvc, logger.Logger)
	demandConsumers := make([]*kafka.Consumer, 0, len(catalogconsumer.DemandTopics))
	for _, topic := range catalogconsumer.DemandTopics {
		consumerCfg := cfg.MessageQueue.Kafka
		consumerCfg.Topic = topic
		if consumerCfg.GroupID == "" {
			consumerCfg.GroupID = "catalog-demand-group"
		}
		consumer := kafka.NewConsumer(&consumerCfg, logger, metricsImpl)
		consumer.Start(context.Background(), 1, demandHandler.Handle)
		demandConsumers = append(demandConsumers, consumer)
	}

	// 10. 接口层
	grpcSrv := grpc.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcSrv, health.NewServer())
	reflection.Register(grpcSrv)

	gin.SetMode(gin.ReleaseMode)
	if cfg.Server.Environment == "dev" {
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.MetricsMiddleware(), middleware.CORS())
	r.Use(middleware.RateLimitWithLimiter(rateLimiter))

	api := r.Group("/api")
	carthttp.NewCartHandler(cartSvc).RegisterRoutes(api)
	cataloghttp.NewCatalogHandler(catalogSvc, demandSvc).RegisterRoutes(api)

	// 11. 启动
	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		outboxProcessor.Start()
		<-ctx.Done()
		outboxProcessor.Stop()
		return nil
	})

	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.Server.GRPC.Port)
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return err
		}
		slog.Info("gRPC server starting", "addr", addr)
		return grpcSrv.Serve(lis)
	})

	g.Go(func() error {
		addr := fmt.Sprintf(":%d", cfg.Server.HTTP.Port)
		server := &http.Server{Addr: addr, Handler: r}
		slog.Info("HTTP server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			slog.Info("shutting down servers...")
		case <-ctx.Done():
			slog.Info("context cancelled, shutting down...")
		}
		grpcSrv.GracefulStop()
		for _, c := range demandConsumers {
			if c != nil {
				_ = c.Close()
			}
		}
		redisCache.Close()
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("server exited with error", "error", err)
	}
}
