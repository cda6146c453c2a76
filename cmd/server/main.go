package main

import (
	"context"
	"errors"
	"log"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cake-order-service/internal/config"
	"cake-order-service/internal/controllers/http"
	"cake-order-service/internal/infra"
	"cake-order-service/internal/infra/logging"
	mmysql "cake-order-service/internal/infra/mysql"
	"cake-order-service/internal/infra/rabbitmq"
	cache "cake-order-service/internal/infra/redis"
	"cake-order-service/internal/ordernumber"
	"cake-order-service/internal/repository"
	"cake-order-service/internal/repository/memory"
	mysqlrepo "cake-order-service/internal/repository/mysql"
	"cake-order-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.FromEnv()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	budget := repository.NewTxBudget(cfg.Orders.MaxConcurrentTx, cfg.Orders.TxMaxWait, cfg.Orders.TxTimeout)

	var (
		orderRepo   repository.OrderRepository
		cartRepo    repository.CartRepository
		productRepo repository.ProductRepository
	)
	if cfg.MySQL.Enabled() {
		db, err := mmysql.NewMySQL(cfg.MySQL)
		if err != nil {
			logger.Fatal("db: connect", zap.Error(err))
		}
		orderRepo = mysqlrepo.NewOrderRepository(db, budget, logger)
		cartRepo = mysqlrepo.NewCartRepository(db)
		productRepo = mysqlrepo.NewProductRepository(db)
	} else {
		logger.Warn("MYSQL_HOST not set, using in-memory repositories")
		orderRepo = memory.NewOrderRepo(budget)
		cartRepo = memory.NewCartRepo()
		products := memory.NewProductRepo()
		if err := seedProducts(products, cfg.Catalog.SeedFile); err != nil {
			logger.Fatal("seed products", zap.String("file", cfg.Catalog.SeedFile), zap.Error(err))
		}
		if cfg.Catalog.SeedFile == "" && cfg.Catalog.ProductServiceURL == "" {
			logger.Warn("no PRODUCT_SEED_FILE or PRODUCT_SERVICE_URL, the product table is empty")
		}
		productRepo = products
	}

	var catalog infra.ProductCatalog = infra.NewRepositoryCatalog(productRepo)
	if cfg.Catalog.ProductServiceURL != "" {
		catalog = infra.NewProductClient(cfg.Catalog.ProductServiceURL, cfg.Catalog.Timeout)
	}
	// Validation always reads the live catalog; the cache only serves
	// storefront reads and is refreshed by every validation read.
	liveCatalog := catalog

	if cfg.Redis.Enabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr(),
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		})
		defer redisClient.Close()
		cached := cache.NewCachedCatalog(catalog, redisClient, cfg.Redis.ProductCacheTTL, logger)
		catalog = cached
		liveCatalog = cached.Live()
	}

	var publisher rabbitmq.PublisherInterface = rabbitmq.NoopPublisher{}
	if cfg.RabbitMQ.Enabled() {
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, logger)
		if err != nil {
			logger.Fatal("failed to init publisher", zap.Error(err))
		}
		defer p.Close()
		publisher = p
	}

	allocator := ordernumber.NewAllocator(orderRepo, ordernumber.Config{
		MaxAttempts: cfg.Orders.MaxAttempts,
		Backoff:     cfg.Orders.RetryBackoff,
		Location:    cfg.Orders.Location(),
	}, logger)

	orderSvc := services.NewOrderService(orderRepo, liveCatalog, publisher, allocator, logger)
	cartSvc := services.NewCartService(cartRepo, liveCatalog, logger)
	handler := http.NewHandler(orderSvc, cartSvc, catalog)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), http.RequestLogger(logger))
	handler.RegisterRoutes(r)

	srv := &nethttp.Server{Addr: ":" + cfg.Port, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting order service", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			logger.Fatal("server run", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	orderSvc.Wait()
}

func seedProducts(repo *memory.ProductRepo, path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = repo.Load(f)
	return err
}
