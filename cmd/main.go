package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/craftloom/storefront/internal/router"
	"github.com/craftloom/storefront/pkg/ai"
	"github.com/craftloom/storefront/pkg/cart"
	"github.com/craftloom/storefront/pkg/catalog"
	"github.com/craftloom/storefront/pkg/filestore"
	"github.com/craftloom/storefront/pkg/global"
	"github.com/craftloom/storefront/pkg/mongo"
	"github.com/craftloom/storefront/pkg/orders"
	"github.com/craftloom/storefront/pkg/redis"
	"github.com/craftloom/storefront/pkg/report"
	"github.com/craftloom/storefront/pkg/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	repo, backend := openRepository(logger)

	if err := seed(repo, logger); err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}

	var cache catalog.Cache
	if os.Getenv("REDIS_ADDRESS") != "" {
		cache = redis.NewProductCache()
		logger.Info("product cache enabled")
	}

	ai.Initialize()

	catalogSvc := catalog.NewService(repo, cache, logger)
	cartSvc := cart.NewService(repo, catalogSvc, logger)
	orderSvc := orders.NewService(repo, catalogSvc, cartSvc, logger)

	worker := orders.NewOutboxWorker(repo, logger)
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	go worker.Run(workerCtx)

	r := router.New(router.Deps{
		Repo:     repo,
		Catalog:  catalogSvc,
		Carts:    cartSvc,
		Orders:   orderSvc,
		Exporter: report.NewExporter(repo),
		Backend:  backend,
		AdminKey: global.GetAdminKey(),
		Log:      logger,
	})

	port := global.GetEnvOrDefault("PORT", "8000")
	logger.Info("server starting", zap.String("port", port), zap.String("backend", backend))

	if err := r.Engine.Run(":" + port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("ENV") == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// openRepository picks the storage backend. Mongo is the default; when it
// is unreachable at startup the server falls back to the file store so
// local development works without a database.
func openRepository(logger *zap.Logger) (store.Repository, string) {
	backend := global.GetEnvOrDefault("STORE_BACKEND", "mongo")

	if backend == "mongo" {
		ctx, cancel := global.GetDefaultTimer()
		defer cancel()

		repo, err := mongo.Connect(ctx, global.GetMongoURI(), global.GetDatabaseName())
		if err == nil {
			if err := repo.EnsureIndexes(ctx); err != nil {
				logger.Warn("index creation failed", zap.Error(err))
			}
			logger.Info("connected to mongodb", zap.String("database", global.GetDatabaseName()))
			return repo, "mongo"
		}
		logger.Warn("mongodb unavailable, falling back to file store", zap.Error(err))
	}

	dir := global.GetEnvOrDefault("DATA_DIR", "./data")
	fileRepo, err := filestore.New(dir)
	if err != nil {
		logger.Fatal("file store init failed", zap.String("dir", dir), zap.Error(err))
	}
	logger.Info("using file store", zap.String("dir", dir))
	return fileRepo, "file"
}
