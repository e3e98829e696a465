package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"profile-service/internal/auth"
	"profile-service/internal/config"
	"profile-service/internal/events"
	"profile-service/internal/handlers"
	"profile-service/internal/metrics"
	"profile-service/internal/middleware"
	"profile-service/internal/repository"
	"profile-service/internal/services"
	"profile-service/internal/storage"
	"profile-service/internal/utils"
)

func main() {
	// load config
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}
	dev := cfg.App.Env == "development"

	// logger
	logger, err := utils.NewLogger(dev, cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	// Mongo (event store)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	mc, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		logger.Fatalf("mongo connect: %v", err)
	}
	col := mc.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
	eventRepo := repository.NewMongoEventRepository(col)

	// blob store
	var store storage.BlobStore
	switch cfg.Storage.Backend {
	case "s3":
		store, err = storage.NewS3Store(context.Background(), cfg.AWS.Region, cfg.AWS.Bucket, cfg.AWS.Endpoint)
		if err != nil {
			logger.Fatalf("s3 init: %v", err)
		}
	default:
		store = storage.NewLocalStore(cfg.Storage.Root)
	}

	// kafka mirror (optional)
	var producer *events.Publisher
	if cfg.Kafka.Enabled {
		producer = events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer func() { _ = producer.Close() }()
	}

	// services
	uploadSvc := services.NewUploadService(store, cfg.Storage.Thumbnails, logger)
	statsSvc := services.NewStatsService(eventRepo, producer, cfg.Location, logger)

	// fiber app & routes
	app := fiber.New(fiber.Config{
		ReadTimeout:  5 * time.Minute, // video uploads can be slow
		WriteTimeout: 30 * time.Second,
		BodyLimit:    110 * 1024 * 1024,
	})

	uh := handlers.NewUploadHandler(uploadSvc, store, logger)
	sh := handlers.NewStatsHandler(statsSvc, logger)

	upload := app.Group("/api/upload")

	// redis-backed rate limiting on uploads (optional)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = rdb.Close() }()
		rl := middleware.NewRateLimiter(rdb, "upload", cfg.Redis.UploadLimit,
			time.Duration(cfg.Redis.UploadWindowSeconds)*time.Second)
		upload.Use(rl.MiddlewareByKey(func(c *fiber.Ctx) string { return c.IP() }))
	}

	upload.Post("/photo", uh.UploadPhoto)
	upload.Post("/video", uh.UploadVideo)
	app.Get("/uploads/*", uh.Serve)

	stats := app.Group("/api/stats")
	stats.Post("/events", sh.RecordEvent)
	if cfg.JWT.PublicKeyPath != "" {
		verifier, err := auth.NewJWTVerifier(cfg.JWT.PublicKeyPath)
		if err != nil {
			logger.Fatalf("jwt init: %v", err)
		}
		stats.Get("/profiles/:profileId", auth.Middleware(verifier), sh.ProfileStats)
	} else {
		stats.Get("/profiles/:profileId", sh.ProfileStats)
	}

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })

	// start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		logger.Infof("starting profile service on %s", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatalf("listen failed: %v", err)
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	logger.Info("shutdown requested")
	timeoutCtx, cancel2 := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel2()

	_ = app.Shutdown()
	_ = mc.Disconnect(timeoutCtx)
	logger.Info("shutdown completed")
}
