package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"coursecraft/internal/adapter"
	"coursecraft/internal/cache"
	"coursecraft/internal/config"
	"coursecraft/internal/database"
	"coursecraft/internal/handler"
	"coursecraft/internal/logger"
	"coursecraft/internal/middleware"
	"coursecraft/internal/repository"
	"coursecraft/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database
	db, err := database.NewSQLXPostgresDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Postgres")

	// Initialize repositories
	courseRepository := repository.NewCourseDatabaseAdapter(db)
	topicRepository := repository.NewTopicDatabaseAdapter(db)
	itemRepository := repository.NewContentItemDatabaseAdapter(db)
	quizRepository := repository.NewQuizDatabaseAdapter(db)
	metaRepository := repository.NewMetaDatabaseAdapter(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Initialize Redis-backed tree cache
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)
	treeCache := service.NewTreeCacheService(cacheAdapter, cfg.Cache.TreeTTL)

	// Initialize services
	orderingService := service.NewOrderingService(topicRepository, itemRepository, txManager, treeCache)
	duplicationService := service.NewDuplicationService(
		courseRepository, topicRepository, itemRepository, quizRepository, metaRepository, txManager, treeCache)
	deletionService := service.NewDeletionService(
		topicRepository, itemRepository, quizRepository, metaRepository, txManager, treeCache)
	treeService := service.NewTreeService(courseRepository, topicRepository, itemRepository, txManager, treeCache)

	// Initialize handlers
	treeHandler := handler.NewTreeHandler(treeService, orderingService, duplicationService, deletionService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	protected := middleware.Protected(cfg.Auth.JWTSecret)

	apiGroup := app.Group("/api")

	// Course tree reads
	apiGroup.Get("/courses/:courseID/tree", treeHandler.GetCourseTree)

	// Topic routes
	apiGroup.Post("/courses/:courseID/topics", protected, treeHandler.CreateTopic)
	apiGroup.Post("/courses/:courseID/topics/reorder", protected, treeHandler.ReorderTopics)
	apiGroup.Patch("/topics/:topicID", protected, treeHandler.UpdateTopic)
	apiGroup.Delete("/topics/:topicID", protected, treeHandler.DeleteTopic)
	apiGroup.Post("/topics/:topicID/duplicate", protected, treeHandler.DuplicateTopic)

	// Content item routes
	apiGroup.Post("/topics/:topicID/items", protected, treeHandler.CreateItem)
	apiGroup.Post("/topics/:topicID/items/reorder", protected, treeHandler.ReorderItems)
	apiGroup.Patch("/items/:itemID", protected, treeHandler.UpdateItem)
	apiGroup.Delete("/items/:itemID", protected, treeHandler.DeleteItem)
	apiGroup.Post("/items/:itemID/duplicate", protected, treeHandler.DuplicateItem)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
