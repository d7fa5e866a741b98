package main

import (
	"context"
	"fmt"
	"log"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "webstore/docs"
	"webstore/internal/caching"
	"webstore/internal/config"
	"webstore/internal/handlers"
	"webstore/internal/jobs"
	"webstore/internal/middleware"
	"webstore/internal/repositories"
	"webstore/internal/services"
	"webstore/pkg/database"
)

const version = "1.0.0"

//	@title			Webstore API
//	@version		1.0
//	@description	Product catalog with image attachments and account management.
//	@BasePath		/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	pool, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Printf("WARN: Redis ping failed on startup: %v", err)
	}

	store, err := services.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, cfg.ImageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize object store: %v", err)
	}
	if err := store.EnsureBucket(context.Background()); err != nil {
		log.Fatalf("Failed to ensure image bucket exists: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	productImageRepo := repositories.NewProductImageRepo(pool)

	// Services
	cacheSvc := caching.NewRedisCacheService(redisClient)
	publisher := services.NewRedisPublisher(redisClient, cfg.ImageTopic)
	authSvc := services.NewAuthService(cfg.JWTSecret, cfg.TokenTTL)
	productSvc := services.NewProductService(productRepo, productImageRepo, store, cacheSvc, cfg.MaxQuantity)
	imageSvc := services.NewProductImageService(productImageRepo, productRepo, userRepo, store, publisher)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authSvc, userRepo)
	userHandlers := handlers.NewUserHandlers(userRepo)
	productHandlers := handlers.NewProductHandlers(productSvc, cfg.EmptyUpdateNoOp)
	imageHandlers := handlers.NewProductImageHandlers(imageSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, store)

	// Background reconciliation of half-finished uploads
	reconciler, err := jobs.NewReconciler(productImageRepo, cfg.ReconcileInterval, cfg.ReconcileMaxAge)
	if err != nil {
		log.Fatalf("Failed to create reconciler: %v", err)
	}
	reconciler.Start()
	defer func() {
		if err := reconciler.Stop(); err != nil {
			log.Printf("WARN: reconciler shutdown failed: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	e.GET("/healthz", healthHandlers.Check)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")

	// Registration and login need no token
	v1.POST("/user", authHandlers.Register)
	v1.POST("/user/login", authHandlers.Login)

	protected := v1.Group("")
	protected.Use(middleware.JWT(cfg.JWTSecret))

	protected.GET("/user/:userId", userHandlers.Get)
	protected.PUT("/user/:userId", userHandlers.Update)

	protected.POST("/product", productHandlers.Create)
	protected.GET("/product", productHandlers.List)
	protected.GET("/product/:id", productHandlers.Get)
	protected.PATCH("/product/:id", productHandlers.Update)
	protected.PUT("/product/:id", productHandlers.Replace)
	protected.DELETE("/product/:id", productHandlers.Delete)

	protected.GET("/product/:id/image", imageHandlers.List)
	protected.POST("/product/:id/image", imageHandlers.Upload)
	protected.GET("/product/:id/image/:imageId", imageHandlers.Get)
	protected.DELETE("/product/:id/image/:imageId", imageHandlers.Delete)

	log.Printf("Webstore server v%s starting on port %d", version, cfg.Port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Port)))
}
