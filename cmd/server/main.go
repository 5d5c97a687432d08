package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/jeetendra29gupta/pizza-order-api/docs" // swagger docs

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/jeetendra29gupta/pizza-order-api/internal/auth"
	"github.com/jeetendra29gupta/pizza-order-api/internal/cache"
	"github.com/jeetendra29gupta/pizza-order-api/internal/config"
	"github.com/jeetendra29gupta/pizza-order-api/internal/db"
	"github.com/jeetendra29gupta/pizza-order-api/internal/handler"
	"github.com/jeetendra29gupta/pizza-order-api/internal/middleware"
	"github.com/jeetendra29gupta/pizza-order-api/internal/model"
	"github.com/jeetendra29gupta/pizza-order-api/internal/queue"
	"github.com/jeetendra29gupta/pizza-order-api/internal/repository"
	"github.com/jeetendra29gupta/pizza-order-api/internal/router"
	"github.com/jeetendra29gupta/pizza-order-api/internal/service"
)

// @title Pizza Order API
// @version 1.0
// @description Pizza ordering API with JWT authentication, staff authorization, and order management.
// @host localhost:8181
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(echomw.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		for _, table := range []interface{}{&model.Order{}, &model.User{}} {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(&model.User{}, &model.Order{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	orderRepo := repository.NewOrderRepository(gormDB)

	// Initialize auth components
	codec, err := auth.NewTokenCodec(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		log.Fatalf("token codec init: %v", err)
	}
	authMiddleware := middleware.NewAuthMiddleware(codec, userRepo)

	// Initialize event publisher
	events := queue.NewPublisher(cfg.RabbitMQURL)

	// Initialize services
	authService := service.NewAuthService(userRepo, codec)
	orderService := service.NewOrderService(orderRepo, userRepo, cacheClient, events)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	orderHandler := handler.NewOrderHandler(orderService)

	// Register routes
	router.Register(e, authMiddleware, authHandler, orderHandler)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: %s/swagger/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
