package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"workshop-backend/internal/auth"
	"workshop-backend/internal/cache"
	"workshop-backend/internal/config"
	"workshop-backend/internal/database"
	"workshop-backend/internal/db"
	"workshop-backend/internal/handlers"
	"workshop-backend/internal/health"
	h "workshop-backend/internal/http"
	"workshop-backend/internal/middleware"
	"workshop-backend/internal/receipts"
	"workshop-backend/internal/repositories"
	"workshop-backend/internal/services"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	// Redis cache is optional; reads fall through to PostgreSQL when it
	// is unavailable.
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool, "migrations")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	healthChecker := health.NewHealthChecker(pool)
	jwtManager := auth.NewJWTManager(cfg)

	archiver, err := receipts.NewArchiver(cfg)
	if err != nil {
		log.Fatalf("Failed to configure receipt archive: %v", err)
	}
	if archiver != nil {
		log.Println("[Receipt Archive] Enabled")
	}

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	customerRepo := repositories.NewCustomerRepository(pool)
	equipmentRepo := repositories.NewEquipmentRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)
	historyRepo := repositories.NewStatusHistoryRepository(pool)

	// Services
	userService := services.NewUserService(userRepo, jwtManager)
	customerService := services.NewCustomerService(customerRepo)
	equipmentService := services.NewEquipmentService(equipmentRepo, customerRepo, userRepo)
	paymentService := services.NewPaymentService(paymentRepo, equipmentRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	equipmentHandler := handlers.NewEquipmentHandler(equipmentService, historyRepo)
	paymentHandler := handlers.NewPaymentHandler(paymentService, equipmentService, customerService, archiver)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)

	router := h.NewRouter(
		authHandler,
		userHandler,
		customerHandler,
		equipmentHandler,
		paymentHandler,
		healthHandler,
		authMiddleware,
	)

	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
