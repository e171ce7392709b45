package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"cargo-backend/internal/auth"
	"cargo-backend/internal/cache"
	"cargo-backend/internal/config"
	"cargo-backend/internal/database"
	"cargo-backend/internal/db"
	"cargo-backend/internal/handlers"
	"cargo-backend/internal/health"
	h "cargo-backend/internal/http"
	"cargo-backend/internal/middleware"
	"cargo-backend/internal/monitoring"
	"cargo-backend/internal/repositories"
	"cargo-backend/internal/services"
	"cargo-backend/internal/storage"
	"cargo-backend/internal/ws"
	"cargo-backend/migrations"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Connect to PostgreSQL
	pool := db.Connect(cfg)
	defer pool.Close()

	// Initialize Redis cache (optional - graceful fallback if unavailable)
	if err := cache.Init(cfg); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (dashboard stats will hit the database)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Run database migrations
	// Uses embedded migrations for standalone binary operation
	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool, migrations.FS)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize report archiver (optional - nil when no bucket configured)
	archiver, err := storage.NewArchiver(ctx, cfg)
	if err != nil {
		log.Printf("[Archive] Disabled: %v", err)
	} else if archiver != nil {
		log.Printf("[Archive] Uploading reports to bucket %s", cfg.Archive.Bucket)
	}

	// Initialize health checker and JWT manager
	healthChecker := health.NewHealthChecker(pool)
	jwtManager := auth.NewJWTManager(cfg)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(pool)
	flightRepo := repositories.NewFlightRepository(pool)
	planRepo := repositories.NewLoadPlanRepository(pool)
	itemRepo := repositories.NewLoadPlanItemRepository(pool)
	changeRepo := repositories.NewLoadPlanChangeRepository(pool)
	uldRepo := repositories.NewULDRepository(pool)
	shiftRepo := repositories.NewStaffShiftRepository(pool)

	// Start the live ULD status feed
	hub := ws.NewHub()
	go hub.Run()

	// Initialize services
	userService := services.NewUserService(userRepo, jwtManager)
	planService := services.NewLoadPlanService(planRepo, itemRepo)
	diffService := services.NewDiffService(itemRepo, changeRepo)
	uldService := services.NewULDService(uldRepo, hub)
	dashboardService := services.NewDashboardService(pool)
	reportService := services.NewReportService(pool, planRepo, changeRepo, flightRepo)
	collector := monitoring.NewCollector(pool)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService, userRepo)
	flightHandler := handlers.NewFlightHandler(flightRepo)
	loadPlanHandler := handlers.NewLoadPlanHandler(planRepo, itemRepo, planService, diffService)
	uldHandler := handlers.NewULDHandler(uldRepo, uldService)
	rosterHandler := handlers.NewRosterHandler(shiftRepo)
	reportHandler := handlers.NewReportHandler(reportService, archiver)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, collector)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	router := h.NewRouter(
		authHandler,
		userHandler,
		flightHandler,
		loadPlanHandler,
		uldHandler,
		rosterHandler,
		reportHandler,
		dashboardHandler,
		healthHandler,
		hub,
		authMiddleware,
	)

	// Wrap with panic recovery, CORS and metrics middleware
	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Cargo operations server running on %s (station %s)", addr, cfg.Station.Code)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
