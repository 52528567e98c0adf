package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cruzaro/hpcollect/internal/cache"
	"github.com/cruzaro/hpcollect/internal/config"
	"github.com/cruzaro/hpcollect/internal/database"
	"github.com/cruzaro/hpcollect/internal/guard"
	"github.com/cruzaro/hpcollect/internal/handler"
	"github.com/cruzaro/hpcollect/internal/middleware"
	"github.com/cruzaro/hpcollect/internal/models"
	"github.com/cruzaro/hpcollect/internal/repository"
	"github.com/cruzaro/hpcollect/internal/service"
	"github.com/cruzaro/hpcollect/internal/snapshot"
	"github.com/cruzaro/hpcollect/internal/utils"
	"github.com/cruzaro/hpcollect/internal/worker"
)

// sessionTTL must match the token lifetime issued by utils.GenerateJWT.
const sessionTTL = 24 * time.Hour

// main is the application entrypoint for the CRUZARO ENT collections API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting hpcollect api")
	utils.SetJWTSecret(cfg.JWTSecret)

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Initialize caches
	sessionStore := cache.NewSessionStore(redisClient, sessionTTL)
	reportCache := cache.NewReportCache(redisClient, 5*time.Minute)

	// 4. Initialize repositories
	agentRepo := repository.NewAgentRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	itemRepo := repository.NewItemRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	// 5. Initialize the access guard and snapshot orchestrator. Every
	// published snapshot runs the guards, so deactivating an agent revokes
	// their session within one refresh cycle.
	guards := guard.NewManager(sessionStore)

	store := snapshot.NewStore(agentRepo, locationRepo, itemRepo, customerRepo, paymentRepo, settingsRepo)
	orchestrator := snapshot.NewOrchestrator(store, cfg.Sync.PaymentWindow, cfg.Sync.FetchTimeout, models.Settings{
		RegistrationFee: cfg.Fees.RegistrationFee,
		BoxValue:        cfg.Fees.BoxValue,
	})
	orchestrator.Subscribe(func(ctx context.Context, snap *snapshot.Snapshot) {
		guards.ObserveAll(ctx, snap.Agents)
	})

	// 6. Initialize services
	authSvc := service.NewAuthService(profileRepo, agentRepo, sessionStore, guards)
	agentSvc := service.NewAgentService(agentRepo, profileRepo, orchestrator, orchestrator)
	registrationSvc := service.NewRegistrationService(customerRepo, itemRepo, settingsRepo, cfg.Fees.RegistrationFee, orchestrator)
	collectionSvc := service.NewCollectionService(paymentRepo, customerRepo, itemRepo, orchestrator)
	customerSvc := service.NewCustomerService(customerRepo, agentRepo, orchestrator, orchestrator)
	itemSvc := service.NewItemService(itemRepo, orchestrator)
	settingsSvc := service.NewSettingsService(settingsRepo, locationRepo, orchestrator)
	reportSvc := service.NewReportService(paymentRepo, customerRepo, reportCache, orchestrator)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:   handler.NewHealthHandler(db, orchestrator),
		Auth:     handler.NewAuthHandler(authSvc),
		Agent:    handler.NewAgentHandler(agentSvc, orchestrator),
		Customer: handler.NewCustomerHandler(registrationSvc, collectionSvc, customerSvc, orchestrator),
		Item:     handler.NewItemHandler(itemSvc, orchestrator),
		Report:   handler.NewReportHandler(reportSvc),
		Settings: handler.NewSettingsHandler(settingsSvc, orchestrator),
		Sync:     handler.NewSyncHandler(orchestrator),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware(sessionStore)
	loginLimiter := middleware.NewLoginRateLimiter(redisClient)

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw, loginLimiter)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start the snapshot worker; its first run publishes version 1.
	go worker.NewSnapshotWorker(orchestrator, cfg.Sync.RefreshInterval).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Agent    *handler.AgentHandler
	Customer *handler.CustomerHandler
	Item     *handler.ItemHandler
	Report   *handler.ReportHandler
	Settings *handler.SettingsHandler
	Sync     *handler.SyncHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMw *middleware.JWTMiddleware, loginLimiter *middleware.LoginRateLimiter) {
	router.GET("/v1/health", handlers.Health.GetHealth)
	router.POST("/v1/auth/login", loginLimiter.Handle(), handlers.Auth.Login)

	// Routes shared by agents and admins
	authed := router.Group("/v1")
	authed.Use(jwtMw.Handle())
	{
		authed.POST("/auth/signout", handlers.Auth.SignOut)
		authed.GET("/items", handlers.Item.GetItems)
		authed.GET("/dashboard", handlers.Agent.GetDashboard)
		authed.POST("/customers", handlers.Customer.Register)
		authed.POST("/customers/:id/products", handlers.Customer.AssignProduct)
		authed.POST("/customers/:id/collect", handlers.Customer.Collect)
	}

	// Admin-only routes
	admin := router.Group("/v1/admin")
	admin.Use(jwtMw.Handle(), middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/dashboard", handlers.Report.GetDashboard)
		admin.GET("/reports/daily", handlers.Report.GetDailyTotal)
		admin.GET("/reports/history", handlers.Report.GetHistory)

		admin.GET("/agents", handlers.Agent.GetAgents)
		admin.POST("/agents", handlers.Agent.CreateAgent)
		admin.PATCH("/agents/:id/status", handlers.Agent.SetActive)

		admin.GET("/customers", handlers.Customer.GetCustomers)
		admin.GET("/customers/:id", handlers.Customer.GetStatement)
		admin.PATCH("/customers/:id", handlers.Customer.UpdateProfile)
		admin.PATCH("/customers/:id/status", handlers.Customer.SetActive)
		admin.POST("/customers/:id/transfer", handlers.Customer.Transfer)

		admin.POST("/items", handlers.Item.CreateItem)
		admin.PUT("/items/:id", handlers.Item.UpdateItem)
		admin.DELETE("/items/:id", handlers.Item.DeleteItem)

		admin.GET("/settings", handlers.Settings.GetSettings)
		admin.PUT("/settings/registration-fee", handlers.Settings.UpdateRegistrationFee)
		admin.POST("/settings/zones", handlers.Settings.AddZone)

		admin.POST("/sync", handlers.Sync.Refresh)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
