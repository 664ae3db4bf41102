package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/selotroca/selotroca-backend/api/routes"
	"github.com/selotroca/selotroca-backend/internal/config"
	"github.com/selotroca/selotroca-backend/internal/handlers"
	"github.com/selotroca/selotroca-backend/internal/repositories"
	mongorepo "github.com/selotroca/selotroca-backend/internal/repositories/mongodb"
	"github.com/selotroca/selotroca-backend/internal/services"
	"github.com/selotroca/selotroca-backend/pkg/mongodb"
	"github.com/selotroca/selotroca-backend/pkg/smsgateway"
	"golang.org/x/exp/slog"
)

func main() {
	// A missing .env file is fine in deployed environments.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("Error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	var profileRepo repositories.ProfileRepository = mongorepo.NewProfileRepository(db)
	var listingRepo repositories.ListingRepository = mongorepo.NewListingRepository(db)
	var transactionRepo repositories.TransactionRepository = mongorepo.NewTransactionRepository(db)
	var auditRepo repositories.AuditLogRepository = mongorepo.NewAuditLogRepository(db)
	var sessionRepo repositories.SessionRepository = mongorepo.NewSessionRepository(db)
	var otpRepo repositories.OtpRepository = mongorepo.NewOtpRepository(db)
	var collectionRepo repositories.CollectionRepository = mongorepo.NewCollectionRepository(db)
	var settingsRepo repositories.SettingsRepository = mongorepo.NewSettingsRepository(db)
	var adminUserRepo repositories.AdminUserRepository = mongorepo.NewAdminUserRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := listingRepo.EnsureIndexes(ctx); err != nil {
		cancel()
		slog.Error("Failed to ensure listing indexes", "error", err)
		os.Exit(1)
	}
	cancel()

	// Services
	smsGateway := smsgateway.NewGateway(cfg)
	ledgerService := services.NewLedgerService(profileRepo, transactionRepo)
	auditService := services.NewAuditService(auditRepo)
	listingService := services.NewListingService(listingRepo, profileRepo, ledgerService, auditService)
	authService := services.NewAuthService(profileRepo, sessionRepo, otpRepo, smsGateway, cfg)
	profileService := services.NewProfileService(profileRepo, transactionRepo)
	catalogService := services.NewCatalogService(collectionRepo)
	backofficeService := services.NewBackofficeService(adminUserRepo, settingsRepo, auditRepo, profileRepo, listingRepo, cfg)

	// Handlers
	deps := routes.HandlerDependencies{
		AuthHandler:       handlers.NewAuthHandler(authService),
		ListingHandler:    handlers.NewListingHandler(listingService),
		ProfileHandler:    handlers.NewProfileHandler(profileService),
		AdminHandler:      handlers.NewAdminHandler(listingService, listingRepo),
		CollectionHandler: handlers.NewCollectionHandler(catalogService),
		BackofficeHandler: handlers.NewBackofficeHandler(backofficeService),
		AuthService:       authService,
		BackofficeService: backofficeService,
	}

	router := routes.SetupRouter(cfg, deps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// The expiry sweeper runs until the process exits.
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go runExpirySweeper(sweeperCtx, listingService, time.Duration(cfg.Sweeper.IntervalMinutes)*time.Minute)

	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exiting")
}

// runExpirySweeper periodically transitions listings past their expiry into
// the expired state.
func runExpirySweeper(ctx context.Context, listingService services.ListingService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweepCtx, cancel := context.WithTimeout(ctx, time.Minute)
			if _, err := listingService.ExpireStale(sweepCtx); err != nil {
				slog.Error("Expiry sweep failed", "error", err)
			}
			cancel()
		}
	}
}

func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}
