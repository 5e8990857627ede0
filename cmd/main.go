package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/badarts/club-backend/backup"
	"github.com/badarts/club-backend/brackets"
	"github.com/badarts/club-backend/config"
	"github.com/badarts/club-backend/db"
	_ "github.com/badarts/club-backend/docs"
	"github.com/badarts/club-backend/handlers"
	"github.com/badarts/club-backend/notify"
	"github.com/badarts/club-backend/payments"
	"github.com/badarts/club-backend/printful"
	"github.com/badarts/club-backend/repositories"
	api "github.com/badarts/club-backend/routes"
	"github.com/badarts/club-backend/services"
	"github.com/badarts/club-backend/spreadsheet"
	"github.com/badarts/club-backend/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

// @title                      Club backend API
// @version                    1.0
// @description                Tournaments, leaderboards, licences and inscriptions of the darts club.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	handlers.SetLogger(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Cancelled on shutdown; stops the backup scheduler.
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	migrateCtx, cancelMigrate := context.WithTimeout(appCtx, 30*time.Second)
	err = db.Migrate(migrateCtx, dbConn)
	cancelMigrate()
	if err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}

	if err := db.SeedUsers(appCtx, dbConn, cfg.InitialUsersConfig, logger); err != nil {
		logger.Error("failed to seed initial users", slog.Any("error", err))
		os.Exit(1)
	}

	var notifier notify.Notifier = notify.Nop{}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != 0 {
		telegram, err := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			logger.Error("failed to initialize Telegram notifier, notifications disabled", slog.Any("error", err))
		} else {
			notifier = telegram
			logger.Info("Telegram notifier initialized")
		}
	}

	paymentProvider, err := payments.NewProvider(cfg)
	if err != nil {
		logger.Error("failed to initialize payment provider", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("payment provider initialized", slog.String("provider", paymentProvider.Name()))

	var sheets spreadsheet.Source
	if cfg.GoogleServiceAccountJSON != "" && cfg.GoogleSheetsSpreadsheetID != "" {
		client, err := spreadsheet.NewSheetsClient(appCtx, cfg.GoogleServiceAccountJSON, cfg.GoogleSheetsSpreadsheetID)
		if err != nil {
			logger.Error("failed to initialize Google Sheets client, sheet import disabled", slog.Any("error", err))
		} else {
			sheets = client
			logger.Info("Google Sheets client initialized")
		}
	}

	wsHub := brackets.NewHub(logger)
	go wsHub.Run()
	defer wsHub.Stop()
	logger.Info("WebSocket Hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	registrationRepo := repositories.NewPostgresRegistrationRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	poolRepo := repositories.NewPostgresPoolRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	leaderboardRepo := repositories.NewPostgresLeaderboardRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	licenceRepo := repositories.NewPostgresLicenceRepository(dbConn)
	inscriptionRepo := repositories.NewPostgresInscriptionRepository(dbConn)
	paymentRepo := repositories.NewPostgresPaymentRepository(dbConn)
	refreshTokenRepo := repositories.NewPostgresRefreshTokenRepository(dbConn)
	officialRepo := repositories.NewPostgresOfficialLeaderboardRepository(dbConn)
	logger.Info("Repositories initialized")

	tx := services.NewTransactor(dbConn)

	authService := services.NewAuthService(userRepo, refreshTokenRepo, notifier, logger)
	userService := services.NewUserService(userRepo, notifier, logger)
	tournamentService := services.NewTournamentService(tx, tournamentRepo, participantRepo, poolRepo, matchRepo, wsHub, logger)
	registrationService := services.NewRegistrationService(registrationRepo, tournamentRepo, userRepo, notifier, logger)
	participantService := services.NewParticipantService(tx, participantRepo, tournamentRepo, wsHub)
	structureService := services.NewStructureService(tx, tournamentRepo, participantRepo, poolRepo, matchRepo, wsHub, logger)
	leaderboardService := services.NewLeaderboardService(tournamentRepo, poolRepo, leaderboardRepo)
	matchService := services.NewMatchService(tx, matchRepo, tournamentRepo, poolRepo, leaderboardService, wsHub, logger)
	eventService := services.NewEventService(eventRepo)
	licenceService := services.NewLicenceService(licenceRepo, userRepo, logger)
	inscriptionService := services.NewInscriptionService(tx, inscriptionRepo, userRepo, sheets, logger)
	paymentService := services.NewPaymentService(paymentProvider, paymentRepo, tournamentRepo, userRepo, notifier, cfg.PaymentReturnURL, logger)
	notificationService := services.NewNotificationService(notifier)
	officialService := services.NewOfficialLeaderboardService(officialRepo, logger)
	var shopClient services.ShopClient
	if cfg.PrintfulAPIKey != "" {
		shopClient = printful.NewClient(printful.Config{APIKey: cfg.PrintfulAPIKey, StoreID: cfg.PrintfulStoreID})
	} else {
		logger.Warn("PRINTFUL_API_KEY is not set, shop routes disabled")
	}
	shopService := services.NewShopService(shopClient, logger)
	logger.Info("Services initialized")

	// Backups need object storage; without it the admin routes answer 503.
	var backupManager handlers.BackupManager
	if cfg.BackupsEnabled() {
		store, err := storage.NewCloudflareR2Store(appCtx, storage.CloudflareR2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 store", slog.Any("error", err))
			os.Exit(1)
		}
		backupService := backup.NewService(backup.NewExporter(dbConn, db.Tables), store, cfg.AppName, cfg.BackupRetention, logger)
		backupManager = backupService
		go backupService.Schedule(appCtx, cfg.BackupInterval)
	} else {
		logger.Warn("Cloudflare R2 is not configured, backups disabled")
	}

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Auth:         handlers.NewAuthHandler(authService, cfg.JWTSecretKey),
		User:         handlers.NewUserHandler(userService),
		Tournament:   handlers.NewTournamentHandler(tournamentService),
		Registration: handlers.NewRegistrationHandler(registrationService),
		Participant:  handlers.NewParticipantHandler(participantService),
		Structure:    handlers.NewStructureHandler(structureService),
		Match:        handlers.NewMatchHandler(matchService),
		Leaderboard:  handlers.NewLeaderboardHandler(leaderboardService),
		Official:     handlers.NewOfficialLeaderboardHandler(officialService),
		Event:        handlers.NewEventHandler(eventService),
		Licence:      handlers.NewLicenceHandler(licenceService),
		Inscription:  handlers.NewInscriptionHandler(inscriptionService),
		Payment:      handlers.NewPaymentHandler(paymentService),
		Notify:       handlers.NewNotifyHandler(notificationService),
		Admin:        handlers.NewAdminHandler(backupManager),
		WebSocket:    handlers.NewWebSocketHandler(wsHub),
		Shop:         handlers.NewShopHandler(shopService),
	}, api.Options{
		JWTSecret:      cfg.JWTSecretKey,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	logger.Info("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			cancelApp()
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancelApp()

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
