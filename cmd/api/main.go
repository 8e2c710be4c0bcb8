package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"eventmarket/config"
	_ "eventmarket/docs"
	"eventmarket/internal/adapters/auth"
	"eventmarket/internal/adapters/email"
	"eventmarket/internal/adapters/media"
	"eventmarket/internal/adapters/payments"
	httpdelivery "eventmarket/internal/delivery/http"
	"eventmarket/internal/delivery/http/controllers"
	"eventmarket/internal/delivery/http/middleware"
	"eventmarket/internal/repository/postgres"
	"eventmarket/internal/services"
)

const serviceTimeout = 5 * time.Second

// @title Event Market API
// @version 1.0
// @description Marketplace backend for hosted events: accounts, event listings, paid participation via hosted checkout, host applications, reviews, and admin operations.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := cfg.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	personRepo := postgres.NewPersonRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	participantRepo := postgres.NewParticipantRepository(db)
	ledger := postgres.NewLedgerStore(db)
	reviewRepo := postgres.NewReviewRepository(db)
	applicationRepo := postgres.NewHostApplicationRepository(db)
	statsRepo := postgres.NewStatsRepository(db)

	accessCodec := auth.NewJWTCodec(cfg.JWTAccessSecret)
	refreshCodec := auth.NewJWTCodec(cfg.JWTRefreshSecret)
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	gateway := payments.NewStripeGateway(payments.Config{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		FrontendURL:   cfg.FrontendURL,
	})
	refunder := payments.NewRefundLogger(logger)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Mailer.Provider,
		FromAddress: cfg.Mailer.FromAddress,
		FromName:    cfg.Mailer.FromName,
		SES: email.SESConfig{
			Region:          cfg.Mailer.SES.Region,
			AccessKeyID:     cfg.Mailer.SES.AccessKeyID,
			SecretAccessKey: cfg.Mailer.SES.SecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "error", err)
		os.Exit(1)
	}
	mediaStore := media.NewHTTPStore(http.DefaultClient, media.Config{
		UploadURL: cfg.Media.UploadURL,
		APIKey:    cfg.Media.APIKey,
	})

	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	authService := services.NewAuthService(personRepo, hasher, accessCodec, refreshCodec, refreshCodec,
		cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry, serviceTimeout)
	personService := services.NewPersonService(personRepo, hasher, serviceTimeout)
	eventService := services.NewEventService(eventRepo, participantRepo, personRepo, ledger, serviceTimeout)
	participationService := services.NewParticipationService(eventRepo, participantRepo, ledger, gateway,
		refunder, logger, serviceTimeout)
	reconcileService := services.NewReconcileService(ledger, gateway, eventRepo, participantRepo, personRepo,
		emailService, logger, serviceTimeout)
	adminService := services.NewAdminService(personRepo, statsRepo, serviceTimeout)
	applicationService := services.NewHostApplicationService(applicationRepo, personRepo, emailService,
		logger, serviceTimeout)
	reviewService := services.NewReviewService(reviewRepo, participantRepo, eventRepo, personRepo, serviceTimeout)

	mux := httpdelivery.NewRouter(httpdelivery.Controllers{
		Auth:          controllers.NewAuthController(logger, authService, personService),
		Person:        controllers.NewPersonController(logger, personService, mediaStore),
		Event:         controllers.NewEventController(logger, eventService, mediaStore),
		Participation: controllers.NewParticipationController(logger, participationService),
		Payment:       controllers.NewPaymentController(logger, gateway, reconcileService),
		Admin:         controllers.NewAdminController(logger, adminService, personService),
		HostApp:       controllers.NewHostApplicationController(logger, applicationService),
		Review:        controllers.NewReviewController(logger, reviewService),
	}, accessCodec)

	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
