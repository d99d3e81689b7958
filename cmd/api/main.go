package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"custodial-wallet-service/config"
	httpHandler "custodial-wallet-service/internal/adapter/http/handler"
	pgStorage "custodial-wallet-service/internal/adapter/storage/postgres"
	redisStorage "custodial-wallet-service/internal/adapter/storage/redis"
	"custodial-wallet-service/internal/core/ports"
	"custodial-wallet-service/internal/service"
	"custodial-wallet-service/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Custodial Wallet Service")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	adminWalletRepo := pgStorage.NewAdminWalletRepo(pool)
	clientWalletRepo := pgStorage.NewClientWalletRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	reqRepo := pgStorage.NewTransactionRequestRepo(pool)
	clientRepo := pgStorage.NewClientRepo(pool)
	userRepo := pgStorage.NewUserRepo(pool)
	auditRepo := pgStorage.NewAuditRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	codeStore := redisStorage.NewCodeStore(rdb)
	refreshStore := redisStorage.NewRefreshStore(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	tokenSvc := service.NewJWTTokenService(cfg.JWT)
	hashSvc := service.NewHashService()
	mailer := service.NewSMTPMailer(cfg.SMTP, log)

	// Initialize business services
	adminWalletSvc := service.NewAdminWalletService(adminWalletRepo, clientWalletRepo, log)
	clientWalletSvc := service.NewClientWalletService(clientWalletRepo, adminWalletRepo, clientRepo, txRepo, transactor, log)
	transactionSvc := service.NewTransactionService(txRepo, clientWalletRepo, transactor, log)
	requestSvc := service.NewTransactionRequestService(reqRepo, clientWalletRepo, txRepo, transactor, log)
	clientSvc := service.NewClientService(clientRepo, clientWalletSvc, hashSvc, log)
	authSvc := service.NewAuthService(userRepo, tokenSvc, hashSvc, mailer, codeStore, refreshStore, cfg.JWT, log)
	auditSvc := service.NewAuditService(auditRepo, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:         authSvc,
		AdminWalletSvc:  adminWalletSvc,
		ClientWalletSvc: clientWalletSvc,
		TransactionSvc:  transactionSvc,
		RequestSvc:      requestSvc,
		ClientSvc:       clientSvc,
		TokenSvc:        tokenSvc,
		RateLimitStore:  rateLimitStore,
		AuditSvc:        auditSvc,
		HealthCheckers:  []ports.HealthChecker{pgHealth, redisHealth},
		CookieDomain:    cfg.Server.CookieDomain,
		RefreshTTL:      cfg.JWT.RefreshTTL,
		Logger:          log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
