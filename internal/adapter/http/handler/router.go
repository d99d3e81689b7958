package handler

import (
	"time"

	"custodial-wallet-service/internal/adapter/http/middleware"
	redisStore "custodial-wallet-service/internal/adapter/storage/redis"
	"custodial-wallet-service/internal/core/domain"
	"custodial-wallet-service/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc         ports.AuthService
	AdminWalletSvc  ports.AdminWalletService
	ClientWalletSvc ports.ClientWalletService
	TransactionSvc  ports.TransactionService
	RequestSvc      ports.TransactionRequestService
	ClientSvc       ports.ClientService
	TokenSvc        ports.TokenService
	RateLimitStore  *redisStore.RateLimitStore // nil = rate limiting disabled
	AuditSvc        ports.AuditService         // nil = audit logging disabled
	HealthCheckers  []ports.HealthChecker
	CookieDomain    string
	RefreshTTL      time.Duration
	Logger          zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	// Health check verifies PostgreSQL and Redis reachability
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	api := r.Group("/api")

	// --- Auth (public except /me) ---
	authHandler := NewAuthHandler(deps.AuthSvc, deps.CookieDomain, deps.RefreshTTL)
	auth := api.Group("/auth")
	{
		auth.POST("/signup", rl("auth_signup"), authHandler.Signup)
		auth.POST("/admin/signup", rl("auth_signup"), authHandler.AdminSignup)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
		auth.POST("/verify-email", rl("auth_verify"), authHandler.VerifyEmail)
		auth.POST("/resend-verification-code", rl("auth_verify"), authHandler.ResendVerificationCode)
		auth.POST("/forgot-password", rl("auth_verify"), authHandler.ForgotPassword)
		auth.POST("/reset-password/:token", rl("auth_verify"), authHandler.ResetPassword)
		auth.POST("/refresh", rl("auth_login"), authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", jwtAuth, authHandler.Me)
	}

	// --- Admin wallets (reads authenticated, writes admin-only) ---
	adminWalletHandler := NewAdminWalletHandler(deps.AdminWalletSvc)
	adminWallets := api.Group("/admin-wallets", jwtAuth)
	{
		adminWallets.GET("", rl("read"), adminWalletHandler.List)
		adminWallets.GET("/:id", rl("read"), adminWalletHandler.GetByID)
		adminWallets.POST("", adminOnly, adminWalletHandler.Create)
		adminWallets.PUT("/:id", adminOnly, adminWalletHandler.Update)
		adminWallets.DELETE("/:id", adminOnly, adminWalletHandler.Delete)
	}

	// --- Client wallets ---
	clientWalletHandler := NewClientWalletHandler(deps.ClientWalletSvc)
	clientWallets := api.Group("/client-wallets", jwtAuth)
	{
		clientWallets.GET("", rl("read"), clientWalletHandler.List)
		clientWallets.GET("/:id", rl("read"), clientWalletHandler.GetByID)
		clientWallets.GET("/client/:clientId", rl("read"), clientWalletHandler.ListByClient)
		clientWallets.POST("", adminOnly, clientWalletHandler.Create)
		clientWallets.POST("/:id/credit", adminOnly, rl("wallet_move"), clientWalletHandler.Credit)
		clientWallets.POST("/:id/debit", adminOnly, rl("wallet_move"), clientWalletHandler.Debit)
	}

	// --- Transactions ---
	transactionHandler := NewTransactionHandler(deps.TransactionSvc)
	transactions := api.Group("/transactions", jwtAuth)
	{
		transactions.GET("", rl("read"), transactionHandler.List)
		transactions.GET("/:id", rl("read"), transactionHandler.GetByID)
		transactions.GET("/client-wallet/:clientWalletId", rl("read"), transactionHandler.ListByClientWallet)
		transactions.POST("", rl("ledger"), transactionHandler.Create)
		transactions.DELETE("/:id", adminOnly, transactionHandler.Delete)
		transactions.PATCH("/:id/status", adminOnly, transactionHandler.UpdateStatus)
	}

	// --- Transaction requests ---
	requestHandler := NewTransactionRequestHandler(deps.RequestSvc)
	requests := api.Group("/transaction-requests", jwtAuth)
	{
		requests.GET("", rl("read"), requestHandler.List)
		requests.GET("/:id", rl("read"), requestHandler.GetByID)
		requests.GET("/status/:status", rl("read"), requestHandler.ListByStatus)
		requests.POST("", rl("ledger"), requestHandler.Create)
		requests.PATCH("/:id/status", adminOnly, requestHandler.UpdateStatus)
	}

	// --- Clients (admin console) ---
	clientHandler := NewClientHandler(deps.ClientSvc)
	clients := api.Group("/clients", jwtAuth, adminOnly)
	{
		clients.GET("", rl("read"), clientHandler.List)
		clients.GET("/:id", rl("read"), clientHandler.GetByID)
		clients.POST("", clientHandler.Create)
		clients.PUT("/:id", clientHandler.Update)
		clients.DELETE("/:id", clientHandler.Delete)
	}

	return r
}
