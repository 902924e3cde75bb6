// Package routes handles the setup and configuration of API routes
package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "schoolportal/docs" // Import swagger docs
	"schoolportal/internal/api/handlers"
	"schoolportal/internal/api/middleware"
	"schoolportal/internal/config"
	"schoolportal/internal/email"
	"schoolportal/internal/ratelimit"
	"schoolportal/internal/repository"
	"schoolportal/internal/security"
	"schoolportal/internal/session"
)

// Deps carries the shared services the router wires into handlers. They are
// constructed in main so background jobs can share them.
type Deps struct {
	UserRepo  repository.UserRepository
	ResetRepo repository.PasswordResetRepository
	EventRepo repository.SecurityEventRepository
	Sessions  *session.Manager
	Limiter   *ratelimit.Store
	Events    *security.EventLogger
	Email     email.EmailSender
	Logger    *zap.Logger
}

// Setup configures all API routes and their handlers
func Setup(cfg *config.Config, db *sql.DB, deps Deps) *gin.Engine {
	r := gin.Default()

	// Every response gets the hardening headers; everything else runs
	// behind the global throttle. Suspicious input is rejected before any
	// handler, then the session is loaded.
	r.Use(middleware.SecurityHeaders())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.Use(middleware.NewRateLimiter(cfg).Middleware())
	r.Use(middleware.SuspiciousInput(deps.Events))

	sessionMW := middleware.NewSessionMiddleware(deps.Sessions, deps.Events)
	r.Use(sessionMW.Load())

	csrf := middleware.CSRF(deps.Events)
	limit := func(action string, policy ratelimit.Policy) gin.HandlerFunc {
		return middleware.ActionRateLimit(deps.Limiter, deps.Events, action, policy)
	}

	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(deps.UserRepo, deps.ResetRepo, deps.Sessions, deps.Events, deps.Email, deps.Logger)
	dashboardHandler := handlers.NewDashboardHandler()
	securityHandler := handlers.NewSecurityHandler(deps.EventRepo, deps.Logger)

	r.GET("/health", healthHandler.Health)

	auth := r.Group("/auth")
	{
		auth.GET("/csrf", authHandler.CSRFToken)
		auth.POST("/login", csrf, limit("login", cfg.RateLimit.Login), authHandler.Login)
		auth.POST("/register", csrf, limit("register", cfg.RateLimit.Register), authHandler.Register)
		auth.POST("/forgot-password", csrf, limit("password_reset", cfg.RateLimit.PasswordReset), authHandler.ForgotPassword)
		auth.POST("/reset-password", csrf, limit("password_reset", cfg.RateLimit.PasswordReset), authHandler.ResetPassword)
		auth.POST("/logout", csrf, authHandler.Logout)
	}

	r.GET("/dashboard", sessionMW.LoginRequired(), dashboardHandler.Show)

	admin := r.Group("/admin")
	admin.Use(sessionMW.AdminRequired())
	{
		admin.GET("/security", securityHandler.Stats)
	}

	return r
}
