package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"tenancy-service/internal/handler"
	"tenancy-service/internal/middleware"
	"tenancy-service/internal/multitenancy"
	"tenancy-service/pkg/config"
	"tenancy-service/pkg/database"
	"tenancy-service/pkg/jwtutil"
	"tenancy-service/pkg/logger"
	"tenancy-service/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting tenancy service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	if err := database.Initialize(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Seed the default roles and permissions
	if cfg.Seed.Enabled {
		if err := multitenancy.Seed(database.GetDB()); err != nil {
			log.Fatal("Failed to seed roles and permissions", zap.Error(err))
		}
		log.Info("Default roles and permissions seeded")
	}

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover()) // Add recovery middleware
	e.Use(echomiddleware.CORS())    // Add CORS middleware
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes - these don't belong under /api since they're for getting access to the API
	auth := e.Group("/auth")
	auth.POST("/login", handler.Login)
	auth.POST("/register", handler.Register)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	// Organization management
	organizations := api.Group("/organizations")
	organizations.POST("", handler.CreateOrganization)
	organizations.GET("", handler.ListUserOrganizations)
	organizations.POST("/switch", handler.SwitchOrganization)

	// Invitations - create on behalf of an organization, list/accept/decline
	// as the invited user
	invitations := api.Group("/invitations")
	invitations.POST("", handler.InviteUser)
	invitations.GET("", handler.ListInvitations)
	invitations.POST("/:id/accept", handler.AcceptInvitation)
	invitations.POST("/:id/decline", handler.DeclineInvitation)

	// Membership role management - requires an organization-scoped token
	memberships := api.Group("/memberships")
	memberships.Use(middleware.RequireOrganizationContext)
	memberships.POST("/:id/roles", handler.AddMembershipRole)
	memberships.DELETE("/:id/roles/:role", handler.RemoveMembershipRole)
	memberships.DELETE("/:id", handler.RemoveMembership)

	// Role and permission catalog management
	roles := api.Group("/roles")
	roles.POST("", handler.CreateRole)
	roles.DELETE("/:name", handler.DeleteRole)
	roles.GET("/:name/permissions", handler.ListRolePermissions)
	roles.POST("/:name/permissions", handler.AddRolePermission)
	roles.DELETE("/:name/permissions/:permission_id", handler.RemoveRolePermission)

	permissions := api.Group("/permissions")
	permissions.POST("", handler.CreatePermission)
	permissions.DELETE("/:id", handler.DeletePermission)

	// Authorization checks
	checks := api.Group("/check")
	checks.POST("/permission", handler.CheckPermission)
	checks.POST("/role", handler.CheckRole)

	// Get server port from configuration
	port := cfg.Server.Port

	// Start server
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
