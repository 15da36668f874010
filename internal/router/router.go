package router

import (
	"notes-service/internal/handler"
	"notes-service/internal/middleware"
	"notes-service/internal/store"
	"notes-service/pkg/logger"
	"notes-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

// New wires the stores, handlers and middleware onto an Echo instance.
func New(db *gorm.DB) *echo.Echo {
	users := store.NewUserStore(db)
	tenants := store.NewTenantStore(db)
	notes := store.NewNoteStore(db)

	authHandler := handler.NewAuthHandler(users, tenants)
	noteHandler := handler.NewNoteHandler(notes)
	tenantHandler := handler.NewTenantHandler(tenants, users)

	e := echo.New()
	e.HideBanner = true

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestID)
	e.Use(logger.Middleware(logger.GetLogger()))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	auth := e.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, middleware.Auth)

	// Note routes - all require authentication
	noteRoutes := e.Group("/notes")
	noteRoutes.Use(middleware.Auth)
	noteRoutes.POST("", noteHandler.Create)
	noteRoutes.GET("", noteHandler.List)
	noteRoutes.GET("/:id", noteHandler.Get)
	noteRoutes.PUT("/:id", noteHandler.Update)
	noteRoutes.DELETE("/:id", noteHandler.Delete)

	// Tenant routes - require authentication and the admin role
	tenantRoutes := e.Group("/tenants")
	tenantRoutes.Use(middleware.Auth)
	tenantRoutes.Use(middleware.RequireAdmin)
	tenantRoutes.POST("/:slug/upgrade", tenantHandler.Upgrade)
	tenantRoutes.POST("/:slug/invite", tenantHandler.Invite)

	return e
}
