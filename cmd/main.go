package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"rental-service/internal/handler"
	"rental-service/internal/middleware"
	"rental-service/internal/model"
	"rental-service/internal/notify"
	"rental-service/pkg/config"
	"rental-service/pkg/database"
	"rental-service/pkg/jwtutil"
	"rental-service/pkg/logger"
	"rental-service/pkg/tokenstore"
	"rental-service/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting rental service...", cfg.LogConfig()...)

	// Initialize database
	if _, err := database.InitDB(&cfg.DB); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.MigrateModels(
		&model.User{},
		&model.Listing{},
		&model.Booking{},
		&model.Review{},
		&model.SearchQuery{},
		&model.ListingView{},
	); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility and the logout blacklist
	jwtutil.Initialize(&cfg.JWT)
	tokenstore.Initialize(&cfg.Redis)
	log.Info("JWT utility initialized")

	// Initialize the email notifier; without SMTP config it degrades to
	// a logged no-op
	if cfg.SMTP.Enabled() {
		notify.Initialize(notify.NewSMTPMailer(&cfg.SMTP), cfg.SMTP.SiteName)
		log.Info("Email notifications enabled", zap.String("smtp_host", cfg.SMTP.Host))
	} else {
		notify.Initialize(nil, cfg.SMTP.SiteName)
		log.Info("Email notifications disabled")
	}

	// Initialize Echo framework
	e := echo.New()
	e.Validator = handler.NewRequestValidator()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/register", handler.Register)
	auth.POST("/login", handler.Login)
	auth.POST("/logout", handler.Logout, middleware.AuthMiddleware)

	// Public catalogue - identity is resolved when a token is present so
	// search and view history can be attributed
	catalog := e.Group("/api")
	catalog.Use(middleware.OptionalAuthMiddleware)
	catalog.GET("/listings", handler.ListListings)
	catalog.GET("/listings/popular", handler.PopularListings)
	catalog.GET("/listings/:id", handler.GetListing)
	catalog.GET("/listings/:id/reviews", handler.ListReviews)
	catalog.GET("/search/popular", handler.PopularSearches)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)
	api.GET("/me", handler.CurrentUser)

	// Listing management - landlords publish, owners update and delete
	api.POST("/listings", handler.CreateListing, middleware.RequireRole(model.RoleLandlord))
	api.PUT("/listings/:id", handler.UpdateListing, middleware.RequireRole(model.RoleLandlord))
	api.DELETE("/listings/:id", handler.DeleteListing, middleware.RequireRole(model.RoleLandlord))

	// Booking lifecycle
	api.GET("/bookings", handler.ListBookings)
	api.POST("/bookings", handler.CreateBooking, middleware.RequireRole(model.RoleTenant))
	api.GET("/bookings/:id", handler.GetBooking)
	api.PATCH("/bookings/:id/:action", handler.BookingAction)

	// Reviews
	api.POST("/listings/:id/reviews", handler.CreateReview, middleware.RequireRole(model.RoleTenant))

	// Get server port from configuration
	port := cfg.Server.Port

	// Start server
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
