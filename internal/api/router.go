// Package api hosts the local dev server: an HTTP rendition of the demo
// backend that serves the same wire contract as the production SkillLink API.
// It exists so the live REST client can be exercised end to end without the
// real backend; it is not a production server.
package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/skilllink/skilllink-client/internal/api/handler"
	"github.com/skilllink/skilllink-client/internal/api/middleware"
	"github.com/skilllink/skilllink-client/internal/infrastructure/api/mockapi"
	"github.com/skilllink/skilllink-client/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc *mockapi.Service, jwtSecret string, cfg config.ServerConfig, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("skilllink_devserver"))

	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(svc, svc)
	catalogHandler := handler.NewCatalogHandler(svc)
	messageHandler := handler.NewMessageHandler(svc)
	uploadHandler := handler.NewUploadHandler(svc)

	requireAuth := middleware.Auth(jwtSecret)
	authLimit := middleware.RateLimit(cfg.AuthRatePerSec, cfg.AuthRateBurst)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/login/", authHandler.Login, authLimit)
	auth.POST("/register/", authHandler.Register, authLimit)
	auth.POST("/refresh/", authHandler.Refresh, authLimit)
	auth.POST("/logout/", authHandler.Logout, requireAuth)
	auth.GET("/user/", authHandler.CurrentUser, requireAuth)
	auth.PATCH("/user/", authHandler.UpdateProfile, requireAuth)

	// --- Authenticated API routes ---
	g := e.Group("", requireAuth)
	g.GET("/workers/", catalogHandler.ListWorkers)
	g.GET("/workers/:id/", catalogHandler.GetWorker)
	g.GET("/jobs/", catalogHandler.ListJobs)
	g.GET("/jobs/:id/", catalogHandler.GetJob)
	g.POST("/jobs/", catalogHandler.CreateJob)
	g.DELETE("/jobs/:id/", catalogHandler.DeleteJob)
	g.GET("/applications/", catalogHandler.ListApplications)
	g.POST("/applications/", catalogHandler.CreateApplication)
	g.GET("/messages/", messageHandler.List)
	g.POST("/messages/", messageHandler.Send)
	g.GET("/categories/", catalogHandler.ListCategories)
	g.GET("/locations/", catalogHandler.ListLocations)
	g.POST("/upload/", uploadHandler.Upload)

	return e
}
