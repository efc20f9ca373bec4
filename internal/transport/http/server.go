package http

import (
	"path/filepath"

	"github.com/gin-gonic/gin"

	appsvc "markmycampus/internal/app"
	"markmycampus/internal/bootstrap"
	"markmycampus/internal/logging"
	"markmycampus/internal/repository"
	"markmycampus/internal/transport/http/handler"
	"markmycampus/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(logging.RequestLogger(app.Log), gin.Recovery())

	staticDir := app.Config.App.StaticDir
	router.StaticFile("/", filepath.Join(staticDir, "index.html"))
	router.StaticFile("/admin", filepath.Join(staticDir, "admin.html"))
	router.Static("/static", staticDir)

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.DB)
	markerRepo := repository.NewMarkerRepository(app.DB)
	eventRepo := repository.NewMarkerEventRepository(app.DB)

	authService := appsvc.NewAuthService(userRepo, app.Tokens, app.Config.Auth.AdminPassword, app.Log)
	markerService := appsvc.NewMarkerService(markerRepo, app.Publisher, app.Log)
	statsService := appsvc.NewStatsService(markerRepo, eventRepo)

	authHandler := handler.NewAuthHandler(
		authService,
		app.Sessions,
		app.Config.Session,
		app.Tokens.TTL(),
		app.Log,
	)
	markerHandler := handler.NewMarkerHandler(markerService, statsService, app.Log)
	adminHandler := handler.NewAdminHandler(authService, markerService, statsService, app.Log)

	requireUser := middleware.RequireUser(
		app.Tokens,
		middleware.HeaderToken,
		middleware.SessionToken(app.Sessions, app.Config.Session.CookieName),
	)

	api := router.Group("/api")
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/logout", authHandler.Logout)

	userGroup := api.Group("")
	userGroup.Use(requireUser)
	userGroup.POST("/markers", markerHandler.Create)
	userGroup.GET("/markers", markerHandler.List)
	userGroup.GET("/stats", markerHandler.Stats)

	adminGroup := api.Group("/admin")
	adminGroup.POST("/login", adminHandler.Login)

	protected := adminGroup.Group("")
	protected.Use(middleware.RequireAdmin(app.Tokens))
	protected.GET("/markers", adminHandler.ListMarkers)
	protected.DELETE("/markers/:id", adminHandler.DeleteMarker)
	protected.POST("/clear-all-markers", adminHandler.ClearAll)
	protected.GET("/download-stats", adminHandler.DownloadStats)
	protected.GET("/download-report", adminHandler.DownloadReport)
	protected.GET("/activity", adminHandler.Activity)

	return router
}
