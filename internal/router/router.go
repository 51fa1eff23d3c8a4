package router

import (
	"github.com/Parthajit/Timer-Tools/internal/analytics"
	"github.com/Parthajit/Timer-Tools/internal/config"
	"github.com/Parthajit/Timer-Tools/internal/handler"
	"github.com/Parthajit/Timer-Tools/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SetupRouter wires the Gin engine. Session recording and the dashboard
// work for anonymous visitors too, so those routes use optional auth.
func SetupRouter(cfg *config.Config, db *gorm.DB, rec *analytics.Recorder, agg *analytics.Aggregator, log *logrus.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(log), gin.Recovery())

	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret
	authHandler := handler.NewAuthHandler(db, jwtSecret, cfg.JWT.ExpireHours)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// identity required
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtSecret, db))
	protected.GET("/me", handler.GetMe)

	// identity optional: anonymous callers fall back to the local cache
	open := api.Group("")
	open.Use(middleware.OptionalAuthMiddleware(jwtSecret, db))

	sessionHandler := handler.NewSessionHandler(rec, agg)
	open.POST("/sessions", sessionHandler.RecordSession)
	open.GET("/sessions", sessionHandler.ListSessions)

	dashboardHandler := handler.NewDashboardHandler(agg)
	open.GET("/dashboard", dashboardHandler.GetDashboard)

	exportHandler := handler.NewExportHandler(agg, cfg.App.ExportPrefix)
	open.GET("/export/csv", exportHandler.ExportCSV)
	open.GET("/export/xlsx", exportHandler.ExportXLSX)

	return r
}
