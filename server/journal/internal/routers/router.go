// Package routers wires the HTTP API of the outage journal.
package routers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ienikesergey/Outage-Dispatch-System/server/journal/internal/config"
	"github.com/ienikesergey/Outage-Dispatch-System/server/journal/internal/service"
)

// Setup builds the Gin engine with CORS and every API route mounted under
// /api. Login is the only unauthenticated route.
func Setup(db *gorm.DB, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	configureCORS(r, cfg)

	auth := service.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTLHours, logger)
	authHandler := NewAuthHandler(auth)
	eventHandler := NewEventHandler(db, logger)
	referenceHandler := NewReferenceHandler(db, logger)
	analyticsHandler := NewAnalyticsHandler(db, logger)
	reportHandler := NewReportHandler(db, logger)

	api := r.Group("/api")
	authHandler.RegisterPublicRoutes(api)

	protected := api.Group("", AuthMiddleware(auth))
	authHandler.RegisterRoutes(protected)
	eventHandler.RegisterRoutes(protected)
	referenceHandler.RegisterRoutes(protected)
	analyticsHandler.RegisterRoutes(protected)
	reportHandler.RegisterRoutes(protected)

	return r
}

func configureCORS(r *gin.Engine, cfg *config.Config) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", HeaderContentDisposition},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
