package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledgerify/cmd/docs"
	"github.com/SscSPs/ledgerify/internal/core/domain"
	portssvc "github.com/SscSPs/ledgerify/internal/core/ports/services"
	"github.com/SscSPs/ledgerify/internal/middleware"
	"github.com/SscSPs/ledgerify/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	if err := registerValidators(); err != nil {
		slog.Error("Failed to register binding validators", slog.String("error", err.Error()))
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	// Public authentication routes
	registerAuthRoutes(r, services.Auth)

	setupAPIV1Routes(r, cfg, services)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerUserRoutes(v1, service.User)
	registerAccountRoutes(v1, service.Account)
	registerEntryRoutes(v1, "/journal-entries", domain.KindOrdinary, service.Entry)
	registerEntryRoutes(v1, "/adjusting-entries", domain.KindAdjusting, service.Entry)
	registerReportingRoutes(v1, service.Reporting)
	registerEventLogRoutes(v1, service.EventLog)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	// Paths are documented in full; an empty host resolves against the serving one.
	docs.SwaggerInfo.Host = ""
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
