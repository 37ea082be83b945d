package handlers

import (
	"github.com/gin-gonic/gin"
	limiter "github.com/ulule/limiter/v3"

	"github.com/streetcauseviit/donation_poster_app/cmd/docs"
	portssvc "github.com/streetcauseviit/donation_poster_app/internal/core/ports/services"
	"github.com/streetcauseviit/donation_poster_app/internal/middleware"
	"github.com/streetcauseviit/donation_poster_app/internal/platform/config"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using
// interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	submitLimiter *limiter.Limiter,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services, submitLimiter)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group: the rate-limited public
// submission surface and the token-guarded moderation surface.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	submitLimiter *limiter.Limiter,
) {
	v1 := r.Group("/api/v1")

	public := v1.Group("", middleware.RateLimit(submitLimiter))
	registerDonationRoutes(public, services.Donation, services.Blob)

	admin := v1.Group("/admin", middleware.AdminAuthMiddleware(cfg.AdminAPIToken))
	registerAdminRoutes(admin, services.Donation)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
