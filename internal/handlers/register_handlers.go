package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/kazehost/pricing-backend/cmd/docs"
	portssvc "github.com/kazehost/pricing-backend/internal/core/ports/services"
	"github.com/kazehost/pricing-backend/internal/middleware"
	"github.com/kazehost/pricing-backend/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	publicLimiter *limiter.Limiter,
) {
	registerCustomValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupPublicRoutes(r, services, publicLimiter)
	setupAdminRoutes(r, cfg, services)
	setupSwaggerRoutes(r, cfg)
}

// setupPublicRoutes configures the storefront-facing read endpoints. They are
// unauthenticated but rate limited per client IP.
func setupPublicRoutes(r *gin.Engine, services *portssvc.ServiceContainer, publicLimiter *limiter.Limiter) {
	public := r.Group("/api/v1")
	if publicLimiter != nil {
		public.Use(middleware.RateLimit(publicLimiter))
	}

	registerPublicCurrencyRoutes(public, services.Currency)
	registerDisplayPriceRoutes(public, services.Converter)
	registerPublicRateRoutes(public, services.RateProvider)
}

// setupAdminRoutes configures the authenticated management surface.
func setupAdminRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	admin := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerCurrencyRoutes(admin, services.Currency)
	registerPricingRoutes(admin, services.Pricing)
	registerRateAdminRoutes(admin, services.RateProvider)
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
