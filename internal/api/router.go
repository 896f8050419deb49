package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/program-catalog-api/internal/config"
	"github.com/program-catalog-api/internal/service"
	"github.com/program-catalog-api/internal/validation"
	"github.com/rs/zerolog"
)

const (
	serviceName   = "program-catalog-api"
	healthTimeout = 2 * time.Second
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	validator := validation.NewValidator(cfg.Pagination, cfg.Content.DefaultLanguage)

	// Handlers
	cmsHandler := NewCMSHandler(services, validator, log)
	discoveryHandler := NewDiscoveryHandler(services, validator, log)

	// Health check
	healthCheck := healthHandler(services, log)
	router.GET("/health", healthCheck)
	router.GET("/metrics", metricsHandler(services))

	// Administrative path
	admin := router.Group("/admin/programs")
	{
		admin.GET("/health", healthCheck)
		admin.POST("/integrations/search", cmsHandler.SearchExternal)
		admin.POST("/import", cmsHandler.ImportProgram)
		admin.GET("", cmsHandler.ListDrafts)
		admin.GET("/:id", cmsHandler.GetProgram)
		admin.PATCH("/:id", cmsHandler.UpdateProgram)
		admin.PUT("/:id/publish", cmsHandler.PublishProgram)
		admin.DELETE("/:id", cmsHandler.ArchiveProgram)
	}

	// Public read path
	public := router.Group("/programs")
	{
		public.GET("/health", healthCheck)
		public.GET("/search", discoveryHandler.Search)
		public.GET("/feed", discoveryHandler.HomeFeed)
		public.GET("/filters", discoveryHandler.Filters)
		public.GET("/:id/related", discoveryHandler.Related)
		public.GET("/:id", discoveryHandler.GetProgram)
	}

	return router
}

// healthHandler returns the health status. The service is unhealthy when
// the database does not answer a ping within healthTimeout.
func healthHandler(services *service.Services, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		code, status := http.StatusOK, "healthy"
		if services.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			defer cancel()
			if err := services.Health.HealthCheck(ctx); err != nil {
				log.Error().Err(err).Msg("Database health check failed")
				code, status = http.StatusServiceUnavailable, "unhealthy"
			}
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   serviceName,
		})
	}
}

// metricsHandler returns ephemeral cache and provider metrics
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := services.Cache.Stats()

		c.JSON(http.StatusOK, gin.H{
			"cache": gin.H{
				"size":                stats.Size,
				"capacity":            stats.Capacity,
				"default_ttl_seconds": int(stats.DefaultTTL.Seconds()),
			},
			"providers": services.Gateway.Providers(),
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
