package routes

import (
	"net/http"
	"time"

	"github.com/egrul-parser/app/controllers"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupAPIRoutes registers the versioned API.
func SetupAPIRoutes(router *gin.Engine, ingestController *controllers.IngestController, adminController *controllers.AdminController) {
	v1 := router.Group("/v1")
	{
		ingest := v1.Group("/ingest")
		{
			ingest.POST("/jobs", ingestController.StartJob)
			ingest.GET("/jobs/:jobID", ingestController.GetJobStatus)
		}

		registry := v1.Group("/registry")
		{
			registry.GET("/version", adminController.GetVersion)
			registry.GET("/stats", adminController.GetStats)
		}

		admin := v1.Group("/admin")
		{
			admin.POST("/search/reindex", adminController.Reindex)
		}

		v1.GET("/health", adminController.Health)
	}
}

// SetupHealthRoutes registers the liveness and readiness endpoints.
func SetupHealthRoutes(router *gin.Engine, adminController *controllers.AdminController) {
	router.GET("/health", adminController.Health)
	router.GET("/ready", adminController.Ready)
	router.GET("/live", adminController.Live)
}

// SetupAllRoutes installs middleware and every route group.
func SetupAllRoutes(router *gin.Engine, ingestController *controllers.IngestController, adminController *controllers.AdminController, logger *zap.Logger) {
	setupMiddleware(router, logger)

	SetupWebRoutes(router)
	SetupHealthRoutes(router, adminController)
	SetupAPIRoutes(router, ingestController, adminController)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":  "Route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})
}

func setupMiddleware(router *gin.Engine, logger *zap.Logger) {
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
}

// requestLogger logs one line per request through zap.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			logger.Warn("Request completed with errors", append(fields, zap.String("errors", c.Errors.String()))...)
			return
		}
		logger.Info("Request completed", fields...)
	}
}
