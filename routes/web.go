package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupWebRoutes registers the service index pages.
func SetupWebRoutes(router *gin.Engine) {
	web := router.Group("/")
	{
		web.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message": "EGRUL Registry Loader",
				"version": "1.0.0",
				"docs":    "/docs",
			})
		})

		web.GET("/docs", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"api": "EGRUL Registry Loader API v1",
				"endpoints": map[string]string{
					"start_ingest":     "POST /v1/ingest/jobs",
					"ingest_status":    "GET /v1/ingest/jobs/:jobID",
					"registry_version": "GET /v1/registry/version",
					"registry_stats":   "GET /v1/registry/stats",
					"search_reindex":   "POST /v1/admin/search/reindex",
					"health":           "GET /health",
				},
			})
		})
	}
}
