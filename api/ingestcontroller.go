package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hnrq/veloren-translate/pipeline"
)

// RegisterIngestRoutes registers the ingestion trigger.
func RegisterIngestRoutes(r *gin.Engine, deps Deps) {
	g := r.Group("/api")
	g.POST("/ingest", handleIngest(deps))
}

// handleIngest runs one ingestion pass synchronously. A fatal pass surfaces
// as a 500 so the external scheduler retries it.
func handleIngest(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Ingest == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "ingest stage is not enabled on this instance"})
			return
		}

		start := time.Now()
		res, err := deps.Ingest.Run(c.Request.Context())
		if deps.Observe != nil {
			deps.Observe(pipeline.StageIngest, res, err, time.Since(start))
		}
		if err != nil {
			deps.Log.WithError(err).Error("ingestion pass failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
