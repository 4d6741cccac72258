package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hnrq/veloren-translate/status"
)

// RegisterStatusRoutes registers the status endpoint polled by the terminal
// dashboard.
func RegisterStatusRoutes(r *gin.Engine, mgr *status.Manager) {
	r.GET("/api/status", handleStatus(mgr))
}

func handleStatus(mgr *status.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, mgr.Snapshot())
	}
}
