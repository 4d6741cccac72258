package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hnrq/veloren-translate/pipeline"
)

// EventRequest is a manually injected storage event, for replaying an object
// through the pipeline without a bucket notification.
type EventRequest struct {
	Bucket      string `json:"bucket" binding:"required"`
	Name        string `json:"name" binding:"required"`
	ContentType string `json:"contentType"`
}

// StageOutcome reports one stage's reaction to an injected event.
type StageOutcome struct {
	Stage   string `json:"stage"`
	Outcome string `json:"outcome"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RegisterEventRoutes registers manual event injection.
func RegisterEventRoutes(r *gin.Engine, deps Deps) {
	g := r.Group("/api")
	g.POST("/events", handleEvent(deps))
}

// handleEvent replays one storage event through every hosted event stage,
// mirroring what the notification consumers do. Any stage failure turns the
// response into a 500; skips do not.
func handleEvent(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req EventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(deps.Events) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "no event stages are enabled on this instance"})
			return
		}

		ev := pipeline.ObjectEvent{Bucket: req.Bucket, Key: req.Name, ContentType: req.ContentType}
		outcomes := make([]StageOutcome, 0, len(deps.Events))
		failed := false
		for _, stage := range deps.Events {
			start := time.Now()
			res, err := stage.Handler.Handle(c.Request.Context(), ev)
			if deps.Observe != nil {
				deps.Observe(stage.Name, res, err, time.Since(start))
			}

			out := StageOutcome{Stage: stage.Name, Outcome: string(res.Outcome), Message: res.Message}
			if err != nil {
				failed = true
				out.Outcome = "failed"
				out.Error = err.Error()
				deps.Log.WithError(err).WithField("stage", stage.Name).Error("injected event failed")
			}
			outcomes = append(outcomes, out)
		}

		code := http.StatusOK
		if failed {
			code = http.StatusInternalServerError
		}
		c.JSON(code, gin.H{"stages": outcomes})
	}
}
