// Package api exposes the daemon's HTTP surface: the ingestion trigger,
// manual event injection, status, health and metrics.
package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hnrq/veloren-translate/metrics"
	"github.com/hnrq/veloren-translate/pipeline"
	"github.com/hnrq/veloren-translate/status"
)

// IngestRunner runs one ingestion pass. *pipeline.Ingestor satisfies it.
type IngestRunner interface {
	Run(ctx context.Context) (pipeline.Result, error)
}

// EventStage pairs a hosted event-driven stage with its name for manual
// event injection.
type EventStage struct {
	Name    string
	Handler pipeline.Handler
}

// Deps carries everything the HTTP surface needs.
type Deps struct {
	// Ingest is nil when the ingest stage is not hosted by this instance.
	Ingest  IngestRunner
	Events  []EventStage
	Status  *status.Manager
	Observe pipeline.ObserveFunc
	Log     *logrus.Logger
}

// NewRouter constructs the gin engine with all routes registered.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	RegisterHealthRoutes(r)
	RegisterStatusRoutes(r, deps.Status)
	RegisterIngestRoutes(r, deps)
	RegisterEventRoutes(r, deps)
	r.GET("/metrics", metrics.Handler())

	return r
}
