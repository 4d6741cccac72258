// Package metrics exposes the pipeline's Prometheus collectors.
package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the stage-level collectors.
type Metrics struct {
	stageRuns     *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

// New registers the pipeline collectors on the default registry.
func New() *Metrics {
	m := &Metrics{
		stageRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pipeline_stage_runs_total",
			Help: "Stage invocations by outcome.",
		}, []string{"stage", "outcome"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pipeline_stage_duration_seconds",
			Help:    "Stage invocation duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
	}
	prometheus.MustRegister(m.stageRuns, m.stageDuration)
	return m
}

// ObserveStage records one finished stage invocation.
func (m *Metrics) ObserveStage(stage, outcome string, elapsed time.Duration) {
	m.stageRuns.WithLabelValues(stage, outcome).Inc()
	m.stageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

// Handler serves the default registry through gin.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
