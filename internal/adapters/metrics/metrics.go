// Package metrics exposes pipeline counters and timings in the Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/chip/internal/core/domain"
	"go.trai.ch/chip/internal/core/ports"
)

const namespace = "chip"

var _ ports.Metrics = (*Collector)(nil)

// Collector implements ports.Metrics on a private registry, so tests and multiple
// instances never collide on the global one.
type Collector struct {
	registry *prometheus.Registry

	files            *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	artifactsDeleted prometheus.Counter
	registryReloads  prometheus.Counter
	reposAdded       prometheus.Counter
}

// New creates a Collector with all metrics registered.
func New() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	c := &Collector{
		registry: registry,
		files: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Source files handled, by outcome and stale reason.",
		}, []string{"outcome", "reason"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "file_duration_seconds",
			Help:      "Time spent handling one source file.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"outcome"}),
		artifactsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_deleted_total",
			Help:      "Artifacts removed because their source disappeared.",
		}),
		registryReloads: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_reloads_total",
			Help:      "Reloads of the active project list that activated new projects.",
		}),
		reposAdded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "repos_added_total",
			Help:      "Projects activated by registry reloads.",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveFile records the outcome of processing one file.
func (c *Collector) ObserveFile(outcome domain.Outcome, reason domain.StaleReason, elapsed time.Duration) {
	label := string(reason)
	if label == "" {
		label = "none"
	}
	c.files.WithLabelValues(outcome.String(), label).Inc()
	c.duration.WithLabelValues(outcome.String()).Observe(elapsed.Seconds())
}

// ArtifactDeleted records the removal of an artifact and its cache entry.
func (c *Collector) ArtifactDeleted() {
	c.artifactsDeleted.Inc()
}

// RegistryReloaded records a registry reload that activated added projects.
func (c *Collector) RegistryReloaded(added int) {
	c.registryReloads.Inc()
	c.reposAdded.Add(float64(added))
}

// Handler returns the HTTP handler exposing the collected metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
