package ports

import (
	"net/http"
	"time"

	"go.trai.ch/chip/internal/core/domain"
)

// Metrics records counters and timings of the transpile pipeline.
//
//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// ObserveFile records the outcome of processing one file.
	ObserveFile(outcome domain.Outcome, reason domain.StaleReason, elapsed time.Duration)
	// ArtifactDeleted records the removal of an artifact and its cache entry.
	ArtifactDeleted()
	// RegistryReloaded records a registry reload that activated added projects.
	RegistryReloaded(added int)
	// Handler returns the HTTP handler exposing the collected metrics.
	Handler() http.Handler
}
