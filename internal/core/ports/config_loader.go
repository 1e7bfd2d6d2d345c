package ports

import "go.trai.ch/chip/internal/core/domain"

// ConfigLoader defines the interface for loading the workspace configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration file at path and returns the resolved workspace.
	// A missing file yields the defaults.
	Load(path string) (*domain.Workspace, error)
}
