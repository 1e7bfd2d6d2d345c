package domain

import "time"

// Workspace is the resolved configuration of one multi-project checkout.
type Workspace struct {
	Layout Layout
	Filter Filter

	// ActiveRepos is the absolute path of the newline-delimited active project list.
	ActiveRepos string
	// ReloadTrigger is the workspace-relative slash path whose change reloads the registry.
	ReloadTrigger string

	// TransformCommand is the external transform, run with the source on stdin.
	// An empty command copies sources unchanged.
	TransformCommand []string

	// Debounce coalesces bursts of filesystem events per path in watch mode.
	Debounce time.Duration
	// MetricsAddr is the listen address of the watch-mode metrics endpoint; empty disables it.
	MetricsAddr string
}
