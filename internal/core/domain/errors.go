package domain

import "go.trai.ch/zerr"

var (
	// ErrConfigReadFailed is returned when the workspace config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the workspace config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when the workspace config contains unusable values.
	ErrInvalidConfig = zerr.New("invalid workspace configuration")

	// ErrFailedToGetRoot is returned when the workspace root cannot be made absolute.
	ErrFailedToGetRoot = zerr.New("failed to get absolute path of workspace root")

	// ErrActiveReposNotFound is returned when the active-repos list does not exist.
	ErrActiveReposNotFound = zerr.New("active repos list not found")

	// ErrActiveReposReadFailed is returned when the active-repos list cannot be read.
	ErrActiveReposReadFailed = zerr.New("failed to read active repos list")

	// ErrRegistryNotLoaded is returned when the registry is reloaded before it was loaded.
	ErrRegistryNotLoaded = zerr.New("repo registry has not been loaded")

	// ErrStoreNotOpen is returned when the cache store is used before Open.
	ErrStoreNotOpen = zerr.New("cache store is not open")

	// ErrStoreCreateFailed is returned when the cache document directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create cache store directory")

	// ErrStoreReadFailed is returned when the cache document cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read cache store")

	// ErrStoreUnmarshalFailed is returned when the cache document is not valid JSON.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal cache store")

	// ErrStoreMarshalFailed is returned when the cache document cannot be encoded.
	ErrStoreMarshalFailed = zerr.New("failed to marshal cache store")

	// ErrStoreWriteFailed is returned when the cache document cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write cache store")

	// ErrSourceReadFailed is returned when a source file cannot be read.
	ErrSourceReadFailed = zerr.New("failed to read source file")

	// ErrTransformFailed is returned when the transform collaborator rejects a file.
	ErrTransformFailed = zerr.New("transform failed")

	// ErrOutputCreateFailed is returned when the artifact directory cannot be created.
	ErrOutputCreateFailed = zerr.New("failed to create output directory")

	// ErrOutputWriteFailed is returned when an artifact cannot be written.
	ErrOutputWriteFailed = zerr.New("failed to write output file")

	// ErrOutputStatFailed is returned when an artifact cannot be stat'ed.
	ErrOutputStatFailed = zerr.New("failed to stat output file")

	// ErrOutputDeleteFailed is returned when an artifact cannot be removed.
	ErrOutputDeleteFailed = zerr.New("failed to delete output file")

	// ErrTargetCollision is returned when two sources would produce the same artifact.
	ErrTargetCollision = zerr.New("another source maps to the same output file")

	// ErrPathOutsideRoot is returned when a path does not lie under the workspace root.
	ErrPathOutsideRoot = zerr.New("path is outside workspace root")

	// ErrInvalidPath is returned when a workspace-relative path cannot be decomposed.
	ErrInvalidPath = zerr.New("invalid workspace path")

	// ErrBuildFailed is returned when at least one file failed during a build.
	ErrBuildFailed = zerr.New("build failed")

	// ErrWatcherStartFailed is returned when the filesystem watcher cannot be started.
	ErrWatcherStartFailed = zerr.New("failed to start file watcher")

	// ErrMetricsServerFailed is returned when the metrics endpoint stops unexpectedly.
	ErrMetricsServerFailed = zerr.New("metrics server failed")

	// ErrBuildLogOpenFailed is returned when the build log cannot be created.
	ErrBuildLogOpenFailed = zerr.New("failed to open build log")

	// ErrBuildLogWriteFailed is returned when a transcript cannot be written to the build log.
	ErrBuildLogWriteFailed = zerr.New("failed to write build log")

	// ErrCleanFailed is returned when removing build outputs fails.
	ErrCleanFailed = zerr.New("failed to clean build outputs")
)
