package config

import "time"

// File represents the structure of the chip.yaml configuration file.
// Every field is optional; zero values select the defaults.
type File struct {
	Root            string              `yaml:"root"`
	Output          string              `yaml:"output"`
	Cache           string              `yaml:"cache"`
	Log             string              `yaml:"log"`
	ActiveRepos     string              `yaml:"activeRepos"`
	ReloadTrigger   string              `yaml:"reloadTrigger"`
	Subdirs         []string            `yaml:"subdirs"`
	ExtraDirs       map[string][]string `yaml:"extraDirs"`
	ExtraFiles      map[string][]string `yaml:"extraFiles"`
	Extensions      []string            `yaml:"extensions"`
	OutputExtension string              `yaml:"outputExtension"`
	Ignore          IgnoreDTO           `yaml:"ignore"`
	Transform       TransformDTO        `yaml:"transform"`
	Watch           WatchDTO            `yaml:"watch"`
}

// IgnoreDTO lists ignore rules added to the built-in ones.
type IgnoreDTO struct {
	Contains []string `yaml:"contains"`
	Suffixes []string `yaml:"suffixes"`
}

// TransformDTO configures the external transform command.
type TransformDTO struct {
	Command []string `yaml:"command"`
}

// WatchDTO configures watch mode.
type WatchDTO struct {
	Debounce    time.Duration `yaml:"debounce"`
	MetricsAddr string        `yaml:"metricsAddr"`
}
