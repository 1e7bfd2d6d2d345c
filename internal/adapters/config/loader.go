// Package config provides the configuration loader for chip.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/chip/internal/core/domain"
	"go.trai.ch/chip/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the configuration file at path and resolves it into a workspace.
// Relative paths in the file are resolved against the directory containing it.
// A missing file yields the defaults, resolved against the directory path would live in.
func (l *Loader) Load(configPath string) (*domain.Workspace, error) {
	if configPath == "" {
		configPath = domain.ConfigFileName
	}
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFailedToGetRoot.Error()), "path", configPath)
	}

	var file File
	found, err := readAndUnmarshalYAML(absPath, &file)
	if err != nil {
		return nil, zerr.With(err, "path", absPath)
	}
	if !found && l.Logger != nil {
		l.Logger.Info("no " + filepath.Base(absPath) + " found, using defaults")
	}

	return resolve(filepath.Dir(absPath), &file)
}

func resolve(configDir string, file *File) (*domain.Workspace, error) {
	root := resolveRoot(configDir, file.Root)

	outputDir, err := relativeSetting("output", file.Output, domain.DefaultOutputDir)
	if err != nil {
		return nil, err
	}
	cacheFile, err := relativeSetting("cache", file.Cache, domain.DefaultCacheFile)
	if err != nil {
		return nil, err
	}
	logFile, err := relativeSetting("log", file.Log, domain.DefaultLogFile)
	if err != nil {
		return nil, err
	}
	activeRepos, err := relativeSetting("activeRepos", file.ActiveRepos, domain.DefaultActiveReposFile)
	if err != nil {
		return nil, err
	}
	reloadTrigger, err := relativeSetting("reloadTrigger", file.ReloadTrigger, activeRepos)
	if err != nil {
		return nil, err
	}

	extensions, err := normalizeExtensions(orDefault(file.Extensions, domain.DefaultExtensions()))
	if err != nil {
		return nil, err
	}
	outputExtension := file.OutputExtension
	if outputExtension == "" {
		outputExtension = domain.DefaultOutputExtension
	}
	if !strings.HasPrefix(outputExtension, ".") {
		return nil, zerr.With(domain.ErrInvalidConfig, "outputExtension", outputExtension)
	}

	if file.Watch.Debounce < 0 {
		return nil, zerr.With(domain.ErrInvalidConfig, "watch.debounce", file.Watch.Debounce.String())
	}
	debounce := file.Watch.Debounce
	if debounce == 0 {
		debounce = domain.DefaultDebounce
	}

	return &domain.Workspace{
		Layout: domain.Layout{
			Root:            root,
			OutputDir:       outputDir,
			CacheFile:       cacheFile,
			LogFile:         logFile,
			OutputExtension: outputExtension,
			Extensions:      extensions,
		},
		Filter: domain.Filter{
			IgnoreContains: ignoreContains(outputDir, []string{cacheFile, logFile}, file.Ignore.Contains),
			IgnoreSuffixes: slices.Concat(domain.DefaultIgnoreSuffixes(), file.Ignore.Suffixes),
			Extensions:     extensions,
			Subdirs:        orDefault(file.Subdirs, domain.DefaultSubdirs()),
			ExtraDirs:      orDefaultMap(file.ExtraDirs, domain.DefaultExtraDirs()),
			ExtraFiles:     orDefaultMap(file.ExtraFiles, domain.DefaultExtraFiles()),
		},
		ActiveRepos:      filepath.Join(root, filepath.FromSlash(activeRepos)),
		ReloadTrigger:    reloadTrigger,
		TransformCommand: file.Transform.Command,
		Debounce:         debounce,
		MetricsAddr:      file.Watch.MetricsAddr,
	}, nil
}

func resolveRoot(configDir, configuredRoot string) string {
	if configuredRoot == "" {
		configuredRoot = domain.DefaultRoot
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}

// relativeSetting validates a workspace-relative path setting and returns it in clean slash form.
func relativeSetting(key, value, fallback string) (string, error) {
	if value == "" {
		value = fallback
	}
	clean := path.Clean(filepath.ToSlash(value))
	if path.IsAbs(clean) || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", zerr.With(domain.ErrInvalidConfig, key, value)
	}
	return clean, nil
}

// ignoreContains combines the built-in rules, the artifact locations, and the configured rules.
func ignoreContains(outputDir string, files, extra []string) []string {
	rules := domain.DefaultIgnoreContains()
	candidates := []string{"/" + outputDir + "/"}
	for _, f := range files {
		candidates = append(candidates, "/"+f)
	}
	for _, rule := range candidates {
		if !slices.Contains(rules, rule) {
			rules = append(rules, rule)
		}
	}
	return append(rules, extra...)
}

func normalizeExtensions(exts []string) ([]string, error) {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		if ext == "" || ext == "." {
			return nil, zerr.With(domain.ErrInvalidConfig, "extension", ext)
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if !slices.Contains(out, ext) {
			out = append(out, ext)
		}
	}
	return out, nil
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}

func orDefaultMap(values, fallback map[string][]string) map[string][]string {
	if values == nil {
		return fallback
	}
	return values
}

// readAndUnmarshalYAML reads a YAML file and strictly unmarshals it into the target struct.
// It reports false without error when the file does not exist.
func readAndUnmarshalYAML[T any](configPath string, target *T) (bool, error) {
	// #nosec G304 -- configPath is provided by the user
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return true, zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}
	return true, nil
}
