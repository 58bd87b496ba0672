package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.chefsnap.yaml",               // Project-specific config (highest priority)
	"~/.config/chefsnap/config.yaml", // User config
	"/etc/chefsnap/config.yaml",      // System config (lowest priority)
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	getenv      func(string) string
	warn        func(format string, args ...interface{})
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		getenv:      os.Getenv,
		warn: func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
		},
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.chefsnap.yaml
// 4. ~/.config/chefsnap/config.yaml
// 5. /etc/chefsnap/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if !fileExists(expandedPath) {
				continue
			}
			if err := l.loadFromFile(config, expandedPath); err != nil {
				l.warn("Failed to load config from %s: %v", expandedPath, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML file and merges it with existing config
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var fileConfig fileConfig
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	mergeConfigs(config, &fileConfig)
	return nil
}

// fileConfig mirrors Config with pointer booleans so an explicit false in a
// file can be told apart from an omitted key.
type fileConfig struct {
	Version string        `yaml:"version"`
	Backend BackendConfig `yaml:"backend"`
	Upload  UploadConfig  `yaml:"upload"`
	Capture CaptureConfig `yaml:"capture"`
	Storage StorageConfig `yaml:"storage"`
	Output  struct {
		DefaultFormat string `yaml:"default_format"`
		ColorMode     string `yaml:"color_mode"`
		Verbose       *bool  `yaml:"verbose"`
		Emoji         *bool  `yaml:"emoji"`
	} `yaml:"output"`
	UI struct {
		Theme       string `yaml:"theme"`
		ShowPreview *bool  `yaml:"show_preview"`
		StartDir    string `yaml:"start_dir"`
	} `yaml:"ui"`
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// Backend Config
		"CHEFSNAP_BACKEND_ANALYZE_URL":  func(v string) error { config.Backend.AnalyzeURL = v; return nil },
		"CHEFSNAP_BACKEND_COOKBOOK_URL": func(v string) error { config.Backend.CookbookURL = v; return nil },
		"CHEFSNAP_BACKEND_TIMEOUT":      func(v string) error { return parseDuration(v, &config.Backend.Timeout) },
		"CHEFSNAP_BACKEND_USER_AGENT":   func(v string) error { config.Backend.UserAgent = v; return nil },

		// Upload Config
		"CHEFSNAP_UPLOAD_MAX_SIZE_BYTES": func(v string) error { return parseInt64(v, &config.Upload.MaxSizeBytes) },

		// Capture Config
		"CHEFSNAP_CAPTURE_DIR":      func(v string) error { config.Capture.Dir = v; return nil },
		"CHEFSNAP_CAPTURE_DEBOUNCE": func(v string) error { return parseDuration(v, &config.Capture.Debounce) },

		// Storage Config
		"CHEFSNAP_STORAGE_CACHE_DIR": func(v string) error { config.Storage.CacheDir = v; return nil },

		// Output Config
		"CHEFSNAP_OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"CHEFSNAP_OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"CHEFSNAP_OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },
		"CHEFSNAP_OUTPUT_EMOJI":          func(v string) error { return parseBool(v, &config.Output.Emoji) },

		// UI Config
		"CHEFSNAP_UI_THEME":        func(v string) error { config.UI.Theme = v; return nil },
		"CHEFSNAP_UI_SHOW_PREVIEW": func(v string) error { return parseBool(v, &config.UI.ShowPreview) },
		"CHEFSNAP_UI_START_DIR":    func(v string) error { config.UI.StartDir = v; return nil },
	}

	for envVar, setter := range envMappings {
		if value := l.getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/proc/") || strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// mergeConfigs merges source config into destination config.
// Only values present in source overwrite destination.
func mergeConfigs(dst *Config, src *fileConfig) {
	if src.Version != "" {
		dst.Version = src.Version
	}

	mergeBackendConfig(&dst.Backend, &src.Backend)

	if src.Upload.MaxSizeBytes != 0 {
		dst.Upload.MaxSizeBytes = src.Upload.MaxSizeBytes
	}
	if src.Capture.Dir != "" {
		dst.Capture.Dir = src.Capture.Dir
	}
	if src.Capture.Debounce != 0 {
		dst.Capture.Debounce = src.Capture.Debounce
	}
	if src.Storage.CacheDir != "" {
		dst.Storage.CacheDir = src.Storage.CacheDir
	}

	if src.Output.DefaultFormat != "" {
		dst.Output.DefaultFormat = src.Output.DefaultFormat
	}
	if src.Output.ColorMode != "" {
		dst.Output.ColorMode = src.Output.ColorMode
	}
	mergeIfSet(&dst.Output.Verbose, src.Output.Verbose)
	mergeIfSet(&dst.Output.Emoji, src.Output.Emoji)

	if src.UI.Theme != "" {
		dst.UI.Theme = src.UI.Theme
	}
	if src.UI.StartDir != "" {
		dst.UI.StartDir = src.UI.StartDir
	}
	mergeIfSet(&dst.UI.ShowPreview, src.UI.ShowPreview)
}

func mergeBackendConfig(dst, src *BackendConfig) {
	if src.AnalyzeURL != "" {
		dst.AnalyzeURL = src.AnalyzeURL
	}
	if src.CookbookURL != "" {
		dst.CookbookURL = src.CookbookURL
	}
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
	if src.UserAgent != "" {
		dst.UserAgent = src.UserAgent
	}
}

func mergeIfSet(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// Type conversion helpers

func parseInt64(s string, dst *int64) error {
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
