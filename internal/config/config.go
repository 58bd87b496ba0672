package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version string        `yaml:"version" json:"version"`
	Backend BackendConfig `yaml:"backend" json:"backend"`
	Upload  UploadConfig  `yaml:"upload" json:"upload"`
	Capture CaptureConfig `yaml:"capture" json:"capture"`
	Storage StorageConfig `yaml:"storage" json:"storage"`
	Output  OutputConfig  `yaml:"output" json:"output"`
	UI      UIConfig      `yaml:"ui" json:"ui"`
}

// BackendConfig configures the analysis and cookbook endpoints
type BackendConfig struct {
	AnalyzeURL  string        `yaml:"analyze_url" json:"analyze_url"`
	CookbookURL string        `yaml:"cookbook_url" json:"cookbook_url"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"` // 0 waits for the server indefinitely
	UserAgent   string        `yaml:"user_agent" json:"user_agent"`
}

// UploadConfig configures client-side image validation
type UploadConfig struct {
	MaxSizeBytes int64 `yaml:"max_size_bytes" json:"max_size_bytes"`
}

// CaptureConfig configures the camera inbox directory
type CaptureConfig struct {
	Dir      string        `yaml:"dir" json:"dir"`
	Debounce time.Duration `yaml:"debounce" json:"debounce"`
}

// StorageConfig configures local files written by the client
type StorageConfig struct {
	CacheDir string `yaml:"cache_dir" json:"cache_dir"` // holds chefsnap.log while the TUI runs
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|markdown
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose"`
	Emoji         bool   `yaml:"emoji" json:"emoji"`
}

// UIConfig configures the interactive interface
type UIConfig struct {
	Theme       string `yaml:"theme" json:"theme"` // default|high-contrast|minimal
	ShowPreview bool   `yaml:"show_preview" json:"show_preview"`
	StartDir    string `yaml:"start_dir" json:"start_dir"` // file picker starting directory
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Backend: BackendConfig{
			AnalyzeURL:  "http://127.0.0.1:8000/analyze",
			CookbookURL: "http://localhost:8000/api/my-cookbook",
			Timeout:     0,
			UserAgent:   "chefsnap",
		},
		Upload: UploadConfig{
			MaxSizeBytes: 5 * 1024 * 1024,
		},
		Capture: CaptureConfig{
			Dir:      "~/Pictures/chefsnap",
			Debounce: 500 * time.Millisecond,
		},
		Storage: StorageConfig{
			CacheDir: "~/.cache/chefsnap",
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Verbose:       false,
			Emoji:         true,
		},
		UI: UIConfig{
			Theme:       "default",
			ShowPreview: true,
			StartDir:    ".",
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateBackendConfig(); err != nil {
		return err
	}
	if err := c.validateUploadConfig(); err != nil {
		return err
	}
	if err := c.validateCaptureConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if err := c.validateUIConfig(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateBackendConfig() error {
	endpoints := []struct{ name, raw string }{
		{"analyze_url", c.Backend.AnalyzeURL},
		{"cookbook_url", c.Backend.CookbookURL},
	}
	for _, e := range endpoints {
		name, raw := e.name, e.raw
		if raw == "" {
			return fmt.Errorf("backend.%s is required", name)
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid backend.%s: %s (must be an absolute http or https URL)", name, raw)
		}
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout must be non-negative")
	}
	return nil
}

func (c *Config) validateUploadConfig() error {
	if c.Upload.MaxSizeBytes < 1 {
		return fmt.Errorf("upload.max_size_bytes must be greater than 0")
	}
	return nil
}

func (c *Config) validateCaptureConfig() error {
	if c.Capture.Debounce < 0 {
		return fmt.Errorf("capture.debounce must be non-negative")
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}

func (c *Config) validateUIConfig() error {
	if c.UI.Theme == "" {
		return nil
	}
	switch c.UI.Theme {
	case "default", "high-contrast", "minimal":
		return nil
	default:
		return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.UI.Theme)
	}
}

// ExpandPath expands a leading ~/ to the user's home directory
func ExpandPath(path string) string {
	return expandPath(path)
}
