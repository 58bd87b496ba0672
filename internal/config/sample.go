package config

// SampleConfig returns a fully commented configuration file
func SampleConfig() string {
	return `# ChefSnap configuration
#
# Search order (highest priority first):
#   ./.chefsnap.yaml
#   ~/.config/chefsnap/config.yaml
#   /etc/chefsnap/config.yaml
# Environment variables prefixed with CHEFSNAP_ override file settings,
# e.g. CHEFSNAP_BACKEND_ANALYZE_URL or CHEFSNAP_UI_THEME.

version: "1.0"

backend:
  # Receives the multipart upload (field "file")
  analyze_url: "http://127.0.0.1:8000/analyze"
  # Returns the saved recipe collection
  cookbook_url: "http://localhost:8000/api/my-cookbook"
  # Whole-request timeout; 0 waits for the server indefinitely
  timeout: 0s
  user_agent: "chefsnap"

upload:
  # Images larger than this are rejected before upload (5 MiB)
  max_size_bytes: 5242880

capture:
  # Photos dropped here are picked up by "chefsnap watch" and the UI inbox
  dir: "~/Pictures/chefsnap"
  # Quiet period after the last write before a file is treated as complete
  debounce: 500ms

storage:
  # chefsnap.log is written here while the interactive UI is running
  cache_dir: "~/.cache/chefsnap"

output:
  # text | json | markdown
  default_format: "text"
  # auto | always | never
  color_mode: "auto"
  verbose: false
  emoji: true

ui:
  # default | high-contrast | minimal
  theme: "default"
  # Render a small thumbnail of the selected image
  show_preview: true
  # Directory the file picker opens in
  start_dir: "."
`
}

// MinimalSampleConfig returns a compact configuration with only the
// settings most users change
func MinimalSampleConfig() string {
	return `version: "1.0"

backend:
  analyze_url: "http://127.0.0.1:8000/analyze"
  cookbook_url: "http://localhost:8000/api/my-cookbook"

ui:
  theme: "default"
`
}
