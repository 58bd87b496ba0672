package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/yildizm/ChefSnap/internal/config"
)

func TestConfigInit(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "nested", "chefsnap.yaml")

	out, _, err := executeCommand(t, "--no-emoji", "config", "init", "--path", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration file created at: "+target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, config.SampleConfig(), string(data))

	_, _, err = executeCommand(t, "config", "init", "--path", target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = executeCommand(t, "config", "init", "--path", target, "--minimal", "--force")
	require.NoError(t, err)
	data, err = os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, config.MinimalSampleConfig(), string(data))
}

func TestConfigShow(t *testing.T) {
	tb := newTestBackend(t)
	cfgPath := writeTestConfig(t, tb)

	out, _, err := executeCommand(t, "--config", cfgPath, "config", "show")
	require.NoError(t, err)

	var fromYAML config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &fromYAML))
	assert.Equal(t, tb.server.URL+"/analyze", fromYAML.Backend.AnalyzeURL)

	out, _, err = executeCommand(t, "--config", cfgPath, "config", "show", "--format", "json")
	require.NoError(t, err)

	var fromJSON map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &fromJSON))
	assert.Contains(t, fromJSON, "backend")

	_, _, err = executeCommand(t, "--config", cfgPath, "config", "show", "--format", "toml")
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tb := newTestBackend(t)
	cfgPath := writeTestConfig(t, tb)

	out, _, err := executeCommand(t, "--no-emoji", "--config", cfgPath, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
	assert.Contains(t, out, "Analyze URL: "+tb.server.URL+"/analyze")
	assert.Contains(t, out, "Max Upload Size: 5.0 MiB")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("backend:\n  analyze_url: not-a-url\n"), 0o600))

	out, _, err = executeCommand(t, "--no-emoji", "--config", bad, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, out, "Configuration validation failed")
}

func TestConfigPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, _, err := executeCommand(t, "--no-emoji", "config", "path")
	require.NoError(t, err)
	for _, path := range config.GetConfigPaths() {
		assert.Contains(t, out, path)
	}
	assert.Contains(t, out, "CHEFSNAP_")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ChefSnap 1.2.3 (abc123) built on 2024-01-01"), out)

	cmd := NewRootCommand("dev", "", "")
	var buf strings.Builder
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "ChefSnap development (local-build) built on local-build")
}

func TestGetOutputFormat(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.DefaultFormat = "markdown"

	cmd := newAnalyzeCommand()
	outputFmt = ""
	assert.Equal(t, "markdown", getOutputFormat(cmd, cfg))

	outputFmt = "json"
	defer func() { outputFmt = "" }()
	assert.Equal(t, "json", getOutputFormat(cmd, cfg))

	require.NoError(t, cmd.Flags().Set("format", "text"))
	assert.Equal(t, "text", getOutputFormat(cmd, cfg))
}
