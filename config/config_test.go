package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromStringDefaults(t *testing.T) {
	cfg, err := LoadConfigFromString(`
name: cortex-demo
tools:
  web_search:
    base_url: https://search.example.com
`)
	require.NoError(t, err)

	assert.Equal(t, "cortex-demo", cfg.Name)
	assert.Equal(t, "v1", cfg.Version)
	assert.Equal(t, 3, cfg.Engine.MaxParallelWorkers)
	assert.Equal(t, 15*time.Second, cfg.Engine.DefaultToolTimeout)
	assert.Equal(t, 30*time.Second, cfg.Engine.ToolTimeouts["web_search"])
	assert.Equal(t, 60*time.Second, cfg.Engine.ToolTimeouts["url_ingestion"])
	assert.Equal(t, 0.3, cfg.Citation.MinConfidence)
	assert.True(t, cfg.LLMFallbackEnabled())
	assert.Equal(t, "https://search.example.com", cfg.Tools.WebSearch.BaseURL)
	assert.Equal(t, 5, cfg.Tools.WebSearch.MaxResults)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfigFromStringEnvExpansion(t *testing.T) {
	os.Setenv("CORTEX_WEB_SEARCH_URL", "https://override.example.com")
	defer os.Unsetenv("CORTEX_WEB_SEARCH_URL")

	cfg, err := LoadConfigFromString(`
tools:
  web_search:
    base_url: ${CORTEX_WEB_SEARCH_URL}
`)
	require.NoError(t, err)
	assert.Equal(t, "https://override.example.com", cfg.Tools.WebSearch.BaseURL)
}

func TestLoadConfigFromStringInvalidCitationConfidence(t *testing.T) {
	_, err := LoadConfigFromString(`
citation:
  min_confidence: -1
`)
	require.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/cortex.yaml")
	require.Error(t, err)
}

func TestEngineConfigSetDefaultsPreservesOverrides(t *testing.T) {
	c := EngineConfig{ToolTimeouts: map[string]time.Duration{"web_search": 5 * time.Second}}
	c.SetDefaults()

	assert.Equal(t, 5*time.Second, c.ToolTimeouts["web_search"])
	assert.Equal(t, 60*time.Second, c.ToolTimeouts["url_ingestion"])
}
