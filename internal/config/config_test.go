package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GEMINI_API_KEY", "API_KEY", "GOOGLE_API_KEY", "LISTING_BACKEND", "LISTING_MODEL",
		"GOOGLE_CLOUD_PROJECT", "GOOGLE_CLOUD_LOCATION", "PORT", "MAX_INFLIGHT",
		"LISTING_FETCHER", "FIRECRAWL_API_KEY", "CHROME_BIN", "LISTING_LOCALE", "LOG_LEVEL",
		"PUBLIC_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.Empty(t, cfg.Provider.APIKey, "missing key must not fail loading")
}

func TestLoadYAMLThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider:
  backend: vertex
  model: gemini-2.5-pro
  project: acme
server:
  port: "9090"
fetcher:
  kind: firecrawl
  timeout: 10s
prompt:
  locale: zh
`), 0600))

	t.Setenv("LISTING_MODEL", "gemini-2.5-flash-lite")
	t.Setenv("FIRECRAWL_API_KEY", "fc-key")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendVertex, cfg.Provider.Backend)
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.Provider.Model)
	assert.Equal(t, "acme", cfg.Provider.Project)
	assert.Equal(t, "us-central1", cfg.Provider.Location)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, int64(1), cfg.Server.MaxInflight)
	assert.Equal(t, FetcherFirecrawl, cfg.Fetcher.Kind)
	assert.Equal(t, "fc-key", cfg.Fetcher.FirecrawlAPIKey)
	assert.Equal(t, 10*time.Second, cfg.Fetcher.Timeout)
	assert.Equal(t, "zh", cfg.Prompt.Locale)
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: [unclosed"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides_APIKeyPrecedence(t *testing.T) {
	t.Run("GOOGLE_API_KEY alone", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GOOGLE_API_KEY", "google")
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "google", cfg.Provider.APIKey)
	})

	t.Run("API_KEY beats GOOGLE_API_KEY", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GOOGLE_API_KEY", "google")
		t.Setenv("API_KEY", "generic")
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "generic", cfg.Provider.APIKey)
	})

	t.Run("GEMINI_API_KEY wins", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GOOGLE_API_KEY", "google")
		t.Setenv("API_KEY", "generic")
		t.Setenv("GEMINI_API_KEY", "gemini")
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "gemini", cfg.Provider.APIKey)
	})

	t.Run("file key kept when env empty", func(t *testing.T) {
		clearEnv(t)
		cfg := DefaultConfig()
		cfg.Provider.APIKey = "from-file"
		cfg.applyEnvOverrides()
		assert.Equal(t, "from-file", cfg.Provider.APIKey)
	})
}

func TestEnvOverrides_InvalidIntFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_INFLIGHT", "many")
	cfg := DefaultConfig()
	cfg.applyEnvOverrides()
	assert.Equal(t, int64(1), cfg.Server.MaxInflight)
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Provider.Backend = BackendGenAI
	cfg.Fetcher.Kind = FetcherChromedp
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
