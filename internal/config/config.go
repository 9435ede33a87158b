package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendGemini = "gemini"
	BackendGenAI  = "genai"
	BackendVertex = "vertex"

	FetcherNone      = "none"
	FetcherFirecrawl = "firecrawl"
	FetcherChromedp  = "chromedp"
)

type Config struct {
	Provider ProviderConfig `yaml:"provider"`
	Server   ServerConfig   `yaml:"server"`
	Fetcher  FetcherConfig  `yaml:"fetcher"`
	Prompt   PromptConfig   `yaml:"prompt"`
	Log      LogConfig      `yaml:"log"`
}

type ProviderConfig struct {
	// Backend selects the SDK: gemini (generative-ai-go), genai (unified SDK
	// against the Gemini API) or vertex (unified SDK against Vertex AI).
	Backend     string  `yaml:"backend"`
	APIKey      string  `yaml:"api_key,omitempty"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	BaseURL     string  `yaml:"base_url,omitempty"`
	Project     string  `yaml:"project,omitempty"`
	Location    string  `yaml:"location,omitempty"`
}

type ServerConfig struct {
	Port           string `yaml:"port"`
	MaxInflight    int64  `yaml:"max_inflight"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	// PublicURL is advertised in the agent card; empty keeps the card's default.
	PublicURL      string `yaml:"public_url,omitempty"`
}

type FetcherConfig struct {
	Kind            string        `yaml:"kind"`
	FirecrawlAPIKey string        `yaml:"firecrawl_api_key,omitempty"`
	FirecrawlURL    string        `yaml:"firecrawl_url"`
	ChromeBin       string        `yaml:"chrome_bin,omitempty"`
	Timeout         time.Duration `yaml:"timeout"`
	MaxChars        int           `yaml:"max_chars"`
}

type PromptConfig struct {
	// Locale is "en" or "zh".
	Locale string `yaml:"locale"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Backend:     BackendGemini,
			Model:       "gemini-2.5-flash",
			Temperature: 0.7,
			Location:    "us-central1",
		},
		Server: ServerConfig{
			Port:           "8080",
			MaxInflight:    1,
			MaxUploadBytes: 10 << 20,
		},
		Fetcher: FetcherConfig{
			Kind:         FetcherNone,
			FirecrawlURL: "https://api.firecrawl.dev",
			Timeout:      45 * time.Second,
			MaxChars:     6000,
		},
		Prompt: PromptConfig{Locale: "en"},
		Log:    LogConfig{Level: "info"},
	}
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "listing-expert"), nil
}

// ConfigPath resolves the config file location: LISTING_EXPERT_CONFIG wins
// over the default under the user's config directory.
func ConfigPath() (string, error) {
	if p := os.Getenv("LISTING_EXPERT_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load builds the configuration from defaults, the YAML file at path (or
// ConfigPath when path is empty), a .env file and finally the environment.
// A missing file is not an error, and neither is a missing API key: that is
// reported when the first analysis runs.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		var err error
		if path, err = ConfigPath(); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	// .env never overrides variables already set in the process.
	_ = godotenv.Load()

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	// Precedence for the key: GEMINI_API_KEY > API_KEY > GOOGLE_API_KEY.
	for _, key := range []string{"GOOGLE_API_KEY", "API_KEY", "GEMINI_API_KEY"} {
		if v := os.Getenv(key); v != "" {
			c.Provider.APIKey = v
		}
	}

	c.Provider.Backend = getEnv("LISTING_BACKEND", c.Provider.Backend)
	c.Provider.Model = getEnv("LISTING_MODEL", c.Provider.Model)
	c.Provider.Project = getEnv("GOOGLE_CLOUD_PROJECT", c.Provider.Project)
	c.Provider.Location = getEnv("GOOGLE_CLOUD_LOCATION", c.Provider.Location)

	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.MaxInflight = int64(getEnvInt("MAX_INFLIGHT", int(c.Server.MaxInflight)))
	c.Server.PublicURL = getEnv("PUBLIC_URL", c.Server.PublicURL)

	c.Fetcher.Kind = getEnv("LISTING_FETCHER", c.Fetcher.Kind)
	c.Fetcher.FirecrawlAPIKey = getEnv("FIRECRAWL_API_KEY", c.Fetcher.FirecrawlAPIKey)
	c.Fetcher.ChromeBin = getEnv("CHROME_BIN", c.Fetcher.ChromeBin)

	c.Prompt.Locale = getEnv("LISTING_LOCALE", c.Prompt.Locale)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
}

func (c *Config) Save(path string) error {
	if path == "" {
		var err error
		if path, err = ConfigPath(); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
