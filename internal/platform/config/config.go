package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultBaseURL = "http://localhost:8080/api/v1"
	defaultTimeout = 30 * time.Second
)

// fileConfig is the on-disk shape of ~/.preview/config.yaml. All keys are
// optional; unset keys fall back to defaults.
type fileConfig struct {
	BaseURL  string          `yaml:"base_url"`
	Timeout  string          `yaml:"timeout"`
	Features map[string]bool `yaml:"features"`
}

// Config is the resolved client configuration, injected into every
// component at bootstrap. Nothing below this layer reads the environment.
type Config struct {
	BaseURL         string
	Timeout         time.Duration
	DataDir         string
	CredentialsPath string
	DBPath          string
	Features        map[string]bool
}

// FeatureEnabled reports whether a named feature flag is on.
func (c Config) FeatureEnabled(name string) bool {
	return c.Features[name]
}

// Load resolves configuration from, in increasing precedence: defaults,
// ~/.preview/config.yaml, a .env file in the working directory, and
// process environment (PREVIEW_BASE_URL, PREVIEW_TIMEOUT, PREVIEW_DATA_DIR).
// dataDir overrides the default config directory when non-empty.
func Load(dataDir string) (Config, error) {
	// Missing .env is the normal case.
	_ = godotenv.Load()

	if dataDir == "" {
		dataDir = os.Getenv("PREVIEW_DATA_DIR")
	}
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home dir: %w", err)
		}
		dataDir = filepath.Join(home, ".preview")
	}

	cfg := Config{
		BaseURL:         defaultBaseURL,
		Timeout:         defaultTimeout,
		DataDir:         dataDir,
		CredentialsPath: filepath.Join(dataDir, "credentials.json"),
		DBPath:          filepath.Join(dataDir, "preview.db"),
		Features:        map[string]bool{},
	}

	if err := applyFile(&cfg, filepath.Join(dataDir, "config.yaml")); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("PREVIEW_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("PREVIEW_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse PREVIEW_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(payload, &fc); err != nil {
		return fmt.Errorf("decode config file: %w", err)
	}
	if fc.BaseURL != "" {
		cfg.BaseURL = fc.BaseURL
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("parse timeout in config file: %w", err)
		}
		cfg.Timeout = d
	}
	for k, v := range fc.Features {
		cfg.Features[k] = v
	}
	return nil
}
