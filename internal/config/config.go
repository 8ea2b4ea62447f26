package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/procyclingstats/internal/logger"
	"github.com/pfrederiksen/procyclingstats/internal/scraper"
)

// Config holds runtime settings for the pcs command
type Config struct {
	UserAgent string        `yaml:"userAgent"`
	Timeout   time.Duration `yaml:"timeout"`
	LogLevel  string        `yaml:"logLevel"`
	DataDir   string        `yaml:"dataDir"`
	Workers   int           `yaml:"workers"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		UserAgent: scraper.UserAgent,
		Timeout:   scraper.Timeout,
		LogLevel:  "info",
		DataDir:   defaultDataDir(),
		Workers:   4,
	}
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".pcs")
	}
	return ".pcs"
}

// EnvFile is read by Load when present
const EnvFile = ".env"

// Load builds the configuration. path may be empty to skip the YAML file.
func Load(path string) (Config, error) {
	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading %s: %w", EnvFile, err)
	}

	cfg := Default()
	if path != "" {
		fileCfg, err := readFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := mergo.Merge(&cfg, fileCfg, mergo.WithOverride); err != nil {
			return Config{}, fmt.Errorf("merging %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string) (Config, error) {
	var fileCfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return fileCfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fileCfg, fmt.Errorf("parse yaml %s: %w", path, err)
	}
	return fileCfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PCS_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("PCS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PCS_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("PCS_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PCS_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	if v := os.Getenv("PCS_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PCS_WORKERS: %w", err)
		}
		cfg.Workers = n
	}
	return nil
}

// Validate checks value ranges
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
