package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr         string        `yaml:"addr"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"server"`

	Datafeed DatafeedConfig `yaml:"datafeed"`

	Analysis struct {
		Window        int    `yaml:"window"`
		DefaultSymbol string `yaml:"default_symbol"`
	} `yaml:"analysis"`

	Logging struct {
		Level string `yaml:"level"`
		JSON  bool   `yaml:"json"`
	} `yaml:"logging"`
}

type DatafeedConfig struct {
	Provider     string        `yaml:"provider"`
	Period       string        `yaml:"period"`
	Interval     string        `yaml:"interval"`
	MissingIndex string        `yaml:"missing_index"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`

	Yahoo struct {
		BaseURL   string `yaml:"base_url"`
		UserAgent string `yaml:"user_agent"`
	} `yaml:"yahoo"`

	Alpaca struct {
		Feed      string `yaml:"feed"`
		APIKey    string `yaml:"-"`
		APISecret string `yaml:"-"`
	} `yaml:"alpaca"`
}

// Default returns the settings the dashboard runs with when no config file
// is found.
func Default() *Config {
	var cfg Config
	cfg.Server.Addr = ":8080"
	cfg.Server.ReadTimeout = 10 * time.Second
	cfg.Server.WriteTimeout = 30 * time.Second

	cfg.Datafeed.Provider = "yahoo"
	cfg.Datafeed.Period = "3mo"
	cfg.Datafeed.Interval = "1d"
	cfg.Datafeed.MissingIndex = "drop"
	cfg.Datafeed.Timeout = 15 * time.Second
	cfg.Datafeed.MaxRetries = 2
	cfg.Datafeed.Yahoo.BaseURL = "https://query1.finance.yahoo.com"
	cfg.Datafeed.Yahoo.UserAgent = "Mozilla/5.0 (compatible; candlescope/1.0)"
	cfg.Datafeed.Alpaca.Feed = "iex"

	cfg.Analysis.Window = 7
	cfg.Analysis.DefaultSymbol = "2330.TW"

	cfg.Logging.Level = "info"
	return &cfg
}

// LoadConfig reads config.yaml from the first location that has one and
// applies environment overrides. A missing file is not an error.
func LoadConfig() (*Config, error) {
	_, filePath, _, ok := runtime.Caller(0)
	var basePath string
	if ok {
		basePath = filepath.Dir(filePath)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	possiblePaths := []string{}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		possiblePaths = append(possiblePaths, env)
	}
	if basePath != "" {
		possiblePaths = append(possiblePaths, filepath.Join(basePath, "config.yaml"))
	}
	possiblePaths = append(possiblePaths,
		filepath.Join(cwd, "Internal", "utils", "config", "config.yaml"),
		filepath.Join(cwd, "config.yaml"),
	)

	for _, path := range possiblePaths {
		cfg, err := LoadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}

	cfg := Default()
	cfg.applyEnv()
	return cfg, nil
}

// LoadFile parses one config file over the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
	if p := os.Getenv("DATAFEED_PROVIDER"); p != "" {
		c.Datafeed.Provider = p
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
	c.Datafeed.Alpaca.APIKey = os.Getenv("ALPACA_API_KEY")
	c.Datafeed.Alpaca.APISecret = os.Getenv("ALPACA_API_SECRET")
}

func (c *Config) Validate() error {
	switch c.Datafeed.Provider {
	case "yahoo", "alpaca":
	default:
		return fmt.Errorf("unknown datafeed provider %q", c.Datafeed.Provider)
	}
	if c.Datafeed.MissingIndex != "drop" {
		return fmt.Errorf("unsupported missing_index policy %q", c.Datafeed.MissingIndex)
	}
	if c.Analysis.Window <= 0 {
		return fmt.Errorf("analysis window must be positive, got %d", c.Analysis.Window)
	}
	if c.Datafeed.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	return nil
}
