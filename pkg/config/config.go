package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Finnhub struct {
		APIKey         string        `yaml:"api_key"`
		BaseURL        string        `yaml:"base_url"`
		WebSocketURL   string        `yaml:"websocket_url"`
		QuoteTimeout   time.Duration `yaml:"quote_timeout"`
		SearchTimeout  time.Duration `yaml:"search_timeout"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay"`
		PingInterval   time.Duration `yaml:"ping_interval"`
	} `yaml:"finnhub"`
	Market struct {
		Universe      []string      `yaml:"universe"`
		FetchLimit    int           `yaml:"fetch_limit"`
		SnapshotTTL   time.Duration `yaml:"snapshot_ttl"`
		SearchLimit   int           `yaml:"search_limit"`
		NewsLimit     int           `yaml:"news_limit"`
		StreamEnabled bool          `yaml:"stream_enabled"`
	} `yaml:"market"`
	Watchlist struct {
		PaceInterval time.Duration `yaml:"pace_interval"`
	} `yaml:"watchlist"`
	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`
	Cache struct {
		Backend string `yaml:"backend"`
		Redis   struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

// Load reads a YAML configuration file, applies defaults and validates.
func Load(path string) (*Config, error) {
	c, err := parse(path)
	if err != nil {
		return nil, err
	}
	if err := c.finalize(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment
// variables. Defaults and validation run after the overrides, so a value
// supplied only through the environment still satisfies the required checks.
func LoadWithEnv(path string) (*Config, error) {
	c, err := parse(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		c.Finnhub.APIKey = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Market.Universe = strings.Split(v, ",")
	}
	if v := os.Getenv("STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}

	if err := c.finalize(); err != nil {
		return nil, err
	}
	return c, nil
}

func parse(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &c, nil
}

func (c *Config) finalize() error {
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port <= 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Finnhub.BaseURL == "" {
		c.Finnhub.BaseURL = "https://finnhub.io/api/v1"
	}
	if c.Finnhub.QuoteTimeout <= 0 {
		c.Finnhub.QuoteTimeout = 1 * time.Second
	}
	if c.Finnhub.SearchTimeout <= 0 {
		c.Finnhub.SearchTimeout = 5 * time.Second
	}
	if c.Market.FetchLimit <= 0 {
		c.Market.FetchLimit = 12
	}
	if c.Market.SnapshotTTL <= 0 {
		c.Market.SnapshotTTL = 5 * time.Minute
	}
	if c.Market.SearchLimit <= 0 {
		c.Market.SearchLimit = 15
	}
	if c.Market.NewsLimit <= 0 {
		c.Market.NewsLimit = 5
	}
	if c.Watchlist.PaceInterval <= 0 {
		c.Watchlist.PaceInterval = 1100 * time.Millisecond
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "data/stockscope.db"
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Finnhub.APIKey == "" {
		return fmt.Errorf("finnhub.api_key is required")
	}
	if len(c.Market.Universe) == 0 {
		return fmt.Errorf("market.universe cannot be empty")
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be 'memory' or 'redis', got '%s'", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required for redis backend")
	}
	return nil
}
