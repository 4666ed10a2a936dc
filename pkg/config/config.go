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
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Providers struct {
		FMP     ProviderConfig `yaml:"fmp"`
		Finnhub ProviderConfig `yaml:"finnhub"`
	} `yaml:"providers"`
	Cache struct {
		Backend string        `yaml:"backend"` // memory or redis
		TTL     time.Duration `yaml:"ttl"`
		Redis   RedisConfig   `yaml:"redis"`
	} `yaml:"cache"`
	Portfolios struct {
		Redis RedisConfig `yaml:"redis"`
	} `yaml:"portfolios"`
	Stream struct {
		RefreshInterval time.Duration `yaml:"refresh_interval"`
		MaxSymbols      int           `yaml:"max_symbols"`
	} `yaml:"stream"`
	Billing struct {
		APIURL      string        `yaml:"api_url"`
		SecretKey   string        `yaml:"secret_key"`
		FallbackURL string        `yaml:"fallback_url"`
		Timeout     time.Duration `yaml:"timeout"`
		Plans       []Plan        `yaml:"plans"`
	} `yaml:"billing"`
	Quota struct {
		PostgresDSN string `yaml:"postgres_dsn"`
	} `yaml:"quota"`
	Audit struct {
		Enabled      bool          `yaml:"enabled"`
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port"`
		Database     string        `yaml:"database"`
		User         string        `yaml:"user"`
		Password     string        `yaml:"password"`
		AsyncInsert  bool          `yaml:"async_insert"`
		WaitForAsync bool          `yaml:"wait_for_async_insert"`
		DialTimeout  time.Duration `yaml:"dial_timeout"`
		FlushSize    int           `yaml:"flush_size"`
	} `yaml:"audit"`
	Admin struct {
		Token string `yaml:"token"`
	} `yaml:"admin"`
}

// ProviderConfig configures one market-data provider. An empty APIKey disables
// the provider; key presence is the only feature flag for live data.
type ProviderConfig struct {
	APIKey            string        `yaml:"api_key"`
	BaseURL           string        `yaml:"base_url"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	Burst             int           `yaml:"burst"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// Plan maps a billing price id onto a subscription tier.
type Plan struct {
	Name    string `yaml:"name"`
	PriceID string `yaml:"price_id"`
	Tier    string `yaml:"tier"` // free, casual, professional
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		fmt.Sscanf(v, "%d", &c.Server.Port)
	}
	if v := os.Getenv("FMP_API_KEY"); v != "" {
		c.Providers.FMP.APIKey = v
	}
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		c.Providers.Finnhub.APIKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port := splitHostPort(v)
		c.Cache.Redis.Host, c.Cache.Redis.Port = host, port
		c.Portfolios.Redis.Host, c.Portfolios.Redis.Port = host, port
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
		c.Portfolios.Redis.Password = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Quota.PostgresDSN = v
	}
	if v := os.Getenv("BILLING_SECRET_KEY"); v != "" {
		c.Billing.SecretKey = v
	}
	if v := os.Getenv("ADMIN_TOKEN"); v != "" {
		c.Admin.Token = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Providers.FMP.BaseURL == "" {
		c.Providers.FMP.BaseURL = "https://financialmodelingprep.com"
	}
	if c.Providers.Finnhub.BaseURL == "" {
		c.Providers.Finnhub.BaseURL = "https://finnhub.io"
	}
	if c.Providers.FMP.Timeout == 0 {
		c.Providers.FMP.Timeout = 10 * time.Second
	}
	if c.Providers.Finnhub.Timeout == 0 {
		c.Providers.Finnhub.Timeout = 10 * time.Second
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 60 * time.Second
	}
	if c.Stream.RefreshInterval == 0 {
		c.Stream.RefreshInterval = 15 * time.Second
	}
	if c.Stream.MaxSymbols == 0 {
		c.Stream.MaxSymbols = 20
	}
	if c.Billing.Timeout == 0 {
		c.Billing.Timeout = 15 * time.Second
	}
	if c.Audit.FlushSize == 0 {
		c.Audit.FlushSize = 100
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be 'memory' or 'redis', got '%s'", c.Cache.Backend)
	}
	for _, p := range c.Billing.Plans {
		switch p.Tier {
		case "free", "casual", "professional":
		default:
			return fmt.Errorf("billing plan %q has unknown tier '%s'", p.Name, p.Tier)
		}
		if p.PriceID == "" && p.Tier != "free" {
			return fmt.Errorf("billing plan %q requires a price_id", p.Name)
		}
	}
	if c.Audit.Enabled && c.Audit.Host == "" {
		return fmt.Errorf("audit.host is required when audit is enabled")
	}
	return nil
}

// PlanByPriceID looks up a configured billing plan.
func (c *Config) PlanByPriceID(priceID string) (Plan, bool) {
	for _, p := range c.Billing.Plans {
		if p.PriceID == priceID {
			return p, true
		}
	}
	return Plan{}, false
}

func splitHostPort(addr string) (string, int) {
	host, port := addr, 6379
	if i := strings.LastIndex(addr, ":"); i > 0 {
		host = addr[:i]
		fmt.Sscanf(addr[i+1:], "%d", &port)
	}
	return host, port
}
