package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Serper    SerperConfig    `yaml:"serper" mapstructure:"serper"`
	SERP      SERPConfig      `yaml:"serp" mapstructure:"serp"`
	Crawl     CrawlConfig     `yaml:"crawl" mapstructure:"crawl"`
	Enrich    EnrichConfig    `yaml:"enrich" mapstructure:"enrich"`
	Agent     AgentConfig     `yaml:"agent" mapstructure:"agent"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key        string `yaml:"key" mapstructure:"key"`
	HaikuModel string `yaml:"haiku_model" mapstructure:"haiku_model"`
	MaxTokens  int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// SerperConfig holds the serper.dev search API settings.
type SerperConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// SERPConfig configures the SERP stage.
type SERPConfig struct {
	MaxQueries      int     `yaml:"max_queries" mapstructure:"max_queries"`
	ResultsPerQuery int     `yaml:"results_per_query" mapstructure:"results_per_query"`
	QueriesPerSec   float64 `yaml:"queries_per_sec" mapstructure:"queries_per_sec"`
}

// CrawlConfig configures the site crawler.
type CrawlConfig struct {
	MaxPages       int     `yaml:"max_pages" mapstructure:"max_pages"`
	MaxDepth       int     `yaml:"max_depth" mapstructure:"max_depth"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
}

// EnrichConfig configures the enrichment stage.
type EnrichConfig struct {
	PagesPerSite int `yaml:"pages_per_site" mapstructure:"pages_per_site"`
	Concurrency  int `yaml:"concurrency" mapstructure:"concurrency"`
	Limit        int `yaml:"limit" mapstructure:"limit"`
}

// AgentConfig configures the autonomous agent branch.
type AgentConfig struct {
	Enabled       bool `yaml:"enabled" mapstructure:"enabled"`
	MaxIterations int  `yaml:"max_iterations" mapstructure:"max_iterations"`
}

// ServerConfig configures the webhook server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.sqlite_path", "leadgen.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("anthropic.haiku_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("serper.base_url", "https://google.serper.dev")
	v.SetDefault("serp.max_queries", 20)
	v.SetDefault("serp.results_per_query", 20)
	v.SetDefault("serp.queries_per_sec", 1)
	v.SetDefault("crawl.max_pages", 30)
	v.SetDefault("crawl.max_depth", 2)
	v.SetDefault("crawl.requests_per_sec", 2)
	v.SetDefault("enrich.pages_per_site", 5)
	v.SetDefault("enrich.concurrency", 3)
	v.SetDefault("enrich.limit", 25)
	v.SetDefault("agent.enabled", true)
	v.SetDefault("agent.max_iterations", 3)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the configuration for the given command mode. All
// problems are collected into one error so the operator fixes everything in
// a single pass.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "run", "score":
		if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required for the postgres driver")
		}
		if c.Store.Driver == "sqlite" && c.Store.SQLitePath == "" {
			problems = append(problems, "store.sqlite_path is required for the sqlite driver")
		}
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
		if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required for the postgres driver")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Enrich.Concurrency < 1 || c.Enrich.Concurrency > 10 {
		problems = append(problems, "enrich.concurrency must be between 1 and 10")
	}
	if c.Enrich.PagesPerSite < 1 {
		problems = append(problems, "enrich.pages_per_site must be >= 1")
	}
	if c.SERP.QueriesPerSec <= 0 {
		problems = append(problems, "serp.queries_per_sec must be > 0")
	}
	if c.Crawl.RequestsPerSec <= 0 {
		problems = append(problems, "crawl.requests_per_sec must be > 0")
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
