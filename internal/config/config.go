package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // text or json
}

// DatabaseConfig points at the local SQLite file.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// FeedsConfig lists the syndication feeds to ingest.
type FeedsConfig struct {
	URLs           []string `mapstructure:"urls"`
	PerSourceLimit int      `mapstructure:"per_source_limit"`
	Timeout        string   `mapstructure:"timeout"` // duration string, e.g. "30s"
	UserAgent      string   `mapstructure:"user_agent"`
}

// LLMConfig selects the text generation backend.
type LLMConfig struct {
	Provider    string  `mapstructure:"provider"` // ollama or openai
	APIURL      string  `mapstructure:"api_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature *float32 `mapstructure:"temperature"` // nil means default; 0 is valid
	Timeout     string  `mapstructure:"timeout"`
	PromptFile  string  `mapstructure:"prompt_file"`
}

// XConfig holds X API v2 credentials (OAuth 2.0 user access token).
type XConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	AccessToken string `mapstructure:"access_token"`
}

// QuailyConfig holds Quaily API settings.
type QuailyConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	APIKey      string `mapstructure:"api_key"`
	ChannelSlug string `mapstructure:"channel_slug"`
}

// PublishConfig controls where and how posts go out.
type PublishConfig struct {
	Backend    string       `mapstructure:"backend"` // x or quaily
	DryRun     bool         `mapstructure:"dry_run"`
	MaxLength  int          `mapstructure:"max_length"`
	AppendLink *bool        `mapstructure:"append_link"`
	Timeout    string       `mapstructure:"timeout"`
	X          XConfig      `mapstructure:"x"`
	Quaily     QuailyConfig `mapstructure:"quaily"`
}

// RedisConfig holds redis connection settings for the optional run lock.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	LockTTL  string `mapstructure:"lock_ttl"`
}

// ServerConfig controls the read-only web view.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// ScheduleConfig holds cron specs used by serve.
type ScheduleConfig struct {
	Fetch string `mapstructure:"fetch"`
	Post  string `mapstructure:"post"`
}

// Config is the top-level configuration structure.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Feeds    FeedsConfig    `mapstructure:"feeds"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Publish  PublishConfig  `mapstructure:"publish"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Server   ServerConfig   `mapstructure:"server"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
}

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"

	BackendX      = "x"
	BackendQuaily = "quaily"
)

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.LogFormat == "" {
		c.App.LogFormat = "text"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./news_articles.db"
	}
	if c.Feeds.PerSourceLimit == 0 {
		c.Feeds.PerSourceLimit = 3
	}
	if c.Feeds.Timeout == "" {
		c.Feeds.Timeout = "30s"
	}
	if c.Feeds.UserAgent == "" {
		c.Feeds.UserAgent = "news-herald/1.0"
	}
	trimmed := c.Feeds.URLs[:0]
	for _, u := range c.Feeds.URLs {
		if u = strings.TrimSpace(u); u != "" {
			trimmed = append(trimmed, u)
		}
	}
	c.Feeds.URLs = trimmed

	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderOllama
	}
	if c.LLM.APIURL == "" && c.LLM.Provider == ProviderOllama {
		c.LLM.APIURL = "http://localhost:11434/api/generate"
	}
	if c.LLM.Temperature == nil {
		v := float32(0.9)
		c.LLM.Temperature = &v
	}
	if c.LLM.Timeout == "" {
		c.LLM.Timeout = "60s"
	}

	c.Publish.Backend = strings.ToLower(strings.TrimSpace(c.Publish.Backend))
	if c.Publish.Backend == "" {
		c.Publish.Backend = BackendX
	}
	if c.Publish.MaxLength == 0 {
		c.Publish.MaxLength = 280
	}
	if c.Publish.AppendLink == nil {
		v := true
		c.Publish.AppendLink = &v
	}
	if c.Publish.Timeout == "" {
		c.Publish.Timeout = "20s"
	}
	if c.Publish.X.BaseURL == "" {
		c.Publish.X.BaseURL = "https://api.twitter.com"
	}
	if c.Publish.Quaily.BaseURL == "" {
		c.Publish.Quaily.BaseURL = "https://api.quaily.com/v1"
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Redis.LockTTL == "" {
		c.Redis.LockTTL = "10m"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Schedule.Fetch == "" {
		c.Schedule.Fetch = "@every 30m"
	}
	if c.Schedule.Post == "" {
		c.Schedule.Post = "@every 1h"
	}
}

// SamplingTemperature returns the configured temperature, 0.9 when unset.
func (l LLMConfig) SamplingTemperature() float32 {
	if l.Temperature == nil {
		return 0.9
	}
	return *l.Temperature
}

// ShouldAppendLink reports whether the item link is appended to posts.
func (p PublishConfig) ShouldAppendLink() bool {
	return p.AppendLink == nil || *p.AppendLink
}

// ValidateIngest checks the settings needed by the feed collector.
func (c *Config) ValidateIngest() error {
	var errs []error
	if len(c.Feeds.URLs) == 0 {
		errs = append(errs, errors.New("feeds.urls: at least one feed url is required"))
	}
	if c.Feeds.PerSourceLimit <= 0 {
		errs = append(errs, fmt.Errorf("feeds.per_source_limit: must be positive, got %d", c.Feeds.PerSourceLimit))
	}
	if _, err := time.ParseDuration(c.Feeds.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("feeds.timeout: %w", err))
	}
	return errors.Join(errs...)
}

// ValidatePublish checks the settings needed by a publish cycle. Backend
// credentials are only required when dry_run is off.
func (c *Config) ValidatePublish() error {
	var errs []error
	switch c.LLM.Provider {
	case ProviderOllama, ProviderOpenAI:
	default:
		errs = append(errs, fmt.Errorf("llm.provider: unknown provider %q", c.LLM.Provider))
	}
	if c.LLM.Model == "" {
		errs = append(errs, errors.New("llm.model: required"))
	}
	if c.LLM.Provider == ProviderOllama && c.LLM.APIURL == "" {
		errs = append(errs, errors.New("llm.api_url: required for ollama"))
	}
	if c.LLM.Provider == ProviderOpenAI && c.LLM.APIKey == "" && c.LLM.APIURL == "" {
		errs = append(errs, errors.New("llm.api_key: required for openai unless llm.api_url points at a compatible server"))
	}
	if _, err := time.ParseDuration(c.LLM.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("llm.timeout: %w", err))
	}
	if c.Publish.MaxLength <= 0 {
		errs = append(errs, fmt.Errorf("publish.max_length: must be positive, got %d", c.Publish.MaxLength))
	}
	if _, err := time.ParseDuration(c.Publish.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("publish.timeout: %w", err))
	}
	switch c.Publish.Backend {
	case BackendX:
		if !c.Publish.DryRun && c.Publish.X.AccessToken == "" {
			errs = append(errs, errors.New("publish.x.access_token: required unless publish.dry_run is set"))
		}
	case BackendQuaily:
		if !c.Publish.DryRun && (c.Publish.Quaily.APIKey == "" || c.Publish.Quaily.ChannelSlug == "") {
			errs = append(errs, errors.New("publish.quaily: api_key and channel_slug required unless publish.dry_run is set"))
		}
	default:
		errs = append(errs, fmt.Errorf("publish.backend: unknown backend %q", c.Publish.Backend))
	}
	if c.Redis.Enabled {
		if _, err := time.ParseDuration(c.Redis.LockTTL); err != nil {
			errs = append(errs, fmt.Errorf("redis.lock_ttl: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Duration parses a duration string that already passed validation,
// falling back to def.
func Duration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
