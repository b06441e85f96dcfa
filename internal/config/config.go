// Package config provides YAML-based configuration loading for DevBrain.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvAPIURL       = "DEVBRAIN_API_URL"
	EnvGeminiAPIKey = "DEVBRAIN_GEMINI_API_KEY"
)

// DefaultPath is the config file used when no --config flag is given.
const DefaultPath = "devbrain.yaml"

// Config is the top-level DevBrain configuration, loaded from devbrain.yaml.
type Config struct {
	Backend     BackendConfig     `yaml:"backend"`
	Project     ProjectConfig     `yaml:"project"`
	Session     SessionConfig     `yaml:"session"`
	Assistant   AssistantConfig   `yaml:"assistant"`
	Watch       WatchConfig       `yaml:"watch"`
	Log         LogConfig         `yaml:"log"`
	Notify      NotifyConfig      `yaml:"notify"`
	GitHub      GitHubConfig      `yaml:"github"`
	MockBackend MockBackendConfig `yaml:"mockbackend"`
}

// BackendConfig holds connection settings for the REST backend.
type BackendConfig struct {
	URL             string `yaml:"url"`
	TimeoutSec      int    `yaml:"timeout_sec"`
	ProbeTimeoutSec int    `yaml:"probe_timeout_sec"`
	UseKnowledge    *bool  `yaml:"use_knowledge"`
}

// Timeout is the per-request HTTP timeout.
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSec) * time.Second
}

// ProbeTimeout bounds a single health check.
func (b BackendConfig) ProbeTimeout() time.Duration {
	return time.Duration(b.ProbeTimeoutSec) * time.Second
}

// KnowledgeEnabled reports whether chat requests ask the backend to ground
// answers in uploaded knowledge.
func (b BackendConfig) KnowledgeEnabled() bool {
	return b.UseKnowledge == nil || *b.UseKnowledge
}

// ProjectConfig names the project created when none is persisted yet.
type ProjectConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// SessionConfig selects where the current project id is remembered.
type SessionConfig struct {
	Driver   string `yaml:"driver"` // sqlite or mysql
	Path     string `yaml:"path"`   // sqlite file
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// AssistantConfig configures the local AI provider chain.
type AssistantConfig struct {
	GeminiAPIKey    string `yaml:"gemini_api_key"`
	GeminiModel     string `yaml:"gemini_model"`
	GeminiEndpoint  string `yaml:"gemini_endpoint"` // host:port; empty uses the SDK default
	FallbackDelayMs *int   `yaml:"fallback_delay_ms"`
}

// FallbackDelay is the simulated latency of the offline responder.
func (a AssistantConfig) FallbackDelay() time.Duration {
	if a.FallbackDelayMs == nil {
		return 800 * time.Millisecond
	}
	return time.Duration(*a.FallbackDelayMs) * time.Millisecond
}

// WatchConfig schedules background connectivity checks.
type WatchConfig struct {
	Schedule string `yaml:"schedule"`
}

// LogConfig controls the slog handlers.
type LogConfig struct {
	Level   string `yaml:"level"`
	Journal bool   `yaml:"journal"`
}

// NotifyConfig lists chat platforms that receive node events.
type NotifyConfig struct {
	Slack   ChannelConfig `yaml:"slack"`
	Discord ChannelConfig `yaml:"discord"`
}

// ChannelConfig is a bot token plus the channel to post to.
type ChannelConfig struct {
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
}

// Enabled reports whether both token and channel are set.
func (c ChannelConfig) Enabled() bool {
	return c.Token != "" && c.Channel != ""
}

// GitHubConfig is the target repository for issue export.
type GitHubConfig struct {
	Owner string `yaml:"owner"`
	Repo  string `yaml:"repo"`
	Token string `yaml:"token"`
}

// MockBackendConfig configures the bundled reference backend.
type MockBackendConfig struct {
	Port int `yaml:"port"`
}

// Load reads a YAML config file from path and returns a validated Config.
// A missing file yields the defaults. Environment overrides are applied.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return parse(data, os.LookupEnv)
}

// Parse unmarshals YAML bytes into a validated Config. It ignores the
// environment.
func Parse(data []byte) (*Config, error) {
	return parse(data, func(string) (string, bool) { return "", false })
}

func parse(data []byte, lookup func(string) (string, bool)) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyEnv(lookup)
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAPIURL); ok && v != "" {
		c.Backend.URL = v
	}
	if v, ok := lookup(EnvGeminiAPIKey); ok && v != "" {
		c.Assistant.GeminiAPIKey = v
	}
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Backend.URL == "" {
		c.Backend.URL = "http://localhost:8000/api"
	}
	c.Backend.URL = strings.TrimRight(c.Backend.URL, "/")
	if c.Backend.TimeoutSec == 0 {
		c.Backend.TimeoutSec = 30
	}
	if c.Backend.ProbeTimeoutSec == 0 {
		c.Backend.ProbeTimeoutSec = 5
	}
	if c.Project.Name == "" {
		c.Project.Name = "DevBrain Project"
	}
	if c.Session.Driver == "" {
		c.Session.Driver = "sqlite"
	}
	if c.Session.Driver == "sqlite" && c.Session.Path == "" {
		c.Session.Path = ".devbrain.db"
	}
	if c.Session.Driver == "mysql" {
		if c.Session.Host == "" {
			c.Session.Host = "127.0.0.1"
		}
		if c.Session.Port == 0 {
			c.Session.Port = 3306
		}
		if c.Session.User == "" {
			c.Session.User = "root"
		}
		if c.Session.Database == "" {
			c.Session.Database = "devbrain"
		}
	}
	if c.Assistant.GeminiModel == "" {
		c.Assistant.GeminiModel = "gemini-pro"
	}
	if c.Watch.Schedule == "" {
		c.Watch.Schedule = "@every 30s"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.MockBackend.Port == 0 {
		c.MockBackend.Port = 8000
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if u, err := url.Parse(c.Backend.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Sprintf("backend.url %q must be an absolute http(s) URL", c.Backend.URL))
	}
	if c.Backend.TimeoutSec < 0 {
		errs = append(errs, "backend.timeout_sec must not be negative")
	}
	if c.Backend.ProbeTimeoutSec < 0 {
		errs = append(errs, "backend.probe_timeout_sec must not be negative")
	}
	switch c.Session.Driver {
	case "sqlite", "mysql":
	default:
		errs = append(errs, fmt.Sprintf("session.driver %q must be sqlite or mysql", c.Session.Driver))
	}
	if c.Assistant.FallbackDelayMs != nil && *c.Assistant.FallbackDelayMs < 0 {
		errs = append(errs, "assistant.fallback_delay_ms must not be negative")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level %q must be debug, info, warn or error", c.Log.Level))
	}
	if (c.GitHub.Owner == "") != (c.GitHub.Repo == "") {
		errs = append(errs, "github.owner and github.repo must be set together")
	}
	if c.MockBackend.Port < 0 || c.MockBackend.Port > 65535 {
		errs = append(errs, fmt.Sprintf("mockbackend.port %d out of range", c.MockBackend.Port))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
