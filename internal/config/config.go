// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type WebConfig struct {
	Port        int           `yaml:"port"`
	AdminAPIKey string        `yaml:"admin_api_key"`
	AdminSecret string        `yaml:"admin_secret"` // HMAC secret for admin session cookies
	AdminTTL    time.Duration `yaml:"admin_ttl"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// ProviderConfig describes one model backend. Order in the providers list
// is the router's priority order.
type ProviderConfig struct {
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind"` // openai | gemini | compat
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type AIConfig struct {
	Providers       []ProviderConfig `yaml:"providers"`
	ConcurrentLimit int              `yaml:"concurrent_limit"` // max concurrent calls per provider (in-process)
	LedgerPath      string           `yaml:"ledger_path"`
	LedgerCap       int              `yaml:"ledger_cap"` // soft in-flight cap per provider across workers
	LockTimeout     time.Duration    `yaml:"lock_timeout"`
	MaxOutputTokens int              `yaml:"max_output_tokens"`
}

type SecurityConfig struct {
	// EncryptionKey enables at-rest encryption of session payloads when set.
	// Must be 16, 24 or 32 bytes.
	EncryptionKey string `yaml:"encryption_key"`
}

type EmbeddingConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type Config struct {
	Log       LogConfig       `yaml:"log"`
	Web       WebConfig       `yaml:"web"`
	Redis     RedisConfig     `yaml:"redis"`
	AI        AIConfig        `yaml:"ai"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Security  SecurityConfig  `yaml:"security"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Web.Port <= 0 {
		cfg.Web.Port = 8080
	}
	if cfg.Web.AdminTTL <= 0 {
		cfg.Web.AdminTTL = 30 * time.Minute
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = 365 * 24 * time.Hour
	}
	if cfg.AI.ConcurrentLimit <= 0 {
		cfg.AI.ConcurrentLimit = 16
	}
	if cfg.AI.LedgerPath == "" {
		cfg.AI.LedgerPath = "model_count.txt"
	}
	if cfg.AI.LedgerCap <= 0 {
		cfg.AI.LedgerCap = 3
	}
	if cfg.AI.LockTimeout <= 0 {
		cfg.AI.LockTimeout = 5 * time.Second
	}
	if cfg.AI.MaxOutputTokens <= 0 {
		cfg.AI.MaxOutputTokens = 1024
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}

	// Minimal validation
	if len(cfg.AI.Providers) == 0 {
		return nil, errors.New("ai.providers is required")
	}
	seen := map[string]struct{}{}
	for i, p := range cfg.AI.Providers {
		if p.Name == "" {
			return nil, fmt.Errorf("ai.providers[%d].name is required", i)
		}
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("ai.providers: duplicate name %q", p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

// ProviderNames returns the configured provider names in priority order.
func (c *Config) ProviderNames() []string {
	out := make([]string, 0, len(c.AI.Providers))
	for _, p := range c.AI.Providers {
		out = append(out, p.Name)
	}
	return out
}
