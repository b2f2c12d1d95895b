// Package config loads the relay configuration: defaults, optional YAML
// file, RELAY_ environment overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Webhook     WebhookConfig     `mapstructure:"webhook"`
	Redis       RedisConfig       `mapstructure:"redis"`
	NATS        NATSConfig        `mapstructure:"nats"`
	DLQ         DLQConfig         `mapstructure:"dlq"`
	Destination DestinationConfig `mapstructure:"destination"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type WebhookConfig struct {
	// SigningSecret verifies X-Lotwire-Signature on intake. Empty
	// disables verification.
	SigningSecret string `mapstructure:"signing_secret"`
	MaxBodyBytes  int64  `mapstructure:"max_body_bytes"`
}

type RedisConfig struct {
	// URL enables the idempotency cache. Empty runs without dedup.
	URL string        `mapstructure:"url"`
	TTL time.Duration `mapstructure:"ttl"`
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type DLQConfig struct {
	// Backend selects "file", "jetstream", or "none".
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

type DestinationConfig struct {
	// URL is the full endpoint classified outcomes are posted to. Empty
	// skips forwarding.
	URL     string        `mapstructure:"url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type AuthConfig struct {
	// JWTSecret guards the admin endpoints. Empty leaves them disabled.
	JWTSecret string `mapstructure:"jwt_secret"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DLQ backend names accepted by Validate.
const (
	DLQBackendFile      = "file"
	DLQBackendJetStream = "jetstream"
	DLQBackendNone      = "none"
)

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8095)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("webhook.signing_secret", "")
	v.SetDefault("webhook.max_body_bytes", 1048576)
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.ttl", "24h")
	v.SetDefault("nats.url", "")
	v.SetDefault("dlq.backend", DLQBackendFile)
	v.SetDefault("dlq.path", "/var/lib/lotwire/dlq")
	v.SetDefault("destination.url", "")
	v.SetDefault("destination.api_key", "")
	v.SetDefault("destination.timeout", "10s")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/lotwire/relay")
	}

	// Environment variables override
	v.SetEnvPrefix("RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Webhook.MaxBodyBytes <= 0 {
		return fmt.Errorf("webhook.max_body_bytes must be positive")
	}

	switch c.DLQ.Backend {
	case DLQBackendFile, DLQBackendNone:
	case DLQBackendJetStream:
		if c.NATS.URL == "" {
			return fmt.Errorf("dlq.backend jetstream requires nats.url")
		}
	default:
		return fmt.Errorf("dlq.backend %q is not one of file, jetstream, none", c.DLQ.Backend)
	}

	if c.Redis.URL != "" && c.Redis.TTL <= 0 {
		return fmt.Errorf("redis.ttl must be positive when redis.url is set")
	}
	if c.Destination.URL != "" && c.Destination.Timeout <= 0 {
		return fmt.Errorf("destination.timeout must be positive when destination.url is set")
	}

	return nil
}
