// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	custom_errors "commitlens/internal/errors"
	"commitlens/internal/model"
)

// PlatformConfig describes one hosting provider connection.
type PlatformConfig struct {
	Name     string `mapstructure:"name"`
	Kind     string `mapstructure:"kind"`
	BaseURL  string `mapstructure:"base_url"`
	Token    string `mapstructure:"token"`
	TokenEnv string `mapstructure:"token_env"`
	Username string `mapstructure:"username"`
	Enabled  *bool  `mapstructure:"enabled"`
}

// IsEnabled defaults to true when the flag is omitted.
func (p PlatformConfig) IsEnabled() bool {
	return p.Enabled == nil || *p.Enabled
}

// Config holds all configuration for the application.
type Config struct {
	LogLevel          string           `mapstructure:"LOG_LEVEL"`
	DBURL             string           `mapstructure:"DB_URL"`
	ListenAddr        string           `mapstructure:"LISTEN_ADDR"`
	SyncInterval      time.Duration    `mapstructure:"SYNC_INTERVAL"`
	SyncWindow        time.Duration    `mapstructure:"SYNC_WINDOW"`
	RepoConcurrency   int              `mapstructure:"REPO_CONCURRENCY"`
	CommitConcurrency int              `mapstructure:"COMMIT_CONCURRENCY"`
	HTTPTimeout       time.Duration    `mapstructure:"HTTP_TIMEOUT"`
	ConnectTimeout    time.Duration    `mapstructure:"CONNECT_TIMEOUT"`
	FetchDiffs        bool             `mapstructure:"FETCH_DIFFS"`
	Platforms         []PlatformConfig `mapstructure:"PLATFORMS"`
}

var envKeys = []string{
	"LOG_LEVEL", "DB_URL", "LISTEN_ADDR", "SYNC_INTERVAL", "SYNC_WINDOW",
	"REPO_CONCURRENCY", "COMMIT_CONCURRENCY", "HTTP_TIMEOUT", "CONNECT_TIMEOUT", "FETCH_DIFFS",
}

// LoadConfig reads configuration from an optional YAML file and environment variables.
// An empty path looks for commitlens.yaml in the working directory.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LISTEN_ADDR", ":8080")
	v.SetDefault("SYNC_INTERVAL", "1h")
	v.SetDefault("SYNC_WINDOW", "720h")
	v.SetDefault("REPO_CONCURRENCY", 3)
	v.SetDefault("COMMIT_CONCURRENCY", 10)
	v.SetDefault("HTTP_TIMEOUT", "30s")
	v.SetDefault("CONNECT_TIMEOUT", "10s")
	v.SetDefault("FETCH_DIFFS", true)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("commitlens")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	for i := range cfg.Platforms {
		p := &cfg.Platforms[i]
		if p.Token == "" && p.TokenEnv != "" {
			p.Token = os.Getenv(p.TokenEnv)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields. An unknown platform kind is reported as ErrUnknownPlatformKind.
func (c *Config) Validate() error {
	if c.DBURL == "" {
		return errors.New("DB_URL is a required configuration field")
	}
	if c.RepoConcurrency < 1 || c.CommitConcurrency < 1 {
		return errors.New("REPO_CONCURRENCY and COMMIT_CONCURRENCY must be at least 1")
	}
	if c.SyncWindow <= 0 {
		return errors.New("SYNC_WINDOW must be a positive duration")
	}

	seen := make(map[string]bool, len(c.Platforms))
	for _, p := range c.Platforms {
		if p.Name == "" {
			return errors.New("every platform needs a name")
		}
		if seen[p.Name] {
			return fmt.Errorf("platform %q is configured twice", p.Name)
		}
		seen[p.Name] = true

		if !model.PlatformKind(p.Kind).Valid() {
			return &custom_errors.ErrUnknownPlatformKind{Kind: p.Kind}
		}
		if p.Token == "" {
			return fmt.Errorf("platform %q has no token (set token or token_env)", p.Name)
		}
		if p.Kind == string(model.KindAzureDevOps) && p.BaseURL == "" {
			return fmt.Errorf("platform %q: azure_devops requires base_url (https://dev.azure.com/{organization})", p.Name)
		}
	}
	return nil
}
