// Package config loads the runtime configuration from flags, environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Supported remote platforms.
const (
	ProviderGitLab = "gitlab"
	ProviderGitHub = "github"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "CONTRIB_STATS"

// ErrMissingToken is returned by Validate when no credential is configured.
var ErrMissingToken = errors.New("missing access token")

type Config struct {
	Provider       string        `mapstructure:"provider"`
	GitLabURL      string        `mapstructure:"gitlab_url"`
	GitHubURL      string        `mapstructure:"github_url"`
	Token          string        `mapstructure:"token"`
	Addr           string        `mapstructure:"addr"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Concurrency    int           `mapstructure:"concurrency"`
}

// Load reads the configuration. Values are resolved in the order flags, CONTRIB_STATS_* variables,
// provider token variables (GITLAB_TOKEN / GITHUB_TOKEN), then defaults.
// A .env file in the working directory is loaded into the environment first when present.
func Load(flags *pflag.FlagSet) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("fail to read .env: %w", err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("provider", ProviderGitLab)
	v.SetDefault("gitlab_url", "https://gitlab.com")
	v.SetDefault("github_url", "")
	v.SetDefault("token", "")
	v.SetDefault("addr", ":8080")
	v.SetDefault("request_timeout", 15*time.Second)
	v.SetDefault("concurrency", 4)

	if flags != nil {
		for _, key := range []string{"provider", "gitlab_url", "github_url", "token", "addr", "request_timeout", "concurrency"} {
			f := flags.Lookup(strings.ReplaceAll(key, "_", "-"))
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", f.Name, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))

	if cfg.Token == "" {
		switch cfg.Provider {
		case ProviderGitLab:
			cfg.Token = os.Getenv("GITLAB_TOKEN")
		case ProviderGitHub:
			cfg.Token = os.Getenv("GITHUB_TOKEN")
		}
	}
	return cfg, nil
}

// Validate fails when the configuration cannot be used to reach the remote platform.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGitLab, ProviderGitHub:
	default:
		return fmt.Errorf("unsupported provider %q", c.Provider)
	}
	if c.Token == "" {
		return fmt.Errorf("%s: %w (set %s_TOKEN or %s_TOKEN)", c.Provider, ErrMissingToken, EnvPrefix, strings.ToUpper(c.Provider))
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}
