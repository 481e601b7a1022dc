// Package config resolves everything a report run needs before any
// repository is touched: the credential, the settings and the repository list.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// TokenEnv names the environment variable holding the GitHub token.
const TokenEnv = "GITHUB_PAT"

// Error is a configuration problem that must stop the process before any work starts.
type Error struct {
	Key    string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Key, e.Reason)
}

// ErrMissingToken is returned when TokenEnv is unset or empty.
var ErrMissingToken = &Error{Key: TokenEnv, Reason: "environment variable not set"}

// IsConfigError reports whether err is, or wraps, a configuration error.
func IsConfigError(err error) bool {
	var cfgErr *Error
	return errors.As(err, &cfgErr)
}

// Config holds the resolved settings of a report run.
type Config struct {
	GroupURL   string        `mapstructure:"group-url"`
	Repos      []string      `mapstructure:"repos"`
	WorkDir    string        `mapstructure:"workdir"`
	API        string        `mapstructure:"api"`
	Top        int           `mapstructure:"top"`
	TopRepos   int           `mapstructure:"top-repos"`
	RecentDays int           `mapstructure:"recent-days"`
	Timeout    time.Duration `mapstructure:"timeout"`
	// RateLimit is the maximum number of GitHub API calls per second.
	RateLimit float64 `mapstructure:"rate-limit"`
}

// Default returns the settings used when nothing else is configured.
func Default() *Config {
	return &Config{
		WorkDir:    ".",
		API:        "rest",
		Top:        6,
		TopRepos:   3,
		RecentDays: 90,
		Timeout:    30 * time.Second,
		RateLimit:  5,
	}
}

// SetDefaults registers Default() on v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("workdir", d.WorkDir)
	v.SetDefault("api", d.API)
	v.SetDefault("top", d.Top)
	v.SetDefault("top-repos", d.TopRepos)
	v.SetDefault("recent-days", d.RecentDays)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("rate-limit", d.RateLimit)
}

// LoadEnvFile reads path when it exists and sets every variable that is
// unset or empty in the environment. Non-empty variables win.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to inspect %s: %w", path, err)
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	for key, value := range vars {
		if os.Getenv(key) != "" {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}
	return nil
}

// LoadToken returns the GitHub token or ErrMissingToken.
func LoadToken() (string, error) {
	token := strings.TrimSpace(os.Getenv(TokenEnv))
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

// Load reads settings from v, which is expected to have flags bound, and
// an optional config file at path.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix("REPOINSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	// Space-separated lists from the environment arrive as one element.
	cfg.Repos = UniqueRepos(splitRepos(cfg.Repos))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that do not depend on user input.
func (c *Config) Validate() error {
	switch c.API {
	case "rest", "graphql":
	default:
		return &Error{Key: "api", Reason: fmt.Sprintf("unknown value %q (want rest or graphql)", c.API)}
	}
	if c.Top < 0 {
		return &Error{Key: "top", Reason: "must not be negative"}
	}
	if c.TopRepos < 0 {
		return &Error{Key: "top-repos", Reason: "must not be negative"}
	}
	if c.RecentDays <= 0 {
		return &Error{Key: "recent-days", Reason: "must be positive"}
	}
	return nil
}

// RecentWindow returns the recent-activity window as a duration.
func (c *Config) RecentWindow() time.Duration {
	return time.Duration(c.RecentDays) * 24 * time.Hour
}

func splitRepos(in []string) []string {
	var out []string
	for _, item := range in {
		for _, f := range strings.FieldsFunc(item, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
			out = append(out, f)
		}
	}
	return out
}

// UniqueRepos drops repeated names, keeping the first occurrence of each.
func UniqueRepos(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, name := range in {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
