package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadToken(t *testing.T) {
	t.Run("missing token is a configuration error", func(t *testing.T) {
		t.Setenv(TokenEnv, "")
		token, err := LoadToken()
		assert.Empty(t, token)
		assert.True(t, errors.Is(err, ErrMissingToken))
		assert.True(t, IsConfigError(err))
		assert.Contains(t, err.Error(), TokenEnv)
	})

	t.Run("token is trimmed", func(t *testing.T) {
		t.Setenv(TokenEnv, "  ghp_secret\n")
		token, err := LoadToken()
		require.NoError(t, err)
		assert.Equal(t, "ghp_secret", token)
	})
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(TokenEnv+"=from_file\n"), 0o644))

	t.Run("empty variable is filled from the file", func(t *testing.T) {
		t.Setenv(TokenEnv, "")
		require.NoError(t, LoadEnvFile(path))
		token, err := LoadToken()
		require.NoError(t, err)
		assert.Equal(t, "from_file", token)
	})

	t.Run("set variable wins over the file", func(t *testing.T) {
		t.Setenv(TokenEnv, "from_env")
		require.NoError(t, LoadEnvFile(path))
		token, err := LoadToken()
		require.NoError(t, err)
		assert.Equal(t, "from_env", token)
	})

	t.Run("missing file is ignored", func(t *testing.T) {
		t.Setenv(TokenEnv, "")
		require.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), ".env")))
		_, err := LoadToken()
		assert.True(t, errors.Is(err, ErrMissingToken))
	})
}

func TestLoad_RepeatedRepositoriesAreDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repoinsight.yaml")
	require.NoError(t, os.WriteFile(path, []byte("repos:\n  - alpha\n  - beta alpha\n"), 0o644))
	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.Repos)
}

func TestUniqueRepos(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, UniqueRepos([]string{"b", "a", "b", "c", "a"}))
	assert.Nil(t, UniqueRepos(nil))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 90*24*time.Hour, cfg.RecentWindow())
}

func TestLoad_EnvironmentAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repoinsight.yaml")
	require.NoError(t, os.WriteFile(path, []byte("group-url: https://github.com/SolveCare/\nrepos:\n  - Care.Protocol\ntop: 10\n"), 0o644))
	t.Setenv("REPOINSIGHT_API", "graphql")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/SolveCare/", cfg.GroupURL)
	assert.Equal(t, []string{"Care.Protocol"}, cfg.Repos)
	assert.Equal(t, 10, cfg.Top)
	assert.Equal(t, "graphql", cfg.API)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(c *Config)
		key    string
	}{
		{name: "unknown api", mutate: func(c *Config) { c.API = "soap" }, key: "api"},
		{name: "negative top", mutate: func(c *Config) { c.Top = -1 }, key: "top"},
		{name: "negative top repos", mutate: func(c *Config) { c.TopRepos = -1 }, key: "top-repos"},
		{name: "zero window", mutate: func(c *Config) { c.RecentDays = 0 }, key: "recent-days"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			var cfgErr *Error
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tc.key, cfgErr.Key)
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestSplitRepos(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitRepos([]string{"a b", "c"}))
	assert.Equal(t, []string{"a", "b"}, splitRepos([]string{"a,b"}))
	assert.Nil(t, splitRepos(nil))
}
