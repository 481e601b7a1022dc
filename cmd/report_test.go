package cmd

import (
	"bytes"
	"testing"

	"github.com/naka-gawa/repoinsight/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestReportCommand_FailsFastWithoutToken(t *testing.T) {
	t.Setenv(config.TokenEnv, "")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"report", "--group-url", "https://github.com/any-org/", "--workdir", t.TempDir(), "repo"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.True(t, config.IsConfigError(err))
	assert.Empty(t, out.String())
}

func TestReportCommand_RejectsUnknownAPI(t *testing.T) {
	t.Setenv(config.TokenEnv, "token")
	rootCmd.SetArgs([]string{"report", "--api", "soap", "--group-url", "https://github.com/any-org/", "repo"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "api")
}
