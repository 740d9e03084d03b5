package config

import (
	"testing"

	"github.com/openfluke/computeguide/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestDefault(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvFormat, "")
	t.Setenv(EnvVerify, "")

	c := Default()
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "debug", c.Format)
	assert.False(t, c.Verify)
	assert.NoError(t, c.Validate())
}

func TestDefaultFromEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvFormat, "table")
	t.Setenv(EnvVerify, "true")

	c := Default()
	assert.Equal(t, Config{LogLevel: "debug", Format: "table", Verify: true}, c)
	assert.Equal(t, report.FormatTable, c.OutputFormat())
}

func TestValidate(t *testing.T) {
	assert.Error(t, Config{LogLevel: "loud", Format: "debug"}.Validate())
	assert.Error(t, Config{LogLevel: "info", Format: "yaml"}.Validate())
	assert.NoError(t, Config{LogLevel: "warn", Format: "table"}.Validate())
}

func TestLogger(t *testing.T) {
	log, err := Config{LogLevel: "warn", Format: "debug"}.Logger()
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))

	_, err = Config{LogLevel: "nope"}.Logger()
	assert.Error(t, err)
}
