// Package config holds the CLI's run settings and builds its logger.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/openfluke/computeguide/report"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment variables that seed the flag defaults.
const (
	EnvLogLevel = "COMPUTEGUIDE_LOG_LEVEL"
	EnvFormat   = "COMPUTEGUIDE_FORMAT"
	EnvVerify   = "COMPUTEGUIDE_VERIFY"
)

// Config is what the flags resolve to. None of it changes what the GPU
// computes; it only controls logging and how results are printed.
type Config struct {
	LogLevel string
	Format   string
	Verify   bool
}

// Default returns the built-in settings overridden by the environment.
func Default() Config {
	c := Config{LogLevel: "info", Format: string(report.FormatDebug)}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvFormat); v != "" {
		c.Format = v
	}
	if v, err := strconv.ParseBool(os.Getenv(EnvVerify)); err == nil {
		c.Verify = v
	}
	return c
}

// Validate rejects unknown log levels and formats.
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if _, err := report.ParseFormat(c.Format); err != nil {
		return err
	}
	return nil
}

// OutputFormat is the parsed Format. Call Validate first.
func (c Config) OutputFormat() report.Format {
	f, _ := report.ParseFormat(c.Format)
	return f
}

// Logger builds a development-style zap logger writing to stderr at the
// configured level.
func (c Config) Logger() (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.DisableStacktrace = true
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
