// Config loading for the scatter CLI.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/scatterplot/internal/paths"
	"github.com/mesh-intelligence/scatterplot/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "SCATTER"

	// Config keys.
	cfgKeyBackend   = "backend"
	cfgKeyDataDir   = "data_dir"
	cfgKeySync      = "sync"
	cfgKeyLogLevel  = "log_level"
	cfgKeyLogFormat = "log_format"
	cfgKeyDayStart  = "day_start"

	logFormatText = "text"
	logFormatJSON = "json"
)

// settings is the decoded config.yaml. The yaml tags shape the default file
// written on first run.
type settings struct {
	Backend   string `mapstructure:"backend" yaml:"backend"`
	DataDir   string `mapstructure:"data_dir" yaml:"data_dir,omitempty"`
	Sync      string `mapstructure:"sync" yaml:"sync"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
	DayStart  string `mapstructure:"day_start" yaml:"day_start"`
}

// defaultSettings apply to keys missing from config.yaml.
var defaultSettings = settings{
	Backend:   types.BackendSQLite,
	Sync:      types.SyncImmediate,
	LogLevel:  "warn",
	LogFormat: logFormatText,
	DayStart:  "07:00",
}

const configHeader = `# Scatter CLI configuration.
#
# backend:    storage backend (sqlite)
# data_dir:   data directory; --data-dir and SCATTER_DATA_DIR take precedence
# sync:       immediate | on_close
# log_level:  debug | info | warn | error
# log_format: text | json
# day_start:  clock time of the first interval, 24-hour HH:MM

`

// loadSettings reads config.yaml from configDir using Viper. It creates the
// directory and a default config.yaml on first run. SCATTER_* environment
// variables override file values.
func loadSettings(configDir string) (settings, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return settings{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := writeDefaultConfig(configDir); err != nil {
		return settings{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultSettings.Backend)
	v.SetDefault(cfgKeyDataDir, "")
	v.SetDefault(cfgKeySync, defaultSettings.Sync)
	v.SetDefault(cfgKeyLogLevel, defaultSettings.LogLevel)
	v.SetDefault(cfgKeyLogFormat, defaultSettings.LogFormat)
	v.SetDefault(cfgKeyDayStart, defaultSettings.DayStart)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return settings{}, fmt.Errorf("decode config: %w", err)
	}
	return s, nil
}

// writeDefaultConfig creates config.yaml with default values if the file does
// not exist. An existing file is left untouched.
func writeDefaultConfig(configDir string) error {
	path := filepath.Join(configDir, paths.ConfigFileName)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&defaultSettings)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, append([]byte(configHeader), data...), 0o644)
}

// newLogger builds the CLI logger writing to w.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("%w: config %s: %v", types.ErrInvalidData, cfgKeyLogLevel, err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", logFormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case logFormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("%w: config %s: unknown format %q", types.ErrInvalidData, cfgKeyLogFormat, format)
	}
}
