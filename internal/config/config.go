// Package config loads pioneerctl settings from defaults, an optional YAML
// file and PIONEERKIT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/joshuapare/pioneerkit/anlz"
	"github.com/joshuapare/pioneerkit/internal/logger"
	"github.com/joshuapare/pioneerkit/pdb"
)

// Keys shared with the command line flag bindings.
const (
	KeyLogLevel    = "log.level"
	KeyLogJSON     = "log.json"
	KeyLogDir      = "log.dir"
	KeyWorkers     = "export.workers"
	KeyPageSize    = "export.page_size"
	KeyVerify      = "export.verify"
	KeySettings    = "export.settings"
	KeyFFmpeg      = "export.ffmpeg"
	KeyUnknownTags = "anlz.unknown_tags"
)

// Config holds the resolved settings.
type Config struct {
	LogLevel    slog.Level
	LogJSON     bool
	LogDir      string
	Workers     int
	PageSize    int
	Verify      bool
	Settings    bool
	FFmpeg      string
	UnknownTags anlz.UnknownTagPolicy
}

// New returns a viper instance carrying the defaults and environment
// binding. Callers may bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogJSON, false)
	v.SetDefault(KeyLogDir, "")
	v.SetDefault(KeyWorkers, runtime.NumCPU())
	v.SetDefault(KeyPageSize, pdb.DefaultPageSize)
	v.SetDefault(KeyVerify, false)
	v.SetDefault(KeySettings, true)
	v.SetDefault(KeyFFmpeg, "")
	v.SetDefault(KeyUnknownTags, "skip")

	v.SetEnvPrefix("PIONEERKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads file (when non-empty, or pioneerkit.yaml from the working
// directory otherwise) into v and resolves the typed Config.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("pioneerkit")
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &nf) {
			return nil, fmt.Errorf("config: %w", err)
		}
	} else {
		logger.Debug("config loaded", "file", v.ConfigFileUsed())
	}

	level, err := logger.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	policy, err := anlz.ParseUnknownTagPolicy(v.GetString(KeyUnknownTags))
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	c := &Config{
		LogLevel:    level,
		LogJSON:     v.GetBool(KeyLogJSON),
		LogDir:      v.GetString(KeyLogDir),
		Workers:     v.GetInt(KeyWorkers),
		PageSize:    v.GetInt(KeyPageSize),
		Verify:      v.GetBool(KeyVerify),
		Settings:    v.GetBool(KeySettings),
		FFmpeg:      v.GetString(KeyFFmpeg),
		UnknownTags: policy,
	}
	if c.Workers < 1 {
		return nil, fmt.Errorf("config: %s must be positive, got %d", KeyWorkers, c.Workers)
	}
	return c, nil
}
