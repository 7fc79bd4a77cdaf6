// Package config loads the playground configuration from defaults, an
// optional TOML file and FMTPLAY_ environment variables.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/fmt-playground/errors"
)

// EnvPrefix prefixes every environment override; FMTPLAY_CONFIG names the
// config file.
const EnvPrefix = "FMTPLAY"

// Config holds application configuration.
type Config struct {
	Assets     AssetsConfig     `mapstructure:"assets"`
	Playground PlaygroundConfig `mapstructure:"playground"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Log        LogConfig        `mapstructure:"log"`
	Serve      ServeConfig      `mapstructure:"serve"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// AssetsConfig says where engine modules and samples come from. An empty
// URL selects the builtin engines and the embedded samples.
type AssetsConfig struct {
	URL        string `mapstructure:"url"`
	S3Region   string `mapstructure:"s3_region"`
	S3Endpoint string `mapstructure:"s3_endpoint"`
}

// PlaygroundConfig holds controller settings.
type PlaygroundConfig struct {
	Debounce      time.Duration `mapstructure:"debounce"`
	DefaultSample string        `mapstructure:"default_sample"`
	ShareBase     string        `mapstructure:"share_base"`
}

// CacheConfig sizes the engine module cache.
type CacheConfig struct {
	Modules int `mapstructure:"modules"`
}

// LogConfig holds logging settings. An empty File discards logs.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// ServeConfig holds asset server settings.
type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

// MetricsConfig holds the metrics listener of the interactive playground.
// An empty Addr disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("assets.url", "")
	v.SetDefault("assets.s3_region", "us-east-1")
	v.SetDefault("assets.s3_endpoint", "")
	v.SetDefault("playground.debounce", "200ms")
	v.SetDefault("playground.default_sample", "simple.pas")
	v.SetDefault("playground.share_base", "https://play.fmtplay.dev/")
	v.SetDefault("cache.modules", 4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("serve.addr", "127.0.0.1:8080")
	v.SetDefault("metrics.addr", "")
}

// Load reads configuration from file and env. A missing default config
// file is not an error; a missing file named by FMTPLAY_CONFIG is.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	cfgPath := os.Getenv(EnvPrefix + "_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "fmtplay"))
		}
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !stderrors.As(err, &notFound) {
			return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "read config file")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "unmarshal config")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if c.Playground.Debounce < 0 {
		errs = append(errs, invalid("playground.debounce", fmt.Sprintf("must not be negative, got %s", c.Playground.Debounce)))
	}
	if c.Cache.Modules < 1 {
		errs = append(errs, invalid("cache.modules", fmt.Sprintf("must be at least 1, got %d", c.Cache.Modules)))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, invalid("log.level", err.Error()))
	}
	return stderrors.Join(errs...)
}

// ZapLevel returns the parsed log level, info when it does not parse.
func (c LogConfig) ZapLevel() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

func invalid(key, detail string) error {
	return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Path(key).
		Detail(detail).
		Build()
}
