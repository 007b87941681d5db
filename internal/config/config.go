package config

import (
	"errors"
	"path/filepath"
	"strings"

	"toolkit-keeper/internal/env"

	"github.com/samber/oops"
	"github.com/spf13/viper"
)

const logDomain = "config"

/**
 * Server configuration parameters
 * @property {string} address - TCP listening address (e.g. "127.0.0.1:8999")
 * @property {string} socket - Unix socket path, empty to disable
 * @property {string} mode - Gin mode (debug/release/test)
 */
type ServerConfig struct {
	Address string `mapstructure:"address"`
	Socket  string `mapstructure:"socket"`
	Mode    string `mapstructure:"mode"`
}

/**
 * Logging configuration
 * @property {string} level - Log level (debug/info/warn/error)
 * @property {string} path - Log file path
 */
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

/**
 * Metrics configuration
 * @property {bool} enabled - Expose prometheus metrics
 * @property {string} path - HTTP path of the metrics endpoint
 */
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

/**
 * Frame clock configuration
 * @property {int} rate - Update/LateUpdate ticks per second
 * @property {int} fixed_rate - FixedUpdate ticks per second
 */
type FrameConfig struct {
	Rate      int `mapstructure:"rate"`
	FixedRate int `mapstructure:"fixed_rate"`
}

/**
 * Runtime environment the platform catalog evaluates against
 * @property {bool} editor - Run as the authoring environment
 * @property {string} build_target - Platform the authoring environment targets
 * @property {string} profile - Path of the toolkit profile
 * @property {bool} watch - Reset the runtime when the profile file changes
 */
type RuntimeConfig struct {
	Editor      bool   `mapstructure:"editor"`
	BuildTarget string `mapstructure:"build_target"`
	Profile     string `mapstructure:"profile"`
	Watch       bool   `mapstructure:"watch"`
}

type AppConfig struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Frame   FrameConfig   `mapstructure:"frame"`
	Runtime RuntimeConfig `mapstructure:"runtime"`
}

var Config AppConfig = *collectConfig(&AppConfig{Metrics: MetricsConfig{Enabled: true}})

/**
 * Load application configuration
 * @param {string} path - Explicit config file, empty searches "." and the keeper directory
 * @returns {*AppConfig} Loaded configuration with defaults applied
 * @returns {error} Read or decode error; a missing default file is not an error
 * @description
 * - Environment variables prefixed TOOLKIT_KEEPER_ override file values
 */
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("TOOLKIT_KEEPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("metrics.enabled", true)
	bindKeys(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(env.KeeperDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, oops.In(logDomain).With("path", path).Wrapf(err, "failed to read config")
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, oops.In(logDomain).Wrapf(err, "failed to decode config")
	}
	return collectConfig(&cfg), nil
}

// Init loads the configuration into Config.
func Init(path string) error {
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	Config = *cfg
	return nil
}

// bindKeys makes env-only values visible to Unmarshal.
func bindKeys(v *viper.Viper) {
	for _, key := range []string{
		"server.address", "server.socket", "server.mode",
		"log.level", "log.path",
		"metrics.enabled", "metrics.path",
		"frame.rate", "frame.fixed_rate",
		"runtime.editor", "runtime.build_target", "runtime.profile", "runtime.watch",
	} {
		_ = v.BindEnv(key)
	}
}

func collectConfig(cfg *AppConfig) *AppConfig {
	if cfg.Server.Address == "" {
		cfg.Server.Address = "127.0.0.1:8999"
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Frame.Rate <= 0 {
		cfg.Frame.Rate = 60
	}
	if cfg.Frame.FixedRate <= 0 {
		cfg.Frame.FixedRate = 50
	}
	if cfg.Runtime.Profile == "" {
		cfg.Runtime.Profile = filepath.Join(env.KeeperDir, "profile.yaml")
	}
	return cfg
}
