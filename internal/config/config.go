package config

import (
	"path/filepath"

	"github.com/spf13/viper"

	"speckeeper/internal/env"
	"speckeeper/internal/spec"
)

/**
 * Server configuration parameters
 * @property {string} address - Server listening address (e.g. ":8080")
 * @property {string} mode - Application mode (debug/release/test)
 */
type ServerConfig struct {
	Address string `mapstructure:"address"`
	Mode    string `mapstructure:"mode"`
}

/**
 * Logging configuration
 * @property {string} level - Log level (debug/info/warn/error)
 * @property {string} path - Log file path, "console" for stdout
 */
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

/**
 * Metrics configuration
 * @property {string} pushgateway - Pushgateway address for metrics
 */
type MetricsConfig struct {
	Pushgateway string `mapstructure:"pushgateway"`
}

/**
 * Spec directory configuration
 * @property {string} dir - Watch directory holding *.spec files
 * @property {string} composite_dir - Directory holding composite descriptors
 */
type SpecsConfig struct {
	Dir          string `mapstructure:"dir"`
	CompositeDir string `mapstructure:"composite_dir"`
}

/**
 * Builder defaults applied to load requests that omit them
 * @property {string} url - Builder endpoint
 * @property {string} channel - Release channel
 */
type BldrConfig struct {
	URL     string `mapstructure:"url"`
	Channel string `mapstructure:"channel"`
}

type AppConfig struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Specs   SpecsConfig   `mapstructure:"specs"`
	Bldr    BldrConfig    `mapstructure:"bldr"`
}

/**
 * Load application configuration from YAML file
 */
func LoadConfig() (*AppConfig, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(env.SpeckeeperDir)
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

var Config AppConfig

func collectConfig(cfg *AppConfig) *AppConfig {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8743"
	}
	if cfg.Specs.Dir == "" {
		cfg.Specs.Dir = env.SpecDir()
	}
	if cfg.Specs.CompositeDir == "" {
		cfg.Specs.CompositeDir = filepath.Join(cfg.Specs.Dir, "composites")
	}
	if cfg.Bldr.URL == "" {
		cfg.Bldr.URL = spec.DefaultBldrURL
	}
	if cfg.Bldr.Channel == "" {
		cfg.Bldr.Channel = spec.DefaultChannel
	}
	return cfg
}

/**
 * Reload configuration from disk, replacing the process-wide Config
 * @returns {error} Returns error if the file cannot be read or parsed
 */
func ReloadConfig() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	Config = *cfg
	collectConfig(&Config)
	return nil
}

func init() {
	cfg, err := LoadConfig()
	if err == nil {
		Config = *cfg
	}
	collectConfig(&Config)
}
