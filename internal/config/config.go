package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Decode  DecodeConfig  `mapstructure:"decode"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // json or text
	Output     string `mapstructure:"output"` // stdout, stderr, or file path
	MaxSize    int    `mapstructure:"max_size"` // MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Port    int    `mapstructure:"port"`
}

// FilterConfig selects packets and the grouping policy applied to them.
type FilterConfig struct {
	Mode         string `mapstructure:"mode"`     // runs, keyframe, or boundaries
	MinSize      int    `mapstructure:"min_size"` // 0 disables
	MaxSize      int    `mapstructure:"max_size"` // 0 disables
	MinPTS       int64  `mapstructure:"min_pts"`
	MaxPTS       int64  `mapstructure:"max_pts"` // 0 disables
	KeyframeOnly bool   `mapstructure:"keyframe_only"`
}

type DecodeConfig struct {
	DelayDepth int `mapstructure:"delay_depth"` // synthetic decoder buffering depth
	MaxPackets int `mapstructure:"max_packets"` // 0 means unbounded
}

func Load(configPath string) (*Config, error) {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(configPath)

	// Environment variable override
	viper.SetEnvPrefix("FACET")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Defaults
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")
	viper.SetDefault("logging.max_size", 100)
	viper.SetDefault("logging.max_backups", 5)
	viper.SetDefault("logging.max_age", 30)

	// Metrics defaults
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.path", "/metrics")
	viper.SetDefault("metrics.port", 9090)

	// Filter defaults
	viper.SetDefault("filter.mode", "runs")
	viper.SetDefault("filter.min_size", 0)
	viper.SetDefault("filter.max_size", 0)
	viper.SetDefault("filter.min_pts", 0)
	viper.SetDefault("filter.max_pts", 0)
	viper.SetDefault("filter.keyframe_only", false)

	// Decode defaults
	viper.SetDefault("decode.delay_depth", 3)
	viper.SetDefault("decode.max_packets", 0)
}
