package config

import (
	"fmt"
	"strings"

	internal "github.com/treescope/treescope/tscope"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	TargetDir string       `mapstructure:"targetDir"`
	Scan      ScanConfig   `mapstructure:"scan"`
	Layout    LayoutConfig `mapstructure:"layout"`
	UI        UIConfig     `mapstructure:"ui"`
}

// ScanConfig stores scanner related configurations.
type ScanConfig struct {
	MaxDepth       int    `mapstructure:"maxDepth"`
	FollowSymlinks bool   `mapstructure:"followSymlinks"`
	Workers        int    `mapstructure:"workers"`
	IgnoreFile     string `mapstructure:"ignoreFile"`
}

// LayoutConfig stores layout related configurations.
type LayoutConfig struct {
	WeightStep float64 `mapstructure:"weightStep"`
	MinWeight  float64 `mapstructure:"minWeight"`
}

// UIConfig stores terminal UI related configurations.
type UIConfig struct {
	ShowStatusBar bool `mapstructure:"showStatusBar"`
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath(internal.DefaultConfigPath)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Set default values
	viper.SetDefault("targetDir", ".")
	viper.SetDefault("scan.maxDepth", -1)
	viper.SetDefault("scan.followSymlinks", false)
	viper.SetDefault("scan.workers", 0)
	viper.SetDefault("scan.ignoreFile", internal.DefaultIgnoreFile)
	viper.SetDefault("layout.weightStep", internal.DefaultWeightStep)
	viper.SetDefault("layout.minWeight", internal.DefaultMinWeight)
	viper.SetDefault("ui.showStatusBar", true)

	viper.AutomaticEnv()                                   // Read in environment variables that match
	viper.SetEnvPrefix(strings.ToUpper(internal.DefaultAppName))
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // e.g. scan.maxDepth becomes TREESCOPE_SCAN_MAXDEPTH

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; defaults will be used.
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validate(&AppConfig); err != nil {
		return nil, err
	}

	return &AppConfig, nil
}

func validate(cfg *Config) error {
	if cfg.Layout.WeightStep <= 1 {
		return fmt.Errorf("layout.weightStep must be greater than 1, got %g", cfg.Layout.WeightStep)
	}
	if cfg.Layout.MinWeight <= 0 {
		return fmt.Errorf("layout.minWeight must be positive, got %g", cfg.Layout.MinWeight)
	}
	return nil
}
