// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"github.com/stratastor/logger"
	"github.com/stratastor/vole/internal/constants"
	"gopkg.in/yaml.v3"
)

var (
	instance   *Config
	once       sync.Once
	configPath string // Tracks where the config was loaded from
)

type Config struct {
	ZFS struct {
		ZpoolPath string `mapstructure:"zpoolPath"`
		ZFSPath   string `mapstructure:"zfsPath"`
		UseSudo   bool   `mapstructure:"useSudo"`
		// CommandPrefix is a wrapper command line prepended to every zfs and
		// zpool invocation, e.g. "nice -n 19".
		CommandPrefix  string `mapstructure:"commandPrefix"`
		CommandTimeout string `mapstructure:"commandTimeout"`
	} `mapstructure:"zfs"`

	Kstat struct {
		Root string `mapstructure:"root"`
	} `mapstructure:"kstat"`

	Pipeline struct {
		URL     string `mapstructure:"url"`     // Monitoring pipeline ingest endpoint
		Token   string `mapstructure:"token"`   // Bearer token, empty for none
		Timeout string `mapstructure:"timeout"` // Delivery timeout
	} `mapstructure:"pipeline"`

	Logger struct {
		LogLevel     string `mapstructure:"logLevel"`
		EnableSentry bool   `mapstructure:"enableSentry"`
		SentryDSN    string `mapstructure:"sentryDSN"`
	} `mapstructure:"logger"`

	Environment string `mapstructure:"environment"`
}

// LoadConfig loads the configuration with precedence rules.
func LoadConfig(configFilePath string) *Config {
	once.Do(func() {
		// Setup basic logger for initialization
		logConfig := logger.Config{
			LogLevel:     "info",
			EnableSentry: false,
			SentryDSN:    "",
		}
		l, err := logger.NewTag(logConfig, "config")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}

		// Reset viper to avoid any potential carryover
		viper.Reset()
		viper.SetConfigType("yaml")

		// Determine which config file to use with clear priorities
		systemConfigPath := filepath.Join(GetConfigDir(), constants.ConfigFileName)

		if configFilePath != "" {
			// 1. Priority: Explicit path from command line
			configPath = configFilePath
		} else if envPath := os.Getenv("VOLE_CONFIG"); envPath != "" {
			// 2. Priority: Environment variable
			configPath = envPath
		} else {
			// 3. Priority: Always default to system-wide config
			configPath = systemConfigPath
		}

		// Convert to absolute path if possible for consistency
		absPath, err := filepath.Abs(configPath)
		if err == nil {
			configPath = absPath
		}

		// Set config file path for viper
		viper.SetConfigFile(configPath)

		// Set defaults
		viper.SetDefault("environment", "prod")
		viper.SetDefault("zfs.zpoolPath", "/sbin/zpool")
		viper.SetDefault("zfs.zfsPath", "/sbin/zfs")
		viper.SetDefault("zfs.useSudo", false)
		viper.SetDefault("zfs.commandPrefix", "")
		viper.SetDefault("zfs.commandTimeout", "30s")
		viper.SetDefault("kstat.root", "/proc/spl")
		viper.SetDefault("pipeline.url", "")
		viper.SetDefault("pipeline.token", "")
		viper.SetDefault("pipeline.timeout", "15s")
		viper.SetDefault("logger.logLevel", "info")
		viper.SetDefault("logger.enableSentry", false)
		viper.SetDefault("logger.sentryDSN", "")

		// Bind environment variables
		viper.AutomaticEnv()
		viper.SetEnvPrefix("VOLE")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

		// Try to read the config file
		err = viper.ReadInConfig()

		// Handle missing or invalid config
		if err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				if os.IsNotExist(err) {
					// Missing config is normal for a collector; run on defaults.
					l.Debug("Config file not found, using defaults", "path", configPath)
				} else {
					l.Error("Error reading config file", "err", err)
				}
			}

			var cfg Config
			if err := viper.Unmarshal(&cfg); err != nil {
				l.Error("Failed to unmarshal default configuration", "err", err)
			}
			instance = &cfg
		} else {
			// Successfully loaded config
			l.Debug("Config file loaded", "path", viper.ConfigFileUsed())
			configPath = viper.ConfigFileUsed()

			var cfg Config
			if err := viper.Unmarshal(&cfg); err != nil {
				l.Error("Failed to parse configuration", "err", err)
			} else {
				instance = &cfg
			}
		}
	})

	return instance
}

// SaveConfig persists the current configuration to a specified path.
func SaveConfig(path string) error {
	if path == "" {
		path = filepath.Join(GetConfigDir(), constants.ConfigFileName)
	}

	// Create parent directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Save configuration
	configYAML, err := yaml.Marshal(instance)
	if err != nil {
		return fmt.Errorf("failed to serialize configuration: %w", err)
	}

	if err := os.WriteFile(path, configYAML, 0644); err != nil {
		return fmt.Errorf("failed to write configuration to file: %w", err)
	}

	// Update the tracked config path
	configPath = path

	return nil
}

// GetLoadedConfigPath returns the path of the currently loaded configuration file.
func GetLoadedConfigPath() string {
	return configPath
}

// GetConfig returns the current configuration instance.
func GetConfig() *Config {
	if instance == nil {
		return LoadConfig("")
	}
	return instance
}

func NewLoggerConfig(cfg *Config) logger.Config {
	if cfg == nil {
		return logger.Config{
			LogLevel:     "info",
			EnableSentry: false,
			SentryDSN:    "",
		}
	}

	return logger.Config{
		LogLevel:     cfg.Logger.LogLevel,
		EnableSentry: cfg.Logger.EnableSentry,
		SentryDSN:    cfg.Logger.SentryDSN,
	}
}
