package core

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config contains the options that can be overridden through config.yaml or
// the environment. Every option has a usable default so the file is optional.
type Config struct {
	Steam struct {
		// Candidate Steam installation roots, checked in order. A leading "~/"
		// is expanded to the current user's home directory.
		BasePaths []string `mapstructure:"base_paths"`
	} `mapstructure:"steam"`

	Logging struct {
		// Full path to file to which logs will be written. Blank will write to stderr.
		LogFilePath string `mapstructure:"log_file_path"`
		// Minimum level of a log required to be written. Options: debug, info, warn, error
		LogLevel string `mapstructure:"log_level"`
		// Include file:line of the log call site.
		IncludeCaller bool `mapstructure:"include_caller"`
	} `mapstructure:"logging"`
}

const envVarPrefix = "BLSANITY"

// DefaultBasePaths are the places the Linux Steam client is usually installed.
var DefaultBasePaths = []string{
	"~/.steam/steam",
	"~/.local/share/Steam",
}

// LoadConfig reads config.yaml from configPath (if present) on top of the
// defaults, then applies any BLSANITY_* environment overrides.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetDefault("steam.base_paths", DefaultBasePaths)
	v.SetDefault("logging.log_file_path", "")
	v.SetDefault("logging.log_level", "warn")
	v.SetDefault("logging.include_caller", false)

	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envVarPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// This allows us to set nested yaml config options through environment
	// variables. For example, logging.log_level can be set using: <envVarPrefix>_LOGGING_LOG_LEVEL
	for _, k := range v.AllKeys() {
		envVar := strings.ReplaceAll(strings.ToUpper(k), ".", "_")
		if err := v.BindEnv(k, envVarPrefix+"_"+envVar); err != nil {
			return nil, fmt.Errorf("binding %s to %s: %w", k, envVarPrefix+"_"+envVar, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unmarshaling config object: %w", err)
	}
	return config, nil
}

// ExpandedBasePaths returns the configured Steam base paths with "~/"
// replaced by home.
func (c *Config) ExpandedBasePaths(home string) []string {
	paths := make([]string, 0, len(c.Steam.BasePaths))
	for _, p := range c.Steam.BasePaths {
		if p == "~" {
			p = home
		} else if strings.HasPrefix(p, "~/") {
			p = filepath.Join(home, p[2:])
		}
		paths = append(paths, p)
	}
	return paths
}
