// Package config loads the dump configuration and supplies built-in defaults.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/temirov/projdump/internal/utils"
)

const (
	// DefaultConfigFileName is the configuration file consulted when --config is absent.
	DefaultConfigFileName = "config.json"
	// configFileType pins the viper parser to JSON regardless of file extension.
	configFileType = "json"

	errorStatConfigFormat   = "stat configuration %s: %w"
	errorConfigIsDirFormat  = "configuration path %s is a directory"
	errorReadConfigFormat   = "read configuration from %s: %w"
	errorDecodeConfigFormat = "decode configuration from %s: %w"
)

// Configuration drives the filter policy. All lists are optional in the
// configuration file; absent keys decode to empty sets.
type Configuration struct {
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
	IgnoredDirs       []string `mapstructure:"ignored_dirs"`
	ForceInclude      []string `mapstructure:"force_include"`
	ForceExclude      []string `mapstructure:"force_exclude"`
}

// DefaultConfiguration returns the built-in configuration used when no
// configuration file is present. The value is constructed fresh on every
// call so callers can never mutate shared state.
func DefaultConfiguration() Configuration {
	return Configuration{
		AllowedExtensions: []string{
			".go", ".py", ".js", ".ts", ".rb", ".rs", ".java", ".c", ".h",
			".md", ".txt", ".json", ".yaml", ".yml", ".toml", ".sh",
			"Dockerfile", "Makefile",
		},
		IgnoredDirs: []string{
			utils.GitDirectoryName, "node_modules", "vendor", "dist",
			"build", "target", "__pycache__", ".idea", ".vscode",
		},
	}
}

// LoadConfiguration reads the configuration file at configFilePath.
// A missing file falls back to DefaultConfiguration; a present but
// unreadable or malformed file is a hard error so filtering never degrades
// silently.
func LoadConfiguration(configFilePath string) (Configuration, error) {
	fileInformation, statError := os.Stat(configFilePath)
	if statError != nil {
		if os.IsNotExist(statError) {
			return DefaultConfiguration(), nil
		}
		return Configuration{}, fmt.Errorf(errorStatConfigFormat, configFilePath, statError)
	}
	if fileInformation.IsDir() {
		return Configuration{}, fmt.Errorf(errorConfigIsDirFormat, configFilePath)
	}

	reader := viper.New()
	reader.SetConfigFile(configFilePath)
	reader.SetConfigType(configFileType)
	if readError := reader.ReadInConfig(); readError != nil {
		return Configuration{}, fmt.Errorf(errorReadConfigFormat, configFilePath, readError)
	}

	var configuration Configuration
	if decodeError := reader.Unmarshal(&configuration); decodeError != nil {
		return Configuration{}, fmt.Errorf(errorDecodeConfigFormat, configFilePath, decodeError)
	}

	return normalizeConfiguration(configuration), nil
}

// normalizeConfiguration deduplicates every list while preserving order.
func normalizeConfiguration(configuration Configuration) Configuration {
	configuration.AllowedExtensions = utils.DeduplicateEntries(configuration.AllowedExtensions)
	configuration.IgnoredDirs = utils.DeduplicateEntries(configuration.IgnoredDirs)
	configuration.ForceInclude = utils.DeduplicateEntries(configuration.ForceInclude)
	configuration.ForceExclude = utils.DeduplicateEntries(configuration.ForceExclude)
	return configuration
}
