package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// configFileName defines the configuration file name used in tests.
const configFileName = "config.json"

// writeTestFile creates a file with the specified content, failing the test on error.
func writeTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

// TestLoadConfigurationMissingFileUsesDefaults verifies that a missing
// configuration file falls back to the built-in defaults.
func TestLoadConfigurationMissingFileUsesDefaults(testingHandle *testing.T) {
	missingPath := filepath.Join(testingHandle.TempDir(), configFileName)

	configuration, loadError := LoadConfiguration(missingPath)
	if loadError != nil {
		testingHandle.Fatalf("LoadConfiguration failed for missing file: %v", loadError)
	}

	if !reflect.DeepEqual(configuration, DefaultConfiguration()) {
		testingHandle.Fatalf("expected default configuration, got %+v", configuration)
	}
}

// TestLoadConfigurationOmittedKeysAreEmpty verifies that force lists omitted
// from the file decode to empty sets without error.
func TestLoadConfigurationOmittedKeysAreEmpty(testingHandle *testing.T) {
	configPath := filepath.Join(testingHandle.TempDir(), configFileName)
	writeTestFile(testingHandle, configPath, `{"allowed_extensions": [".py"], "ignored_dirs": ["node_modules"]}`)

	configuration, loadError := LoadConfiguration(configPath)
	if loadError != nil {
		testingHandle.Fatalf("LoadConfiguration failed: %v", loadError)
	}

	if !reflect.DeepEqual(configuration.AllowedExtensions, []string{".py"}) {
		testingHandle.Fatalf("unexpected allowed extensions: %v", configuration.AllowedExtensions)
	}
	if !reflect.DeepEqual(configuration.IgnoredDirs, []string{"node_modules"}) {
		testingHandle.Fatalf("unexpected ignored dirs: %v", configuration.IgnoredDirs)
	}
	if len(configuration.ForceInclude) != 0 {
		testingHandle.Fatalf("expected empty force_include, got %v", configuration.ForceInclude)
	}
	if len(configuration.ForceExclude) != 0 {
		testingHandle.Fatalf("expected empty force_exclude, got %v", configuration.ForceExclude)
	}
}

// TestLoadConfigurationMalformedFileFails verifies the fail-fast policy for
// malformed configuration files.
func TestLoadConfigurationMalformedFileFails(testingHandle *testing.T) {
	configPath := filepath.Join(testingHandle.TempDir(), configFileName)
	writeTestFile(testingHandle, configPath, `{"allowed_extensions": [`)

	if _, loadError := LoadConfiguration(configPath); loadError == nil {
		testingHandle.Fatalf("expected error for malformed configuration file")
	}
}

// TestLoadConfigurationDirectoryPathFails verifies that pointing --config at
// a directory is rejected.
func TestLoadConfigurationDirectoryPathFails(testingHandle *testing.T) {
	if _, loadError := LoadConfiguration(testingHandle.TempDir()); loadError == nil {
		testingHandle.Fatalf("expected error for configuration path that is a directory")
	}
}

// TestLoadConfigurationDeduplicatesLists verifies that duplicate entries are
// removed while the original order is preserved.
func TestLoadConfigurationDeduplicatesLists(testingHandle *testing.T) {
	configPath := filepath.Join(testingHandle.TempDir(), configFileName)
	writeTestFile(testingHandle, configPath, `{"allowed_extensions": [".py", ".go", ".py"], "force_exclude": ["data/", "data/"]}`)

	configuration, loadError := LoadConfiguration(configPath)
	if loadError != nil {
		testingHandle.Fatalf("LoadConfiguration failed: %v", loadError)
	}

	if !reflect.DeepEqual(configuration.AllowedExtensions, []string{".py", ".go"}) {
		testingHandle.Fatalf("unexpected allowed extensions: %v", configuration.AllowedExtensions)
	}
	if !reflect.DeepEqual(configuration.ForceExclude, []string{"data/"}) {
		testingHandle.Fatalf("unexpected force_exclude: %v", configuration.ForceExclude)
	}
}
