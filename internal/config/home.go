package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvConfig names a single configuration file that replaces the search path.
const EnvConfig = "FF_CONFIG"

var configNames = []string{".ff.yaml", ".ff.toml"}

// SearchPaths returns the configuration files to layer, lowest priority first.
// Priority order:
//  1. FF_CONFIG environment variable (if set, it is the only file)
//  2. ~/.ff.yaml, ~/.ff.toml
//  3. ./.ff.yaml, ./.ff.toml
func SearchPaths() ([]string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return []string{p}, nil
	}
	return DefaultPaths()
}

// DefaultPaths lists the per-user files followed by the per-directory files.
// A missing home directory is not an error.
func DefaultPaths() ([]string, error) {
	var paths []string

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		for _, name := range configNames {
			paths = append(paths, filepath.Join(home, name))
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	for _, name := range configNames {
		p := filepath.Join(cwd, name)
		if !contains(paths, p) {
			paths = append(paths, p)
		}
	}

	return paths, nil
}

// UserPath is the file written by "ff config init" without an argument.
func UserPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, configNames[0]), nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
