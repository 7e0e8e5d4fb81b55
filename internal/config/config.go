package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/harrison/ff/internal/filelock"
	"github.com/harrison/ff/internal/logger"
	"github.com/harrison/ff/internal/scanner"
	"gopkg.in/yaml.v3"
)

// ErrConfigExists is returned by Save when the target exists and overwrite
// was not requested.
var ErrConfigExists = errors.New("config file already exists")

// Supported file formats.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Config holds the persistent defaults of ff. Command line flags and FF_*
// environment variables take precedence over these values.
type Config struct {
	// IgnoreCase makes every pattern case-insensitive
	IgnoreCase bool `yaml:"ignorecase" toml:"ignorecase"`

	// SmartCase ignores case only when the pattern has no upper-case letter
	SmartCase bool `yaml:"smartcase" toml:"smartcase"`

	// Print0 separates results with NUL instead of newline
	Print0 bool `yaml:"print0" toml:"print0"`

	// Depth limits how deep below a source ff descends (-1 = unlimited)
	Depth int `yaml:"depth" toml:"depth"`

	// Mode is one of files, dirs or all
	Mode string `yaml:"mode" toml:"mode"`

	// Regexp and Fuzzy select the default dialect; both false means glob
	Regexp bool `yaml:"regexp" toml:"regexp"`
	Fuzzy  bool `yaml:"fuzzy" toml:"fuzzy"`

	// PathSearch matches patterns against the full path
	PathSearch bool `yaml:"path_search" toml:"path_search"`

	// Prefix marks each result with PrefixDirs or PrefixFiles
	Prefix      bool   `yaml:"prefix" toml:"prefix"`
	PrefixDirs  string `yaml:"prefix_dirs" toml:"prefix_dirs"`
	PrefixFiles string `yaml:"prefix_files" toml:"prefix_files"`

	// Colorize highlights matched text on terminals
	Colorize bool `yaml:"colorize" toml:"colorize"`

	// IncludeVCS descends into .git, .svn and similar directories
	IncludeVCS bool `yaml:"include_vcs" toml:"include_vcs"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level" toml:"log_level"`

	// ExcludedPaths are never reported nor descended into
	ExcludedPaths []string `yaml:"excluded_paths" toml:"excluded_paths"`
}

// DefaultConfig returns a Config with the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Depth:         -1,
		Mode:          "all",
		PrefixDirs:    "d: ",
		PrefixFiles:   "f: ",
		Colorize:      true,
		LogLevel:      "warn",
		ExcludedPaths: []string{},
	}
}

// FormatFor picks the file format from the extension of path.
func FormatFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := cfg.merge(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigs layers the given files over the defaults in order, so later
// files win. Missing files are skipped. The paths actually read are returned.
func LoadConfigs(paths ...string) (*Config, []string, error) {
	cfg := DefaultConfig()
	var loaded []string
	for _, p := range paths {
		ok, err := cfg.merge(p)
		if err != nil {
			return nil, loaded, err
		}
		if ok {
			loaded = append(loaded, p)
		}
	}
	return cfg, loaded, nil
}

// merge decodes path over c. Keys absent from the file keep their values,
// except excluded_paths, which is appended to the entries already held.
func (c *Config) merge(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}

	excluded := c.ExcludedPaths
	c.ExcludedPaths = nil
	defer func() { c.ExcludedPaths = append(excluded, c.ExcludedPaths...) }()

	switch FormatFor(path) {
	case FormatTOML:
		md, err := toml.Decode(string(data), c)
		if err != nil {
			return false, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return false, fmt.Errorf("failed to parse config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	return true, nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Depth < -1 {
		return fmt.Errorf("depth must be >= -1, got %d", c.Depth)
	}

	if _, err := scanner.ParseMode(c.Mode); err != nil {
		return err
	}

	if c.Regexp && c.Fuzzy {
		return fmt.Errorf("regexp and fuzzy cannot both be enabled")
	}

	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	return nil
}

// Marshal renders c in the given format.
func (c *Config) Marshal(format string) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(c)
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown config format %q", format)
	}
}

// Save writes c to path in the format implied by its extension. The write is
// locked and atomic. An existing file is only replaced when overwrite is set.
func (c *Config) Save(path string, overwrite bool) error {
	data, err := c.Marshal(FormatFor(path))
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return filelock.WithLock(path, filelock.DefaultTimeout, func() error {
		if !overwrite {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%w: %s", ErrConfigExists, path)
			}
		}
		return filelock.AtomicWrite(path, data, 0644)
	})
}
