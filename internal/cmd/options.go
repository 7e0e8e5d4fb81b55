package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/harrison/ff/internal/config"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables that override configuration
// keys, e.g. FF_DEPTH or FF_PATH_SEARCH.
const EnvPrefix = "FF"

// flagKeys maps command line flags to the configuration keys they override.
var flagKeys = map[string]string{
	"print0":      "print0",
	"ignorecase":  "ignorecase",
	"smartcase":   "smartcase",
	"regexp":      "regexp",
	"fuzzy":       "fuzzy",
	"depth":       "depth",
	"path-search": "path_search",
	"mode":        "mode",
	"prefix":      "prefix",
	"vcs":         "include_vcs",
	"log-level":   "log_level",
}

// loadBaseConfig reads the file named by --config, or layers the default
// search path when the flag is empty.
func loadBaseConfig(flags *pflag.FlagSet) (*config.Config, []string, error) {
	path, _ := flags.GetString("config")
	if path != "" {
		cfg, err := config.LoadConfig(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
		return cfg, []string{path}, nil
	}

	paths, err := config.SearchPaths()
	if err != nil {
		return nil, nil, err
	}
	cfg, loaded, err := config.LoadConfigs(paths...)
	if err != nil {
		return nil, loaded, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, loaded, nil
}

// resolveConfig layers changed flags and FF_* environment variables over
// base. Flags win over the environment, which wins over files and defaults.
func resolveConfig(flags *pflag.FlagSet, base *config.Config) (*config.Config, error) {
	data, err := base.Marshal(config.FormatYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}

	v := viper.New()
	v.SetConfigType(config.FormatYAML)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	r := &reader{v: v}
	cfg := &config.Config{
		IgnoreCase:    r.getBool("ignorecase"),
		SmartCase:     r.getBool("smartcase"),
		Print0:        r.getBool("print0"),
		Depth:         r.getInt("depth"),
		Mode:          r.getString("mode"),
		Regexp:        r.getBool("regexp"),
		Fuzzy:         r.getBool("fuzzy"),
		PathSearch:    r.getBool("path_search"),
		Prefix:        r.getBool("prefix"),
		PrefixDirs:    r.getString("prefix_dirs"),
		PrefixFiles:   r.getString("prefix_files"),
		Colorize:      r.getBool("colorize"),
		IncludeVCS:    r.getBool("include_vcs"),
		LogLevel:      r.getString("log_level"),
		ExcludedPaths: r.getStrings("excluded_paths"),
	}
	if r.err != nil {
		return nil, r.err
	}

	// A dialect chosen on the command line replaces the configured one.
	regexpSet, fuzzySet := flags.Changed("regexp"), flags.Changed("fuzzy")
	if regexpSet && !fuzzySet && cfg.Regexp {
		cfg.Fuzzy = false
	}
	if fuzzySet && !regexpSet && cfg.Fuzzy {
		cfg.Regexp = false
	}

	if noColor, err := flags.GetBool("no-colorize"); err == nil && noColor {
		cfg.Colorize = false
	}

	if extra, err := flags.GetStringArray("exclude-path"); err == nil {
		cfg.ExcludedPaths = append(cfg.ExcludedPaths, extra...)
	}
	if cfg.ExcludedPaths == nil {
		cfg.ExcludedPaths = []string{}
	}

	return cfg, nil
}

// reader converts resolved values and keeps the first conversion error.
type reader struct {
	v   *viper.Viper
	err error
}

func (r *reader) fail(key string, err error) {
	if r.err == nil {
		r.err = usageErrorf("invalid value %q for %s (%s_%s): %v",
			fmt.Sprint(r.v.Get(key)), key, EnvPrefix, strings.ToUpper(key), err)
	}
}

func (r *reader) getBool(key string) bool {
	b, err := cast.ToBoolE(r.v.Get(key))
	if err != nil {
		r.fail(key, err)
	}
	return b
}

func (r *reader) getInt(key string) int {
	n, err := cast.ToIntE(r.v.Get(key))
	if err != nil {
		r.fail(key, err)
	}
	return n
}

func (r *reader) getString(key string) string {
	s, err := cast.ToStringE(r.v.Get(key))
	if err != nil {
		r.fail(key, err)
	}
	return s
}

func (r *reader) getStrings(key string) []string {
	raw := r.v.Get(key)
	if raw == nil {
		return nil
	}
	list, err := cast.ToStringSliceE(raw)
	if err != nil {
		r.fail(key, err)
	}
	return list
}
