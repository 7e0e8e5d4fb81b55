package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/harrison/ff/internal/config"
	"github.com/harrison/ff/internal/display"
	"github.com/harrison/ff/internal/logger"
	"github.com/harrison/ff/internal/pattern"
	"github.com/harrison/ff/internal/plugin"
	"github.com/harrison/ff/internal/scanner"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// runSearch implements the root command: resolve options, scan, print.
func runSearch(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	base, loaded, err := loadBaseConfig(flags)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(flags, base)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return &usageError{err: fmt.Errorf("invalid configuration: %w", err)}
	}

	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	for _, p := range loaded {
		log.LogInfo("loaded config " + p)
	}

	raw, positional, magic, err := splitArgs(flags, args)
	if err != nil {
		return err
	}

	pat, err := buildPattern(flags, cfg, raw, magic)
	if err != nil {
		return err
	}
	log.LogTrace(fmt.Sprintf("pattern %q compiled as %s: %s", pat.Raw(), pat.Mode(), pat.String()))

	fs := afero.NewOsFs()

	extra, _ := flags.GetStringArray("source")
	sources, err := resolveSources(fs, append(extra, positional...))
	if err != nil {
		return err
	}

	excluded, err := resolveExcluded(cfg.ExcludedPaths)
	if err != nil {
		return err
	}

	mode, err := scanner.ParseMode(cfg.Mode)
	if err != nil {
		return &usageError{err: err}
	}

	registry, err := plugin.NewRegistry(plugin.Builtin()...)
	if err != nil {
		return err
	}
	tests, _ := flags.GetStringArray("test")
	chain, err := registry.LoadAll(tests, plugin.Env{Fs: fs})
	if err != nil {
		return err
	}
	if len(chain) > 0 {
		log.LogDebug("plugins: " + strings.Join(chain.Names(), ", "))
	}

	s, err := scanner.New(fs, scanner.Config{
		Sources:       sources,
		Depth:         cfg.Depth,
		ExcludedPaths: excluded,
		IncludeVCS:    cfg.IncludeVCS,
		Mode:          mode,
		Pattern:       pat,
		Plugins:       chain,
	}, scanner.WithLogger(log))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printer := display.NewPrinter(out, fs, pat, display.Options{
		Print0:      cfg.Print0,
		Prefix:      cfg.Prefix,
		PrefixDirs:  cfg.PrefixDirs,
		PrefixFiles: cfg.PrefixFiles,
		Highlight:   display.ShouldHighlight(out, cfg.Colorize, pat),
	})

	found := 0
	for path, err := range s.All(cmd.Context()) {
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				log.LogError(fmt.Sprintf("search aborted after %d results", found))
			}
			return err
		}
		if err := printer.Print(path); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		found++
	}
	log.LogDebug(fmt.Sprintf("%d results", found))
	return nil
}

// splitArgs separates the pattern from the positional sources. With -p the
// flag value is the pattern, taken literally, and every argument is a source.
func splitArgs(flags *pflag.FlagSet, args []string) (raw string, sources []string, magic bool, err error) {
	if flags.Changed("pattern") {
		raw, _ = flags.GetString("pattern")
		sources = args
	} else if len(args) > 0 {
		raw, sources, magic = args[0], args[1:], true
	}

	if raw == "" {
		return "", nil, false, usageErrorf("a pattern is required (positional or -p/--pattern)")
	}
	return raw, sources, magic, nil
}

func buildPattern(flags *pflag.FlagSet, cfg *config.Config, raw string, magic bool) (*pattern.Pattern, error) {
	mode := pattern.ModeGlob
	switch {
	case cfg.Regexp:
		mode = pattern.ModeRegex
	case cfg.Fuzzy:
		mode = pattern.ModeFuzzy
	}

	f := pattern.Flags{
		IgnoreCase: cfg.IgnoreCase || (cfg.SmartCase && !hasUpper(raw)),
		PathSearch: cfg.PathSearch,
	}
	f.InvertMatch, _ = flags.GetBool("invert-match")
	f.AnchorBegin, _ = flags.GetBool("begin")
	f.AnchorEnd, _ = flags.GetBool("end")
	f.Multiline, _ = flags.GetBool("regex-multiline")
	f.DotAll, _ = flags.GetBool("regex-dotall")

	return pattern.NewBuilder(raw).
		WithMode(mode).
		WithFlags(f).
		WithMagic(magic).
		Compile()
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// resolveSources makes every source absolute and normalized. No source means
// the working directory.
func resolveSources(fs afero.Fs, sources []string) ([]string, error) {
	if len(sources) == 0 {
		sources = []string{"."}
	}

	out := make([]string, 0, len(sources))
	for _, src := range sources {
		if ok, _ := afero.IsDir(fs, src); !ok {
			return nil, usageErrorf("source %s doesn't exist or is not a directory", src)
		}
		abs, err := filepath.Abs(src)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", src, err)
		}
		out = append(out, scanner.NormalizePath(abs))
	}
	return out, nil
}

func resolveExcluded(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(scanner.NormalizePath(p))
		if err != nil {
			return nil, fmt.Errorf("excluded path %s: %w", p, err)
		}
		out = append(out, scanner.NormalizePath(abs))
	}
	return out, nil
}
