package scanner

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"

	"github.com/harrison/ff/internal/logger"
	"github.com/harrison/ff/internal/pattern"
	"github.com/harrison/ff/internal/plugin"
	"github.com/spf13/afero"
)

var (
	// ErrNoPattern is returned by New when the config has no compiled pattern.
	ErrNoPattern = errors.New("no pattern")
	// ErrNoSources is returned by New when the config lists no source roots.
	ErrNoSources = errors.New("no sources")
)

// Logger is the subset of the console logger the scanner reports to.
type Logger interface {
	LogDebug(message string)
	LogWarn(message string)
}

// Config describes one scan. It is not modified by the scanner.
type Config struct {
	// Sources are the roots to walk, in order. Each must be a directory.
	Sources []string
	// Depth limits how far below a source directories are visited. The
	// source itself is depth 0. A negative value means no limit.
	Depth int
	// ExcludedPaths are skipped together with everything below them.
	ExcludedPaths []string
	// IncludeVCS disables skipping of version control directories.
	IncludeVCS bool
	Mode       Mode
	Pattern    *pattern.Pattern
	Plugins    plugin.Chain
}

// Scanner walks the configured sources and yields matching paths.
type Scanner struct {
	fs       afero.Fs
	cfg      Config
	sources  []string
	excluded []string
	log      Logger
}

// Option customizes a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger used for skipped entries and unreadable
// directories.
func WithLogger(l Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.log = l
		}
	}
}

// New validates cfg against fs and prepares a scanner.
func New(fs afero.Fs, cfg Config, opts ...Option) (*Scanner, error) {
	if cfg.Pattern == nil {
		return nil, ErrNoPattern
	}
	if !cfg.Mode.valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMode, cfg.Mode)
	}
	if len(cfg.Sources) == 0 {
		return nil, ErrNoSources
	}

	s := &Scanner{
		fs:  fs,
		cfg: cfg,
		log: logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, src := range cfg.Sources {
		src = filepath.Clean(src)
		ok, err := afero.IsDir(fs, src)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", src, err)
		}
		if !ok {
			return nil, fmt.Errorf("source %s: not a directory", src)
		}
		s.sources = append(s.sources, src)
	}

	for _, ex := range cfg.ExcludedPaths {
		s.excluded = append(s.excluded, NormalizePath(ex))
	}

	return s, nil
}

// Match applies the pattern, invert flag and plugin chain to an already
// normalized path.
func (s *Scanner) Match(path string) (bool, error) {
	flags := s.cfg.Pattern.Flags()

	subject := path
	if !flags.PathSearch {
		subject = filepath.Base(path)
	}

	if s.cfg.Pattern.MatchString(subject) == flags.InvertMatch {
		return false, nil
	}
	return s.cfg.Plugins.Accept(path)
}

// All returns a lazy sequence of matching paths. Every call starts a fresh
// walk. A plugin failure or context cancellation is yielded as the final
// element with an empty path.
func (s *Scanner) All(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, src := range s.sources {
			w := &walker{Scanner: s, ctx: ctx, yield: yield}
			if !w.visit(src, 0) {
				return
			}
		}
	}
}

// Collect runs a full walk and returns every match. On error the matches
// found so far are returned with it.
func (s *Scanner) Collect(ctx context.Context) ([]string, error) {
	var out []string
	for path, err := range s.All(ctx) {
		if err != nil {
			return out, err
		}
		out = append(out, path)
	}
	return out, nil
}

type walker struct {
	*Scanner
	ctx   context.Context
	yield func(string, error) bool
}

// visit walks one directory. diskPath is used for reading, the normalized
// form for comparisons and output. It returns false once the walk is over.
func (w *walker) visit(diskPath string, depth int) bool {
	if err := w.ctx.Err(); err != nil {
		w.yield("", err)
		return false
	}

	if w.cfg.Depth >= 0 && depth > w.cfg.Depth {
		return true
	}

	path := NormalizePath(diskPath)
	if IsExcluded(path, w.excluded) {
		w.log.LogDebug(fmt.Sprintf("excluded directory %s", path))
		return true
	}

	if depth > 0 && w.cfg.Mode != ModeFiles && !w.emit(path) {
		return false
	}

	entries, err := afero.ReadDir(w.fs, diskPath)
	if err != nil {
		w.log.LogWarn(fmt.Sprintf("skipping unreadable directory %s: %v", diskPath, err))
		return true
	}

	var subdirs []string
	for _, entry := range entries {
		child := filepath.Join(diskPath, entry.Name())

		if entry.IsDir() {
			if !w.cfg.IncludeVCS && IsVCS(entry.Name()) {
				w.log.LogDebug(fmt.Sprintf("skipping VCS directory %s", child))
				continue
			}
			subdirs = append(subdirs, child)
			continue
		}

		if entry.Mode()&os.ModeSymlink != 0 && w.linksToDir(child) {
			w.log.LogDebug(fmt.Sprintf("skipping symlinked directory %s", child))
			continue
		}
		if w.cfg.Mode == ModeDirs {
			continue
		}
		p := NormalizePath(child)
		if IsExcluded(p, w.excluded) {
			continue
		}
		if !w.emit(p) {
			return false
		}
	}

	for _, sub := range subdirs {
		if !w.visit(sub, depth+1) {
			return false
		}
	}
	return true
}

// linksToDir reports whether the symlink at path resolves to a directory.
// Such links are neither followed nor reported.
func (w *walker) linksToDir(path string) bool {
	ok, err := afero.IsDir(w.fs, path)
	return err == nil && ok
}

func (w *walker) emit(path string) bool {
	ok, err := w.Match(path)
	if err != nil {
		w.yield("", err)
		return false
	}
	if !ok {
		return true
	}
	return w.yield(path, nil)
}
