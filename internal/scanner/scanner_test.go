package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/harrison/ff/internal/pattern"
	"github.com/harrison/ff/internal/plugin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFs(t *testing.T, files ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, f := range files {
		require.NoError(t, afero.WriteFile(fs, f, []byte("x"), 0o644))
	}
	return fs
}

func mustPattern(t *testing.T, raw string, flags pattern.Flags) *pattern.Pattern {
	t.Helper()
	p, err := pattern.Compile(raw, pattern.ModeGlob, flags)
	require.NoError(t, err)
	return p
}

func collect(t *testing.T, fs afero.Fs, cfg Config) []string {
	t.Helper()
	s, err := New(fs, cfg)
	require.NoError(t, err)
	got, err := s.Collect(context.Background())
	require.NoError(t, err)
	return got
}

type recordingLogger struct {
	debug []string
	warn  []string
}

func (r *recordingLogger) LogDebug(message string) { r.debug = append(r.debug, message) }
func (r *recordingLogger) LogWarn(message string)  { r.warn = append(r.warn, message) }

func TestScanEndToEnd(t *testing.T) {
	fs := newFs(t, "/r/a.txt", "/r/b.log", "/r/.git/config")

	got := collect(t, fs, Config{
		Sources: []string{"/r"},
		Depth:   -1,
		Mode:    ModeFiles,
		Pattern: mustPattern(t, "*.txt", pattern.Flags{}),
	})
	assert.Equal(t, []string{"/r/a.txt"}, got)
}

func TestScanVCS(t *testing.T) {
	fs := newFs(t, "/r/a.txt", "/r/.git/config", "/r/sub/.hg/store", "/r/sub/CVS/Root")

	tests := []struct {
		name       string
		includeVCS bool
		want       []string
	}{
		{name: "skipped", want: []string{"/r/a.txt", "/r/sub"}},
		{name: "included", includeVCS: true, want: []string{
			"/r/a.txt", "/r/.git", "/r/.git/config", "/r/sub", "/r/sub/.hg", "/r/sub/.hg/store",
			"/r/sub/CVS", "/r/sub/CVS/Root",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(t, fs, Config{
				Sources:    []string{"/r"},
				Depth:      -1,
				IncludeVCS: tt.includeVCS,
				Pattern:    mustPattern(t, "", pattern.Flags{}),
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScanDepth(t *testing.T) {
	fs := newFs(t, "/r/top.txt", "/r/a/inner.txt", "/r/a/b/deep.txt")

	tests := []struct {
		depth int
		mode  Mode
		want  []string
	}{
		{depth: 0, mode: ModeAll, want: []string{"/r/top.txt"}},
		{depth: 1, mode: ModeAll, want: []string{"/r/top.txt", "/r/a", "/r/a/inner.txt"}},
		{depth: -1, mode: ModeAll, want: []string{"/r/top.txt", "/r/a", "/r/a/inner.txt", "/r/a/b", "/r/a/b/deep.txt"}},
		{depth: 5, mode: ModeFiles, want: []string{"/r/top.txt", "/r/a/inner.txt", "/r/a/b/deep.txt"}},
		{depth: -1, mode: ModeDirs, want: []string{"/r/a", "/r/a/b"}},
		{depth: 1, mode: ModeDirs, want: []string{"/r/a"}},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			got := collect(t, fs, Config{
				Sources: []string{"/r"},
				Depth:   tt.depth,
				Mode:    tt.mode,
				Pattern: mustPattern(t, "", pattern.Flags{}),
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScanExclusion(t *testing.T) {
	fs := newFs(t, "/s/etc/passwd", "/s/etcetera/file", "/s/skip.txt", "/s/keep.txt")

	got := collect(t, fs, Config{
		Sources:       []string{"/s"},
		Depth:         -1,
		ExcludedPaths: []string{"/s/etc/", "/s/skip.txt"},
		Pattern:       mustPattern(t, "", pattern.Flags{}),
	})
	assert.Equal(t, []string{"/s/keep.txt", "/s/etcetera", "/s/etcetera/file"}, got)
}

// Exclusion is a substring test, so an excluded path also hides a deeper
// path that happens to contain it.
func TestScanExclusionOverMatchesContainedPaths(t *testing.T) {
	fs := newFs(t, "/x/tmp/foo/y", "/x/tmp/foobar")

	got := collect(t, fs, Config{
		Sources:       []string{"/x"},
		Depth:         -1,
		Mode:          ModeFiles,
		ExcludedPaths: []string{"/tmp/foo"},
		Pattern:       mustPattern(t, "", pattern.Flags{}),
	})
	assert.Equal(t, []string{"/x/tmp/foobar"}, got)
}

func TestScanExclusionIsNormalized(t *testing.T) {
	fs := newFs(t, "/r/ﬁle/x", "/r/ﬁx.txt")

	got := collect(t, fs, Config{
		Sources:       []string{"/r"},
		Depth:         -1,
		ExcludedPaths: []string{"/r/file"},
		Pattern:       mustPattern(t, "", pattern.Flags{}),
	})
	assert.Equal(t, []string{"/r/fix.txt"}, got)
}

func TestScanInvertMatch(t *testing.T) {
	fs := newFs(t, "/r/a.txt", "/r/b.log")

	got := collect(t, fs, Config{
		Sources: []string{"/r"},
		Depth:   -1,
		Mode:    ModeFiles,
		Pattern: mustPattern(t, "*.txt", pattern.Flags{InvertMatch: true}),
	})
	assert.Equal(t, []string{"/r/b.log"}, got)
}

func TestScanPathSearch(t *testing.T) {
	fs := newFs(t, "/r/sub/x.go", "/r/y.go")

	byName := collect(t, fs, Config{
		Sources: []string{"/r"},
		Depth:   -1,
		Mode:    ModeFiles,
		Pattern: mustPattern(t, "sub", pattern.Flags{}),
	})
	assert.Empty(t, byName)

	byPath := collect(t, fs, Config{
		Sources: []string{"/r"},
		Depth:   -1,
		Mode:    ModeFiles,
		Pattern: mustPattern(t, "sub", pattern.Flags{PathSearch: true}),
	})
	assert.Equal(t, []string{"/r/sub/x.go"}, byPath)
}

func TestScanMultipleSources(t *testing.T) {
	fs := newFs(t, "/a/1.txt", "/b/2.txt")

	got := collect(t, fs, Config{
		Sources: []string{"/b", "/a/"},
		Depth:   -1,
		Pattern: mustPattern(t, "", pattern.Flags{}),
	})
	assert.Equal(t, []string{"/b/2.txt", "/a/1.txt"}, got)
}

func TestScanPluginRejects(t *testing.T) {
	fs := newFs(t, "/r/a.txt", "/r/b.txt")
	notB := plugin.New("not-b", "", plugin.PredicateFunc(func(path string) (bool, error) {
		return path != "/r/b.txt", nil
	}))

	got := collect(t, fs, Config{
		Sources: []string{"/r"},
		Depth:   -1,
		Pattern: mustPattern(t, "", pattern.Flags{}),
		Plugins: plugin.Chain{notB},
	})
	assert.Equal(t, []string{"/r/a.txt"}, got)
}

func TestScanPluginOnlySeesShownPaths(t *testing.T) {
	fs := newFs(t, "/r/a.txt", "/r/b.log")
	var seen []string
	spy := plugin.New("spy", "", plugin.PredicateFunc(func(path string) (bool, error) {
		seen = append(seen, path)
		return true, nil
	}))

	collect(t, fs, Config{
		Sources: []string{"/r"},
		Depth:   -1,
		Pattern: mustPattern(t, "*.txt", pattern.Flags{}),
		Plugins: plugin.Chain{spy},
	})
	assert.Equal(t, []string{"/r/a.txt"}, seen)
}

func TestScanPluginErrorAborts(t *testing.T) {
	fs := newFs(t, "/r/a.txt", "/r/b.txt", "/r/c.txt")
	boom := errors.New("boom")
	failOnB := plugin.New("fail", "", plugin.PredicateFunc(func(path string) (bool, error) {
		if path == "/r/b.txt" {
			return false, boom
		}
		return true, nil
	}))

	s, err := New(fs, Config{
		Sources: []string{"/r"},
		Depth:   -1,
		Pattern: mustPattern(t, "", pattern.Flags{}),
		Plugins: plugin.Chain{failOnB},
	})
	require.NoError(t, err)

	got, err := s.Collect(context.Background())
	assert.Equal(t, []string{"/r/a.txt"}, got, "matches before the failure are kept")

	var perr *plugin.PluginError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "fail", perr.Name)
	assert.True(t, errors.Is(err, boom))
}

func TestScanContextCanceled(t *testing.T) {
	fs := newFs(t, "/r/a.txt")
	s, err := New(fs, Config{Sources: []string{"/r"}, Depth: -1, Pattern: mustPattern(t, "", pattern.Flags{})})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := s.Collect(ctx)
	assert.Empty(t, got)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanStopsWhenConsumerBreaks(t *testing.T) {
	fs := newFs(t, "/r/a.txt", "/r/b.txt", "/r/c/d.txt")
	s, err := New(fs, Config{Sources: []string{"/r"}, Depth: -1, Pattern: mustPattern(t, "", pattern.Flags{})})
	require.NoError(t, err)

	var got []string
	for path, err := range s.All(context.Background()) {
		require.NoError(t, err)
		got = append(got, path)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"/r/a.txt", "/r/b.txt"}, got)

	// A new walk starts from scratch.
	all, err := s.Collect(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

// unreadableFs fails to open one directory.
type unreadableFs struct {
	afero.Fs
	dir string
}

func (u unreadableFs) Open(name string) (afero.File, error) {
	if name == u.dir {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return u.Fs.Open(name)
}

func TestScanSkipsUnreadableDirectories(t *testing.T) {
	base := newFs(t, "/r/locked/secret", "/r/open/file")
	fs := unreadableFs{Fs: base, dir: "/r/locked"}
	log := &recordingLogger{}

	s, err := New(fs, Config{
		Sources: []string{"/r"},
		Depth:   -1,
		Mode:    ModeFiles,
		Pattern: mustPattern(t, "", pattern.Flags{}),
	}, WithLogger(log))
	require.NoError(t, err)

	got, err := s.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"/r/open/file"}, got)
	require.Len(t, log.warn, 1)
	assert.Contains(t, log.warn[0], "/r/locked")
}

func TestNewValidation(t *testing.T) {
	fs := newFs(t, "/r/file")
	p := mustPattern(t, "", pattern.Flags{})

	_, err := New(fs, Config{Sources: []string{"/r"}})
	assert.ErrorIs(t, err, ErrNoPattern)

	_, err = New(fs, Config{Sources: []string{"/r"}, Pattern: p, Mode: Mode(9)})
	assert.ErrorIs(t, err, ErrInvalidMode)

	_, err = New(fs, Config{Pattern: p})
	assert.ErrorIs(t, err, ErrNoSources)

	_, err = New(fs, Config{Sources: []string{"/missing"}, Pattern: p})
	assert.Error(t, err)

	_, err = New(fs, Config{Sources: []string{"/r/file"}, Pattern: p})
	assert.ErrorContains(t, err, "not a directory")
}

func TestScanSymlinks(t *testing.T) {
	root := t.TempDir()
	target := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(target, "inside.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "real.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Symlink(target, filepath.Join(root, "dirlink")))
	require.NoError(t, os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "filelink")))
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "dangling")))

	for _, mode := range []Mode{ModeAll, ModeFiles, ModeDirs} {
		t.Run(mode.String(), func(t *testing.T) {
			got := collect(t, afero.NewOsFs(), Config{
				Sources: []string{root},
				Depth:   -1,
				Mode:    mode,
				Pattern: mustPattern(t, "", pattern.Flags{}),
			})
			assert.NotContains(t, got, filepath.Join(root, "dirlink"))
			assert.NotContains(t, got, filepath.Join(root, "dirlink", "inside.txt"))
			if mode == ModeDirs {
				assert.Empty(t, got)
				return
			}
			assert.Contains(t, got, filepath.Join(root, "filelink"))
			assert.Contains(t, got, filepath.Join(root, "dangling"))
		})
	}
}
