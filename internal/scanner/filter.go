package scanner

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrInvalidMode is returned for an unknown traversal mode.
var ErrInvalidMode = errors.New("invalid mode")

// Mode selects which kinds of entries are candidates for output.
type Mode int

const (
	// ModeAll emits files and directories.
	ModeAll Mode = iota
	// ModeFiles emits only non-directories.
	ModeFiles
	// ModeDirs emits only directories.
	ModeDirs
)

func (m Mode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeFiles:
		return "files"
	case ModeDirs:
		return "dirs"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts files, dirs and all plus their short forms.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "a":
		return ModeAll, nil
	case "files", "file", "f":
		return ModeFiles, nil
	case "dirs", "dir", "d":
		return ModeDirs, nil
	default:
		return 0, fmt.Errorf("%w: %q (allowed: files, dirs, all)", ErrInvalidMode, s)
	}
}

func (m Mode) valid() bool {
	return m >= ModeAll && m <= ModeDirs
}

var vcsNames = map[string]struct{}{
	".git":   {},
	".svn":   {},
	"CVS":    {},
	".hg":    {},
	"_MTN":   {},
	"RCS":    {},
	"SCCS":   {},
	"_darcs": {},
	"_sgbak": {},
}

// IsVCS reports whether name is a version control metadata directory.
func IsVCS(name string) bool {
	_, ok := vcsNames[name]
	return ok
}

// NormalizePath applies NFKC and strips trailing separators. The filesystem
// root is kept as is.
func NormalizePath(p string) string {
	p = norm.NFKC.String(p)
	trimmed := strings.TrimRight(p, string(os.PathSeparator))
	if trimmed == "" && p != "" {
		return string(os.PathSeparator)
	}
	return trimmed
}

// IsExcluded reports whether path equals one of excluded or contains an
// excluded entry followed by a separator. Both sides must already be
// normalized.
//
// The containment test matches anywhere in the path, so excluding /tmp/foo
// also hides /src/tmp/foo/bar.
func IsExcluded(path string, excluded []string) bool {
	for _, ex := range excluded {
		if path == ex || strings.Contains(path, ex+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}
