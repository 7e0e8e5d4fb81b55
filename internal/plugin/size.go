package plugin

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// ErrMissingSize is returned by the size predicate when it has no argument.
var ErrMissingSize = errors.New("missing size argument")

var sizeArgRE = regexp.MustCompile(`^([<>=]?)([0-9]+)([bkmgBKMG]?)$`)

var sizeMultipliers = map[string]int64{
	"":  1,
	"b": 1,
	"k": 1024,
	"m": 1024 * 1024,
	"g": 1024 * 1024 * 1024,
}

const sizeHelp = `Size must be given as argument, and must follow pattern (without spaces):

    operator size multiplier

Operator (can be omitted) is one of: >, <, = (default)
Multiplier (can be omitted) is one of: b (default), k (multiply by 1024),
m (multiply by 1024*1024) or g (multiply by 1024*1024*1024)`

var sizeDefinition = Definition{
	Name:        "size",
	Description: "Filter files by their size.",
	Help:        sizeHelp,
	New: func(env Env, argument string) (Predicate, error) {
		return newSizePredicate(env.fs(), argument), nil
	},
}

// sizeTest is a parsed size argument.
type sizeTest struct {
	op    byte
	limit int64
}

func (t sizeTest) accepts(size int64) bool {
	switch t.op {
	case '>':
		return size > t.limit
	case '<':
		return size < t.limit
	default:
		return size == t.limit
	}
}

func parseSizeArgument(arg string) (sizeTest, error) {
	if arg == "" {
		return sizeTest{}, ErrMissingSize
	}

	m := sizeArgRE.FindStringSubmatch(arg)
	if m == nil {
		return sizeTest{}, fmt.Errorf("%w: %q does not match [<>=]?N[bkmg]", ErrInvalidArgument, arg)
	}

	n, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return sizeTest{}, fmt.Errorf("%w: %q: %v", ErrInvalidArgument, arg, err)
	}

	op := byte('=')
	if m[1] != "" {
		op = m[1][0]
	}

	mult := sizeMultipliers[strings.ToLower(m[3])]
	if n > math.MaxInt64/mult {
		return sizeTest{}, fmt.Errorf("%w: %q is too large", ErrInvalidArgument, arg)
	}

	return sizeTest{op: op, limit: n * mult}, nil
}

// sizePredicate compares entry sizes against its argument. The argument is
// parsed on first use so that a bad argument fails the scan like any other
// predicate error.
type sizePredicate struct {
	fs  afero.Fs
	arg string

	once    sync.Once
	test    sizeTest
	testErr error

	mu    sync.Mutex
	cache map[string]int64
}

func newSizePredicate(fs afero.Fs, arg string) *sizePredicate {
	return &sizePredicate{fs: fs, arg: arg, cache: make(map[string]int64)}
}

func (s *sizePredicate) Run(path string) (bool, error) {
	s.once.Do(func() {
		s.test, s.testErr = parseSizeArgument(s.arg)
	})
	if s.testErr != nil {
		return false, s.testErr
	}

	size, err := s.size(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return s.test.accepts(size), nil
}

// size returns the size of path, memoized by its canonical form.
func (s *sizePredicate) size(path string) (int64, error) {
	key := s.canonical(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	if size, ok := s.cache[key]; ok {
		return size, nil
	}

	info, err := s.fs.Stat(key)
	if err != nil {
		return 0, err
	}
	s.cache[key] = info.Size()
	return info.Size(), nil
}

// canonical resolves symlinks on the OS filesystem. Other filesystems only get
// lexical cleaning.
func (s *sizePredicate) canonical(path string) string {
	if _, ok := s.fs.(*afero.OsFs); ok {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if resolved, err := filepath.EvalSymlinks(path); err == nil {
			return resolved
		}
	}
	return filepath.Clean(path)
}
