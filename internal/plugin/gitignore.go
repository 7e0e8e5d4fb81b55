package plugin

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	gitignore "github.com/sabhiram/go-gitignore"
	"github.com/spf13/afero"
)

const gitignoreHelp = `Without argument, every .gitignore between the tested path and the root of
its repository (the first ancestor containing .git) is consulted.

With argument, only the given ignore file is used. Paths outside of the
directory holding that file are always accepted.`

var gitignoreDefinition = Definition{
	Name:        "gitignore",
	Description: "Skip paths ignored by .gitignore files.",
	Help:        gitignoreHelp,
	New: func(env Env, argument string) (Predicate, error) {
		fs := env.fs()
		if argument == "" {
			return &gitignorePredicate{fs: fs, dirs: make(map[string]*ignoreDir)}, nil
		}
		return newSingleFileIgnore(fs, argument)
	},
}

// ignoreDir is what the predicate remembers about one directory.
type ignoreDir struct {
	rules ignoreRules // nil when the directory has no .gitignore
	repo  bool        // the directory holds .git
}

// gitignorePredicate consults the .gitignore files of each path's ancestors.
type gitignorePredicate struct {
	fs afero.Fs

	mu   sync.Mutex
	dirs map[string]*ignoreDir
}

// Run follows git: files closer to the path override files further up, the
// last matching rule of a file wins, and nothing below an ignored directory
// can be re-included.
func (g *gitignorePredicate) Run(path string) (bool, error) {
	path = filepath.Clean(path)
	isDir, err := isDirectory(g.fs, path)
	if err != nil {
		return false, err
	}

	chain, err := g.chain(filepath.Dir(path))
	if err != nil {
		return false, err
	}

	for i := 1; i < len(chain); i++ {
		if g.decide(chain[:i], chain[i], true) == verdictIgnored {
			return false, nil
		}
	}
	return g.decide(chain, path, isDir) != verdictIgnored, nil
}

// chain lists dir and its ancestors up to the enclosing repository root (or
// the filesystem root), outermost first.
func (g *gitignorePredicate) chain(dir string) ([]string, error) {
	var chain []string
	for {
		info, err := g.dir(dir)
		if err != nil {
			return nil, err
		}
		chain = append(chain, dir)

		parent := filepath.Dir(dir)
		if info.repo || parent == dir {
			break
		}
		dir = parent
	}
	slices.Reverse(chain)
	return chain, nil
}

// decide applies the ignore files of dirs, outermost first, to target.
func (g *gitignorePredicate) decide(dirs []string, target string, isDir bool) verdict {
	v := verdictNone
	for _, dir := range dirs {
		info, err := g.dir(dir)
		if err != nil || info.rules == nil {
			continue
		}
		if got := info.rules.match(dir, target, isDir); got != verdictNone {
			v = got
		}
	}
	return v
}

func (g *gitignorePredicate) dir(dir string) (*ignoreDir, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if info, ok := g.dirs[dir]; ok {
		return info, nil
	}

	rules, err := compileIgnoreFile(g.fs, filepath.Join(dir, ".gitignore"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	repo, err := afero.Exists(g.fs, filepath.Join(dir, ".git"))
	if err != nil {
		return nil, err
	}

	info := &ignoreDir{rules: rules, repo: repo}
	g.dirs[dir] = info
	return info, nil
}

// singleFileIgnore applies one explicit ignore file.
type singleFileIgnore struct {
	fs    afero.Fs
	base  string
	rules ignoreRules
}

func newSingleFileIgnore(fs afero.Fs, file string) (*singleFileIgnore, error) {
	file = filepath.Clean(file)
	rules, err := compileIgnoreFile(fs, file)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read ignore file %s: %v", ErrInvalidArgument, file, err)
	}
	return &singleFileIgnore{fs: fs, base: filepath.Dir(file), rules: rules}, nil
}

func (s *singleFileIgnore) Run(path string) (bool, error) {
	path = filepath.Clean(path)
	isDir, err := isDirectory(s.fs, path)
	if err != nil {
		return false, err
	}
	return s.rules.match(s.base, path, isDir) != verdictIgnored, nil
}

type verdict int

const (
	verdictNone verdict = iota
	verdictIgnored
	verdictIncluded
)

// ignoreRule is one line of an ignore file. Negated lines are compiled
// without their "!" so that a match can be told apart from no match.
type ignoreRule struct {
	matcher *gitignore.GitIgnore
	negate  bool
}

type ignoreRules []ignoreRule

func compileIgnoreFile(fs afero.Fs, file string) (ignoreRules, error) {
	data, err := afero.ReadFile(fs, file)
	if err != nil {
		return nil, err
	}

	rules := ignoreRules{}
	for _, line := range strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n") {
		line = strings.Trim(line, " ")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		negate := strings.HasPrefix(line, "!")
		if negate {
			line = line[1:]
		}
		rules = append(rules, ignoreRule{matcher: gitignore.CompileIgnoreLines(line), negate: negate})
	}
	return rules, nil
}

// match returns the verdict of the last rule matching path, relative to
// base. Directories get a trailing slash so that "name/" rules apply to them.
func (r ignoreRules) match(base, path string, isDir bool) verdict {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return verdictNone
	}
	rel = filepath.ToSlash(rel)
	if isDir {
		rel += "/"
	}

	v := verdictNone
	for _, rule := range r {
		if !rule.matcher.MatchesPath(rel) {
			continue
		}
		if rule.negate {
			v = verdictIncluded
		} else {
			v = verdictIgnored
		}
	}
	return v
}

func isDirectory(fs afero.Fs, path string) (bool, error) {
	info, err := fs.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
