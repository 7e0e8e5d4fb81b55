// Package plugin defines the predicate contract applied to every path that
// survives pattern matching, the registry that resolves predicates by name and
// the builtin predicates shipped with ff.
package plugin

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
)

var (
	// ErrUnknownPlugin is returned when a name has no registered definition.
	ErrUnknownPlugin = errors.New("unknown plugin")
	// ErrDuplicatePlugin is returned when a name is registered twice.
	ErrDuplicatePlugin = errors.New("plugin already registered")
	// ErrInvalidArgument is returned by predicates that reject their argument.
	ErrInvalidArgument = errors.New("invalid plugin argument")
)

// PluginError is a failure raised by a predicate. It aborts the scan.
type PluginError struct {
	Name string
	Err  error
}

func (e *PluginError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *PluginError) Unwrap() error {
	return e.Err
}

// Predicate decides whether a path is kept.
type Predicate interface {
	Run(path string) (bool, error)
}

// PredicateFunc adapts a plain function to Predicate.
type PredicateFunc func(path string) (bool, error)

// Run calls f(path).
func (f PredicateFunc) Run(path string) (bool, error) {
	return f(path)
}

// Env carries the collaborators a predicate may need when it is created.
type Env struct {
	// Fs is the filesystem predicates read from. Nil means the OS filesystem.
	Fs afero.Fs
}

func (e Env) fs() afero.Fs {
	if e.Fs == nil {
		return afero.NewOsFs()
	}
	return e.Fs
}

// Definition describes a predicate that can be instantiated by name.
type Definition struct {
	Name        string
	Description string
	Help        string
	// New builds a predicate bound to argument, which may be empty.
	New func(env Env, argument string) (Predicate, error)
}

// Plugin is a loaded predicate bound to its argument.
type Plugin struct {
	Name        string
	Argument    string
	Description string
	Help        string

	pred Predicate
}

// New binds pred under name. It is mostly useful for predicates that are not
// registered anywhere.
func New(name, argument string, pred Predicate) *Plugin {
	return &Plugin{Name: name, Argument: argument, pred: pred}
}

// Run evaluates the predicate. Failures are returned as *PluginError.
func (p *Plugin) Run(path string) (bool, error) {
	ok, err := p.pred.Run(path)
	if err != nil {
		var perr *PluginError
		if errors.As(err, &perr) {
			return false, err
		}
		return false, &PluginError{Name: p.Name, Err: err}
	}
	return ok, nil
}

// Chain is an ordered list of plugins combined with logical AND.
type Chain []*Plugin

// Accept runs the plugins in order and stops at the first rejection or error.
// An empty chain accepts everything.
func (c Chain) Accept(path string) (bool, error) {
	for _, p := range c {
		ok, err := p.Run(path)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Names lists the plugin names in chain order.
func (c Chain) Names() []string {
	names := make([]string, len(c))
	for i, p := range c {
		names[i] = p.Name
	}
	return names
}
