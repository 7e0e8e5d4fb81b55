package plugin

import (
	"fmt"
	"sort"
	"strings"
)

// Registry maps plugin names to their definitions.
type Registry struct {
	defs map[string]Definition
}

// NewRegistry creates a registry holding defs.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds def. Names must be unique and non-empty.
func (r *Registry) Register(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("plugin definition without a name")
	}
	if def.New == nil {
		return fmt.Errorf("plugin %s has no constructor", def.Name)
	}
	if _, ok := r.defs[def.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicatePlugin, def.Name)
	}
	r.defs[def.Name] = def
	return nil
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// Definitions returns every definition sorted by name.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Load instantiates a plugin from a "name" or "name:argument" spec.
func (r *Registry) Load(spec string, env Env) (*Plugin, error) {
	name, arg, _ := strings.Cut(spec, ":")
	name = strings.TrimSpace(name)

	def, ok := r.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlugin, name)
	}

	pred, err := def.New(env, arg)
	if err != nil {
		return nil, &PluginError{Name: name, Err: err}
	}

	return &Plugin{
		Name:        name,
		Argument:    arg,
		Description: def.Description,
		Help:        def.Help,
		pred:        pred,
	}, nil
}

// LoadAll loads every spec in order.
func (r *Registry) LoadAll(specs []string, env Env) (Chain, error) {
	chain := make(Chain, 0, len(specs))
	for _, spec := range specs {
		p, err := r.Load(spec, env)
		if err != nil {
			return nil, err
		}
		chain = append(chain, p)
	}
	return chain, nil
}

// Builtin returns the definitions of the predicates shipped with ff.
func Builtin() []Definition {
	return []Definition{sizeDefinition, gitignoreDefinition}
}
