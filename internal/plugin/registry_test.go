package plugin

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constDefinition(name string, result bool) Definition {
	return Definition{
		Name:        name,
		Description: "always " + name,
		New: func(Env, string) (Predicate, error) {
			return PredicateFunc(func(string) (bool, error) { return result, nil }), nil
		},
	}
}

func TestRegistryRegister(t *testing.T) {
	r, err := NewRegistry(constDefinition("yes", true))
	require.NoError(t, err)

	err = r.Register(constDefinition("yes", false))
	assert.True(t, errors.Is(err, ErrDuplicatePlugin))

	assert.Error(t, r.Register(Definition{Name: "nocons"}))
	assert.Error(t, r.Register(Definition{New: constDefinition("x", true).New}))

	_, ok := r.Lookup("yes")
	assert.True(t, ok)
	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestNewRegistryDuplicate(t *testing.T) {
	_, err := NewRegistry(constDefinition("a", true), constDefinition("a", true))
	assert.True(t, errors.Is(err, ErrDuplicatePlugin))
}

func TestRegistryDefinitionsSorted(t *testing.T) {
	r, err := NewRegistry(constDefinition("zeta", true), constDefinition("alpha", true), constDefinition("mid", true))
	require.NoError(t, err)

	var names []string
	for _, d := range r.Definitions() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

func TestRegistryLoad(t *testing.T) {
	var gotArg string
	def := Definition{
		Name: "echo",
		Help: "help text",
		New: func(_ Env, arg string) (Predicate, error) {
			gotArg = arg
			return PredicateFunc(func(string) (bool, error) { return true, nil }), nil
		},
	}
	r, err := NewRegistry(def)
	require.NoError(t, err)

	p, err := r.Load("echo:a:b", Env{})
	require.NoError(t, err)
	assert.Equal(t, "echo", p.Name)
	assert.Equal(t, "a:b", p.Argument)
	assert.Equal(t, "a:b", gotArg)
	assert.Equal(t, "help text", p.Help)

	p, err = r.Load("echo", Env{})
	require.NoError(t, err)
	assert.Equal(t, "", p.Argument)
}

func TestRegistryLoadUnknown(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	_, err = r.Load("nope:1", Env{})
	assert.True(t, errors.Is(err, ErrUnknownPlugin))
	assert.Contains(t, err.Error(), `"nope"`)
}

func TestRegistryLoadConstructorError(t *testing.T) {
	r, err := NewRegistry(Builtin()...)
	require.NoError(t, err)

	_, err = r.Load("gitignore:/missing/.gitignore", Env{Fs: afero.NewMemMapFs()})
	require.Error(t, err)

	var perr *PluginError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "gitignore", perr.Name)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestRegistryLoadAll(t *testing.T) {
	r, err := NewRegistry(constDefinition("yes", true), constDefinition("no", false))
	require.NoError(t, err)

	chain, err := r.LoadAll([]string{"yes", "no"}, Env{})
	require.NoError(t, err)
	assert.Equal(t, []string{"yes", "no"}, chain.Names())

	ok, err := chain.Accept("/p")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = r.LoadAll([]string{"yes", "unknown"}, Env{})
	assert.True(t, errors.Is(err, ErrUnknownPlugin))
}

func TestBuiltinDefinitions(t *testing.T) {
	r, err := NewRegistry(Builtin()...)
	require.NoError(t, err)

	defs := r.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "gitignore", defs[0].Name)
	assert.Equal(t, "size", defs[1].Name)
	for _, d := range defs {
		assert.NotEmpty(t, d.Description)
		assert.NotEmpty(t, d.Help)
	}
}
