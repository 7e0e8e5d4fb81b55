package pattern

import (
	"fmt"
	"regexp"

	"golang.org/x/text/unicode/norm"
)

// Mode selects the matching dialect.
type Mode int

const (
	// ModeGlob treats the body as shell wildcards.
	ModeGlob Mode = iota
	// ModeRegex treats the body as a regular expression.
	ModeRegex
	// ModeFuzzy matches the body's characters in order with anything between.
	ModeFuzzy
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeGlob:
		return "glob"
	case ModeRegex:
		return "regex"
	case ModeFuzzy:
		return "fuzzy"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Flags are the boolean settings of a pattern.
type Flags struct {
	IgnoreCase  bool
	InvertMatch bool
	// PathSearch matches against the full path instead of the base name.
	PathSearch bool
	// AnchorBegin and AnchorEnd are ignored in regex mode.
	AnchorBegin bool
	AnchorEnd   bool
	// Multiline and DotAll only affect regex mode.
	Multiline bool
	DotAll    bool
}

// Builder collects the settings of a pattern before compilation. Every
// method returns a modified copy; the receiver is left untouched.
type Builder struct {
	raw   string
	mode  Mode
	flags Flags
	magic bool
}

// NewBuilder starts a glob pattern for raw with all flags off.
func NewBuilder(raw string) Builder {
	return Builder{raw: raw}
}

// WithMode sets the default dialect. A magic pattern may still override it.
func (b Builder) WithMode(m Mode) Builder {
	b.mode = m
	return b
}

// WithFlags replaces the default flags.
func (b Builder) WithFlags(f Flags) Builder {
	b.flags = f
	return b
}

// WithIgnoreCase toggles case-insensitive matching.
func (b Builder) WithIgnoreCase(on bool) Builder {
	b.flags.IgnoreCase = on
	return b
}

// WithMagic enables decoding of "mode/body/modifiers" syntax.
func (b Builder) WithMagic(on bool) Builder {
	b.magic = on
	return b
}

// Compile decodes, normalizes and compiles the pattern.
func (b Builder) Compile() (*Pattern, error) {
	text := norm.NFKC.String(b.raw)
	mode, flags := b.mode, b.flags

	if b.magic {
		dec, err := Decode(text)
		if err != nil {
			if perr, ok := err.(*PatternError); ok {
				perr.Pattern = b.raw
			}
			return nil, err
		}
		text = dec.Body
		mode, flags = dec.apply(mode, flags)
	}

	expr, inline := buildExpr(text, mode, flags)
	re, err := regexp.Compile(inline + expr)
	if err != nil {
		return nil, &PatternError{Pattern: b.raw, Reason: "invalid regular expression", Err: err}
	}

	return &Pattern{
		raw:   b.raw,
		text:  text,
		mode:  mode,
		flags: flags,
		expr:  expr,
		re:    re,
	}, nil
}

// Compile is shorthand for NewBuilder(raw).WithMode(mode).WithFlags(flags).Compile().
func Compile(raw string, mode Mode, flags Flags) (*Pattern, error) {
	return NewBuilder(raw).WithMode(mode).WithFlags(flags).Compile()
}

// Pattern is a compiled, immutable matcher.
type Pattern struct {
	raw   string
	text  string
	mode  Mode
	flags Flags
	expr  string
	re    *regexp.Regexp
}

// Raw returns the pattern as given, before decoding and normalization.
func (p *Pattern) Raw() string { return p.raw }

// Text returns the normalized body that was compiled.
func (p *Pattern) Text() string { return p.text }

// Mode returns the effective dialect after magic decoding.
func (p *Pattern) Mode() Mode { return p.mode }

// Flags returns the effective flags after magic decoding.
func (p *Pattern) Flags() Flags { return p.flags }

// Expr returns the regex source without the inline flag group.
func (p *Pattern) Expr() string { return p.expr }

// String returns the full regex source, inline flags included.
func (p *Pattern) String() string { return p.re.String() }

// MatchString reports whether s contains a match.
func (p *Pattern) MatchString(s string) bool {
	return p.re.MatchString(s)
}

// Highlight replaces every non-empty match in s with fn(match).
func (p *Pattern) Highlight(s string, fn func(string) string) string {
	return p.re.ReplaceAllStringFunc(s, func(m string) string {
		if m == "" {
			return m
		}
		return fn(m)
	})
}
