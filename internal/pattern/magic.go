package pattern

import (
	"regexp"
	"sort"
	"strings"
)

// Option names a setting a magic pattern can switch on.
type Option string

const (
	OptIgnoreCase  Option = "ignorecase"
	OptMultiline   Option = "regex_multiline"
	OptDotAll      Option = "regex_dotall"
	OptInvertMatch Option = "invert_match"
	OptPathSearch  Option = "path_search"
	OptRegex       Option = "regex"
	OptFuzzy       Option = "fuzzy"
)

// Decoded is the result of decoding a magic pattern.
type Decoded struct {
	// Body is the pattern text between the delimiters.
	Body string
	// Overrides holds only the options the magic pattern switched on.
	Overrides map[Option]bool
}

var magicRE = regexp.MustCompile(`^([a-z0-9]+)?([{}\[\]()<>/!@#%|?+])(.*)([{}\[\]()<>/!@#%|?+])([a-z0-9]+)?$`)

// closing delimiter -> opening delimiter
var delimPairs = map[string]string{
	"/": "/", "!": "!", "@": "@", "#": "#", "%": "%", "|": "|", "?": "?", "+": "+",
	"}": "{", "]": "[", ")": "(", ">": "<",
}

// An empty Option means the character is accepted but changes nothing.
var modifiers = map[rune]Option{
	'i': OptIgnoreCase,
	'm': OptMultiline,
	's': OptDotAll,
	'v': "",
	'r': OptInvertMatch,
	'q': OptPathSearch,
}

var modes = map[string]Option{
	"p": "",
	"g": OptRegex,
	"f": OptFuzzy,
}

// Decode splits a magic pattern into its body and the options it enables.
// A string that does not match the magic grammar is returned unchanged with
// no overrides.
func Decode(raw string) (Decoded, error) {
	m := magicRE.FindStringSubmatch(raw)
	if m == nil {
		return Decoded{Body: raw, Overrides: map[Option]bool{}}, nil
	}

	mode, open, body, closing, mods := m[1], m[2], m[3], m[4], m[5]

	if want, ok := delimPairs[closing]; !ok || want != open {
		return Decoded{}, newPatternError(raw, "Inappropriate delimiters: %s %s", open, closing)
	}

	overrides := make(map[Option]bool)

	seen := make(map[rune]bool, len(mods))
	for _, c := range mods {
		if seen[c] {
			return Decoded{}, newPatternError(raw, "Incorrect modifiers in pattern: %s. Allowed modifiers: %s.",
				mods, allowedModifiers())
		}
		seen[c] = true
	}
	for _, c := range mods {
		opt, ok := modifiers[c]
		if !ok {
			return Decoded{}, newPatternError(raw, "Unknown modifier in pattern: %c. Allowed modifiers: %s.",
				c, allowedModifiers())
		}
		if opt != "" {
			overrides[opt] = true
		}
	}

	if mode != "" {
		if len(mode) > 1 {
			return Decoded{}, newPatternError(raw, "Incorrect mode: %s. Allowed modes: %s.", mode, allowedModes())
		}
		opt, ok := modes[mode]
		if !ok {
			return Decoded{}, newPatternError(raw, "Unknown mode in pattern: %s. Allowed modes: %s.", mode, allowedModes())
		}
		if opt != "" {
			overrides[opt] = true
		}
	}

	return Decoded{Body: body, Overrides: overrides}, nil
}

// apply merges the overrides into caller supplied defaults.
func (d Decoded) apply(mode Mode, flags Flags) (Mode, Flags) {
	switch {
	case d.Overrides[OptFuzzy]:
		mode = ModeFuzzy
	case d.Overrides[OptRegex]:
		mode = ModeRegex
	}

	if d.Overrides[OptIgnoreCase] {
		flags.IgnoreCase = true
	}
	if d.Overrides[OptMultiline] {
		flags.Multiline = true
	}
	if d.Overrides[OptDotAll] {
		flags.DotAll = true
	}
	if d.Overrides[OptInvertMatch] {
		flags.InvertMatch = true
	}
	if d.Overrides[OptPathSearch] {
		flags.PathSearch = true
	}

	return mode, flags
}

func allowedModifiers() string {
	keys := make([]string, 0, len(modifiers))
	for c := range modifiers {
		keys = append(keys, string(c))
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}

func allowedModes() string {
	keys := make([]string, 0, len(modes))
	for m := range modes {
		keys = append(keys, m)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
