// Package pattern compiles user supplied name patterns into matchers.
//
// A pattern is compiled in one of three dialects:
//
//   - glob (default): shell wildcards "*", "?" and "[...]" classes
//   - regex: the body is handed to the regexp engine unchanged
//   - fuzzy: every character of the body must appear, in order, with
//     anything in between
//
// Unlike fnmatch, a glob is not anchored at either end unless asked for:
// AnchorBegin and AnchorEnd control the anchors and are ignored in regex mode.
//
// # Magic patterns
//
// When magic decoding is enabled the raw string may carry its own mode and
// modifiers using a delimiter pair:
//
//	[mode]<open>body<close>[modifiers]
//
// mode is one of "p" (glob, no-op), "g" (regex) or "f" (fuzzy). Self pairing
// delimiters are / ! @ # % | ? +, bracket delimiters are {} [] () <>.
// Modifiers are "i" (ignore case), "m" (regex multiline), "s" (regex dotall),
// "v" (reserved), "r" (invert match) and "q" (search full path). Strings that
// do not look like a magic pattern are used as they are.
//
// # Usage
//
//	pat, err := pattern.NewBuilder("g/^main\\.go$/i").
//	    WithMagic(true).
//	    Compile()
//	if err != nil {
//	    var perr *pattern.PatternError
//	    if errors.As(err, &perr) {
//	        // usage error
//	    }
//	}
//	pat.MatchString("MAIN.GO") // true
//
// A compiled Pattern is immutable and safe to share.
package pattern
