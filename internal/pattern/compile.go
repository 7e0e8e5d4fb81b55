package pattern

import (
	"regexp"
	"strings"
)

const (
	beginAnchor = `\A`
	endAnchor   = `\z`
	// neverMatch is a character class that no rune satisfies.
	neverMatch = `[^\x00-\x{10FFFF}]`
)

// buildExpr returns the regex source for body under the given mode together
// with the inline flag group that has to prefix it.
func buildExpr(body string, mode Mode, flags Flags) (expr string, inline string) {
	switch mode {
	case ModeRegex:
		return body, inlineFlags(flags.IgnoreCase, flags.Multiline, flags.DotAll)
	case ModeFuzzy:
		return fuzzyExpr(body, flags.AnchorBegin, flags.AnchorEnd), inlineFlags(flags.IgnoreCase, true, true)
	default:
		return globExpr(body, flags.AnchorBegin, flags.AnchorEnd), inlineFlags(flags.IgnoreCase, false, true)
	}
}

// inlineFlags renders the RE2 inline flag group, or "" when no flag is set.
func inlineFlags(ignoreCase, multiline, dotAll bool) string {
	var b strings.Builder
	if ignoreCase {
		b.WriteByte('i')
	}
	if multiline {
		b.WriteByte('m')
	}
	if dotAll {
		b.WriteByte('s')
	}
	if b.Len() == 0 {
		return ""
	}
	return "(?" + b.String() + ")"
}

// fuzzyExpr requires every rune of body, in order, with anything between.
func fuzzyExpr(body string, anchorBegin, anchorEnd bool) string {
	var b strings.Builder
	if anchorBegin {
		b.WriteString(beginAnchor)
	}
	for _, r := range body {
		b.WriteString(".*")
		b.WriteString(regexp.QuoteMeta(string(r)))
	}
	if anchorEnd {
		b.WriteString(endAnchor)
	}
	return b.String()
}

// globExpr translates shell wildcards to regex source. Anchors are only
// emitted when requested.
func globExpr(pat string, anchorBegin, anchorEnd bool) string {
	var b strings.Builder
	if anchorBegin {
		b.WriteString(beginAnchor)
	}

	runes := []rune(pat)
	for i := 0; i < len(runes); i++ {
		switch c := runes[i]; c {
		case '*':
			// Collapse runs of stars.
			for i+1 < len(runes) && runes[i+1] == '*' {
				i++
			}
			b.WriteString(".*")
		case '?':
			b.WriteByte('.')
		case '[':
			end := findClassEnd(runes, i)
			if end < 0 {
				b.WriteString(`\[`)
				continue
			}
			b.WriteString(classExpr(runes[i+1 : end]))
			i = end
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	if anchorEnd {
		b.WriteString(endAnchor)
	}
	return b.String()
}

// findClassEnd locates the "]" closing the class opened at start, or -1.
func findClassEnd(runes []rune, start int) int {
	j := start + 1
	if j < len(runes) && runes[j] == '!' {
		j++
	}
	if j < len(runes) && runes[j] == ']' {
		j++
	}
	for ; j < len(runes); j++ {
		if runes[j] == ']' {
			return j
		}
	}
	return -1
}

// classExpr converts the inside of a glob class to a regex class.
func classExpr(inner []rune) string {
	negate := false
	if len(inner) > 0 && inner[0] == '!' {
		negate = true
		inner = inner[1:]
	}

	var items strings.Builder
	for i := 0; i < len(inner); i++ {
		lo := inner[i]
		// "-" is literal at either end of the class.
		if i+2 < len(inner) && inner[i+1] == '-' {
			hi := inner[i+2]
			i += 2
			if lo > hi {
				continue
			}
			items.WriteString(classRune(lo))
			items.WriteByte('-')
			items.WriteString(classRune(hi))
			continue
		}
		items.WriteString(classRune(lo))
	}

	if items.Len() == 0 {
		if negate {
			return "."
		}
		return neverMatch
	}

	if negate {
		return "[^" + items.String() + "]"
	}
	return "[" + items.String() + "]"
}

// classRune escapes runes that are special inside a regex class.
func classRune(r rune) string {
	switch r {
	case '\\', ']', '[', '^', '-':
		return `\` + string(r)
	default:
		return string(r)
	}
}
