package query

import "strings"

// ConvertWildcard turns a shell-style pattern (`*` any run, `.` any single
// char, `\` escapes the next rune literally) into a SQL LIKE pattern
// (`%`, `_`), assuming the caller's LIKE clause carries ESCAPE '\'.
// An escaped `*`, `.`, or `\` is re-escaped rather than unwrapped, so the
// output still carries its own escape marker; every other rune passes
// through unescaped. That makes conversion idempotent — a second pass sees
// the same escape sequences (or the same plain %/_ it already emitted) and
// reproduces them unchanged, rather than reinterpreting a bare '*' that an
// escape had protected as a fresh wildcard.
func ConvertWildcard(pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern))
	escaped := false
	for _, r := range pattern {
		if escaped {
			switch r {
			case '*', '.', '\\':
				b.WriteByte('\\')
			}
			b.WriteRune(r)
			escaped = false
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case '*':
			b.WriteRune('%')
		case '.':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// HasWildcard reports whether the raw (pre-conversion) pattern contains an
// unescaped * or . — used by the zero-result auto-retry to decide whether
// wrapping in wildcards would change anything.
func HasWildcard(pattern string) bool {
	escaped := false
	for _, r := range pattern {
		if escaped {
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		if r == '*' || r == '.' {
			return true
		}
	}
	return false
}

// SQLQuote doubles embedded single quotes for inline literal embedding in
// the INTERSECT/materialization paths, where parameter binding across a
// variable number of subqueries is impractical. Everywhere else, patterns
// travel as bound parameters; this is the one documented exception.
func SQLQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
