package extract

import "strings"

// CommentStyle names the delimiters a language uses for line and block
// comments, so StripComment can strip them before splitting.
type CommentStyle struct {
	Line       string // e.g. "//", "#"
	BlockStart string // e.g. "/*"
	BlockEnd   string // e.g. "*/"
}

// StripComment removes a single comment's delimiters, leaving the prose.
func StripComment(raw string, style CommentStyle) string {
	s := raw
	if style.Line != "" && strings.HasPrefix(s, style.Line) {
		return strings.TrimPrefix(s, style.Line)
	}
	if style.BlockStart != "" && strings.HasPrefix(s, style.BlockStart) {
		s = strings.TrimPrefix(s, style.BlockStart)
		s = strings.TrimSuffix(s, style.BlockEnd)
		return s
	}
	return s
}

// SplitWords splits prose on whitespace, returning each non-empty token.
// Callers pass each token through a cleaner (filter.CleanStringSymbol) and
// the indexability gate (filter.ShouldIndex) before emitting a record.
func SplitWords(s string) []string {
	return strings.Fields(s)
}
