package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Location is a parsed source_location: a byte-agnostic line/column span.
type Location struct {
	StartLine, StartCol int
	EndLine, EndCol      int
}

// FormatLocation renders a Location as "startLine:startCol-endLine:endCol",
// the exact shape stored in Symbol.SourceLocation.
func FormatLocation(l Location) string {
	return fmt.Sprintf("%d:%d-%d:%d", l.StartLine, l.StartCol, l.EndLine, l.EndCol)
}

// ParseLocation parses the "startLine:startCol-endLine:endCol" shape back
// into a Location. It is the round-trip inverse of FormatLocation.
func ParseLocation(s string) (Location, error) {
	var loc Location
	dash := strings.IndexByte(s, '-')
	if dash < 0 {
		return loc, fmt.Errorf("model: malformed source_location %q: missing '-'", s)
	}
	start, end := s[:dash], s[dash+1:]

	sl, sc, err := splitLineCol(start)
	if err != nil {
		return loc, fmt.Errorf("model: malformed source_location %q: %w", s, err)
	}
	el, ec, err := splitLineCol(end)
	if err != nil {
		return loc, fmt.Errorf("model: malformed source_location %q: %w", s, err)
	}
	loc = Location{StartLine: sl, StartCol: sc, EndLine: el, EndCol: ec}
	if loc.EndLine < loc.StartLine {
		return loc, fmt.Errorf("model: malformed source_location %q: endLine < startLine", s)
	}
	return loc, nil
}

func splitLineCol(s string) (line, col int, err error) {
	colon := strings.IndexByte(s, ':')
	if colon < 0 {
		return 0, 0, fmt.Errorf("expected 'line:col', got %q", s)
	}
	line, err = strconv.Atoi(s[:colon])
	if err != nil {
		return 0, 0, err
	}
	col, err = strconv.Atoi(s[colon+1:])
	if err != nil {
		return 0, 0, err
	}
	return line, col, nil
}
