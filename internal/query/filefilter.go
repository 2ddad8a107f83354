package query

import "strings"

// ParseFilePattern splits a raw -f/--file argument on its last slash into
// a FilePattern, applying spec.md §4.6's normalization: an extension
// shorthand like ".c" matches any file with that extension; a relative
// directory gains a "%/" path-boundary prefix so it can match at any
// depth; an explicit "./" or "/" directory is left alone apart from a
// trailing slash.
func ParseFilePattern(raw string) FilePattern {
	dir, file := "", raw
	if idx := strings.LastIndexByte(raw, '/'); idx >= 0 {
		dir, file = raw[:idx], raw[idx+1:]
	}

	if strings.HasPrefix(file, ".") && !strings.ContainsAny(file, "*?") {
		file = "*" + file
	}

	switch {
	case dir == "":
		// no directory constraint
	case strings.HasPrefix(dir, "/"), strings.HasPrefix(dir, "./"):
		dir = strings.TrimSuffix(dir, "/")
	default:
		dir = "%/" + strings.TrimSuffix(dir, "/")
	}

	return FilePattern{Directory: dir, Filename: file}
}

// buildFileFilter OR-joins (directory LIKE ? AND filename LIKE ?) clauses
// across every requested file pattern, returning an empty clause when no
// patterns were given.
func buildFileFilter(patterns []FilePattern) (string, []any) {
	if len(patterns) == 0 {
		return "", nil
	}
	var clauses []string
	var args []any
	for _, p := range patterns {
		if p.Directory == "" {
			clauses = append(clauses, "filename LIKE ? ESCAPE '\\'")
			args = append(args, ConvertWildcard(p.Filename))
			continue
		}
		clauses = append(clauses, "(filename LIKE ? ESCAPE '\\' AND directory LIKE ? ESCAPE '\\')")
		args = append(args, ConvertWildcard(p.Filename), ConvertWildcard(p.Directory))
	}
	return "(" + strings.Join(clauses, " OR ") + ")", args
}
