package query

import (
	"fmt"
	"strings"

	"github.com/ebcode/sourceminder/internal/model"
)

var allowedColumns = map[string]bool{
	"parent": true, "scope": true, "modifier": true, "clue": true,
	"namespace": true, "type": true, "is_definition": true,
}

func buildColumnFilters(filters []ColumnFilter) (string, []any, error) {
	var clauses []string
	var args []any
	for _, f := range filters {
		if !allowedColumns[f.Column] {
			return "", nil, invalidf("unknown column filter %q", f.Column)
		}
		if len(f.Patterns) == 0 {
			continue
		}
		var ors []string
		for _, p := range f.Patterns {
			ors = append(ors, fmt.Sprintf("%s LIKE ? ESCAPE '\\'", f.Column))
			args = append(args, ConvertWildcard(p))
		}
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}
	return strings.Join(clauses, " AND "), args, nil
}

func buildContextFilter(include, exclude []model.Context) (string, []any) {
	var clauses []string
	var args []any
	if len(include) > 0 {
		placeholders := strings.Repeat("?,", len(include))
		placeholders = strings.TrimSuffix(placeholders, ",")
		clauses = append(clauses, fmt.Sprintf("context IN (%s)", placeholders))
		for _, c := range include {
			args = append(args, string(c))
		}
	}
	if len(exclude) > 0 {
		placeholders := strings.Repeat("?,", len(exclude))
		placeholders = strings.TrimSuffix(placeholders, ",")
		clauses = append(clauses, fmt.Sprintf("context NOT IN (%s)", placeholders))
		for _, c := range exclude {
			args = append(args, string(c))
		}
	}
	return strings.Join(clauses, " AND "), args
}

func buildLineFilter(set bool, start, end int) (string, []any) {
	if !set {
		return "", nil
	}
	if start == end {
		return "line = ?", []any{start}
	}
	return "line BETWEEN ? AND ?", []any{start, end}
}

// ResolveNoise expands the CLI's "noise" shorthand into model.Noise before
// the request reaches the planner.
func ResolveNoise(kinds []string) []model.Context {
	var out []model.Context
	for _, k := range kinds {
		if k == "noise" {
			out = append(out, model.Noise...)
			continue
		}
		out = append(out, model.Context(k))
	}
	return out
}

func joinNonEmpty(clauses []string, sep string) string {
	var nonEmpty []string
	for _, c := range clauses {
		if c != "" {
			nonEmpty = append(nonEmpty, c)
		}
	}
	return strings.Join(nonEmpty, sep)
}
