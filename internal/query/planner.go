package query

import (
	"database/sql"
	"fmt"
	"strings"
)

// PreparedQuery is a compiled, ready-to-run SELECT plus its bound
// arguments in positional order.
type PreparedQuery struct {
	SQL  string
	Args []any
}

const resultColumns = `directory, filename, line, symbol, full_symbol, context, source_location, parent, scope, modifier, clue, namespace, type, is_definition`

// Plan compiles a Request into a PreparedQuery, implementing spec.md
// §4.6's five planning rules. When the request uses N-line proximity mode
// it materializes the proximity_results temp table as a side effect
// (internal/query/proximity.go) before returning a plan that selects from
// it instead of code_index directly.
func Plan(db *sql.DB, req Request) (*PreparedQuery, error) {
	if len(req.Patterns) == 0 {
		return nil, invalidf("at least one pattern is required")
	}

	var ranges []WithinRange
	if len(req.WithinSymbols) > 0 {
		r, err := ResolveWithin(db, req.WithinSymbols)
		if err != nil {
			return nil, err
		}
		ranges = r
	}

	stack, err := newFilterStack(req, ranges)
	if err != nil {
		return nil, err
	}

	orMode := req.LineRange < 0 || len(req.Patterns) < 2
	switch {
	case orMode:
		return planOR(req, stack), nil
	case req.LineRange == 0:
		return planSameLine(req, stack), nil
	default:
		return planProximity(db, req, stack)
	}
}

// filterStack is the uniform predicate set rule 5 names: file filter, line
// range, within ranges, context in/not-in, and extensible column filters.
type filterStack struct {
	clauses []string
	args    []any
}

func newFilterStack(req Request, ranges []WithinRange) (*filterStack, error) {
	fs := &filterStack{}

	if fileClause, fileArgs := buildFileFilter(req.FilePatterns); fileClause != "" {
		fs.add(fileClause, fileArgs)
	}
	if lineClause, lineArgs := buildLineFilter(req.LineFilterSet, req.LineStart, req.LineEnd); lineClause != "" {
		fs.add(lineClause, lineArgs)
	}
	if withinClause, withinArgs := buildWithinFilter(ranges); withinClause != "" {
		fs.add(withinClause, withinArgs)
	}
	if ctxClause, ctxArgs := buildContextFilter(req.Include, req.Exclude); ctxClause != "" {
		fs.add(ctxClause, ctxArgs)
	}
	colClause, colArgs, err := buildColumnFilters(req.ColumnFilters)
	if err != nil {
		return nil, err
	}
	if colClause != "" {
		fs.add(colClause, colArgs)
	}

	return fs, nil
}

func (fs *filterStack) add(clause string, args []any) {
	fs.clauses = append(fs.clauses, clause)
	fs.args = append(fs.args, args...)
}

// where renders the stack as " AND c1 AND c2 ..." (empty string if empty).
func (fs *filterStack) where() string {
	if len(fs.clauses) == 0 {
		return ""
	}
	return " AND " + strings.Join(fs.clauses, " AND ")
}

// planOR implements rule 2's OR-mode: a single SELECT whose symbol
// predicate disjoins bound symbol LIKE ? across every pattern.
func planOR(req Request, stack *filterStack) *PreparedQuery {
	var ors []string
	var args []any
	for _, p := range req.Patterns {
		ors = append(ors, "symbol LIKE ? ESCAPE '\\'")
		args = append(args, ConvertWildcard(p))
	}
	where := "(" + strings.Join(ors, " OR ") + ")" + stack.where()
	args = append(args, stack.args...)

	sqlText := fmt.Sprintf(`SELECT %s FROM code_index WHERE %s ORDER BY directory, filename, line`, resultColumns, where)
	return &PreparedQuery{SQL: sqlText, Args: args}
}

// planSameLine implements rule 3: an INTERSECT of per-pattern subqueries
// over (directory, filename, line), restricting the outer query to those
// lines. Patterns are embedded inline (query.SQLQuote) per spec.md §4.6
// rule 6's documented exception for INTERSECT paths.
func planSameLine(req Request, stack *filterStack) *PreparedQuery {
	var subqueries []string
	for _, p := range req.Patterns {
		subqueries = append(subqueries, fmt.Sprintf(
			`SELECT directory, filename, line FROM code_index WHERE symbol LIKE %s ESCAPE '\'%s`,
			SQLQuote(ConvertWildcard(p)), stack.where(),
		))
	}
	intersect := strings.Join(subqueries, " INTERSECT ")

	var symbolOrs []string
	for _, p := range req.Patterns {
		symbolOrs = append(symbolOrs, fmt.Sprintf("symbol LIKE %s ESCAPE '\\'", SQLQuote(ConvertWildcard(p))))
	}

	sqlText := fmt.Sprintf(`
		SELECT %s FROM code_index
		WHERE (directory, filename, line) IN (%s)
		AND (%s)
		ORDER BY directory, filename, line
	`, resultColumns, intersect, strings.Join(symbolOrs, " OR "))

	// Each subquery repeats the filter-stack args once per pattern; the
	// inline-quoted patterns themselves carry no bound args.
	var args []any
	for range req.Patterns {
		args = append(args, stack.args...)
	}
	return &PreparedQuery{SQL: sqlText, Args: args}
}
