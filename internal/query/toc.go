package query

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/ebcode/sourceminder/internal/model"
)

// TOCEntry is one definition in a file's outline.
type TOCEntry struct {
	Line           int
	Symbol         string
	Context        model.Context
	SourceLocation string
	Parent         string
}

// TOCRequest narrows a table-of-contents build to one file plus optional
// symbol/context filters and a result limit.
type TOCRequest struct {
	FilePatterns []FilePattern
	Patterns     []string
	Include      []model.Context
	Exclude      []model.Context
	Limit        int
}

// kindOrder groups the outline the way spec.md §4.10 describes: imports,
// types, functions, then every other kind in alphabetical order.
var kindOrder = []model.Context{
	model.ContextImport, model.ContextNamespace, model.ContextClass, model.ContextInterface,
	model.ContextTrait, model.ContextType, model.ContextEnum, model.ContextFunction,
}

func kindRank(c model.Context) int {
	for i, k := range kindOrder {
		if k == c {
			return i
		}
	}
	return len(kindOrder)
}

// BuildTOC returns is_definition=1 rows for the requested file(s), grouped
// by kind and ordered by line within each kind.
func BuildTOC(db *sql.DB, req TOCRequest) (map[model.Context][]TOCEntry, error) {
	stack := &filterStack{}
	if clause, args := buildFileFilter(req.FilePatterns); clause != "" {
		stack.add(clause, args)
	}
	if clause, args := buildContextFilter(req.Include, req.Exclude); clause != "" {
		stack.add(clause, args)
	}
	var symbolClause string
	var symbolArgs []any
	if len(req.Patterns) > 0 {
		var ors []string
		for _, p := range req.Patterns {
			ors = append(ors, "symbol LIKE ? ESCAPE '\\'")
			symbolArgs = append(symbolArgs, ConvertWildcard(p))
		}
		symbolClause = "(" + joinOR(ors) + ")"
	}

	where := "is_definition = 1"
	if symbolClause != "" {
		where += " AND " + symbolClause
	}
	where += stack.where()

	sqlText := fmt.Sprintf(`
		SELECT line, full_symbol, context, source_location, parent
		FROM code_index
		WHERE %s
		ORDER BY line
	`, where)
	args := append(symbolArgs, stack.args...)
	if req.Limit > 0 {
		sqlText += " LIMIT ?"
		args = append(args, req.Limit)
	}

	rows, err := db.Query(sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query: toc: %w", err)
	}
	defer rows.Close()

	out := map[model.Context][]TOCEntry{}
	for rows.Next() {
		var e TOCEntry
		var ctx string
		var loc, parent sql.NullString
		if err := rows.Scan(&e.Line, &e.Symbol, &ctx, &loc, &parent); err != nil {
			return nil, err
		}
		e.Context = model.Context(ctx)
		e.SourceLocation = loc.String
		e.Parent = parent.String
		out[e.Context] = append(out[e.Context], e)
	}
	return out, rows.Err()
}

// OrderedKinds returns the kinds present in a TOC result, grouped per
// kindOrder with any unrecognized kind appended alphabetically after.
func OrderedKinds(toc map[model.Context][]TOCEntry) []model.Context {
	kinds := make([]model.Context, 0, len(toc))
	for k := range toc {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		ri, rj := kindRank(kinds[i]), kindRank(kinds[j])
		if ri != rj {
			return ri < rj
		}
		return kinds[i] < kinds[j]
	})
	return kinds
}

func joinOR(clauses []string) string {
	out := ""
	for i, c := range clauses {
		if i > 0 {
			out += " OR "
		}
		out += c
	}
	return out
}
