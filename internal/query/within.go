package query

import (
	"database/sql"
	"fmt"

	"github.com/ebcode/sourceminder/internal/model"
)

// ResolveWithin looks up is_definition=1 rows for each requested name and
// parses their source_location into a WithinRange. A name with zero
// matching definitions is ErrNoSuchDefinition — spec.md §4.9 says the
// resolver must never silently drop a name.
func ResolveWithin(db *sql.DB, names []string) ([]WithinRange, error) {
	var ranges []WithinRange
	for _, name := range names {
		rows, err := db.Query(`
			SELECT directory, filename, source_location
			FROM code_index
			WHERE is_definition = 1 AND full_symbol = ? AND source_location IS NOT NULL AND source_location != ''
		`, name)
		if err != nil {
			return nil, fmt.Errorf("query: resolve within %q: %w", name, err)
		}

		found := 0
		for rows.Next() {
			var directory, filename, loc string
			if err := rows.Scan(&directory, &filename, &loc); err != nil {
				rows.Close()
				return nil, err
			}
			parsed, err := model.ParseLocation(loc)
			if err != nil {
				continue
			}
			ranges = append(ranges, WithinRange{
				Directory: directory, Filename: filename,
				StartLine: parsed.StartLine, EndLine: parsed.EndLine,
			})
			found++
		}
		closeErr := rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
		if closeErr != nil {
			return nil, closeErr
		}
		if found == 0 {
			return nil, fmt.Errorf("%w: %q", ErrNoSuchDefinition, name)
		}
	}
	return ranges, nil
}

// buildWithinFilter OR-joins every resolved range into a disjunction of
// per-range (directory = ? AND filename = ? AND line BETWEEN ? AND ?)
// predicates, for inclusion in every subsequent subquery.
func buildWithinFilter(ranges []WithinRange) (string, []any) {
	if len(ranges) == 0 {
		return "", nil
	}
	clause := ""
	var args []any
	for i, r := range ranges {
		if i > 0 {
			clause += " OR "
		}
		clause += "(directory = ? AND filename = ? AND line BETWEEN ? AND ?)"
		args = append(args, r.Directory, r.Filename, r.StartLine, r.EndLine)
	}
	return "(" + clause + ")", args
}
