package query

import (
	"database/sql"
	"fmt"
)

// planProximity implements rule 4: N-line two-step materialization into a
// session-local proximity_results temp table (spec.md §4.7), then returns
// a plan selecting from that table instead of code_index.
func planProximity(db *sql.DB, req Request, stack *filterStack) (*PreparedQuery, error) {
	if err := resetProximityTable(db); err != nil {
		return nil, err
	}

	anchors, err := anchorRows(db, req.Patterns[0], stack)
	if err != nil {
		return nil, err
	}

	insert, err := db.Prepare(fmt.Sprintf(`
		INSERT INTO proximity_results (%s)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, resultColumns))
	if err != nil {
		return nil, err
	}
	defer insert.Close()

	secondary := req.Patterns[1:]
	for _, anchor := range anchors {
		matchRows, ok, err := secondaryMatches(db, anchor, secondary, req.LineRange, stack)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if err := insertRow(insert, anchor); err != nil {
			return nil, err
		}
		for _, r := range matchRows {
			if err := insertRow(insert, r); err != nil {
				return nil, err
			}
		}
	}

	return &PreparedQuery{
		SQL: `SELECT ` + resultColumns + ` FROM proximity_results ORDER BY directory, filename, line`,
	}, nil
}

func resetProximityTable(db *sql.DB) error {
	if _, err := db.Exec(`DROP TABLE IF EXISTS proximity_results`); err != nil {
		return err
	}
	_, err := db.Exec(`CREATE TEMP TABLE proximity_results AS SELECT ` + resultColumns + ` FROM code_index WHERE 0`)
	return err
}

type resultRow struct {
	directory, filename                                          string
	line                                                          int
	symbol, fullSymbol, context                                   string
	sourceLocation, parent, scope, modifier, clue, namespace, typ sql.NullString
	isDefinition                                                  bool
}

func scanRow(rows *sql.Rows) (resultRow, error) {
	var r resultRow
	err := rows.Scan(&r.directory, &r.filename, &r.line, &r.symbol, &r.fullSymbol, &r.context,
		&r.sourceLocation, &r.parent, &r.scope, &r.modifier, &r.clue, &r.namespace, &r.typ, &r.isDefinition)
	return r, err
}

func insertRow(stmt *sql.Stmt, r resultRow) error {
	_, err := stmt.Exec(r.directory, r.filename, r.line, r.symbol, r.fullSymbol, r.context,
		r.sourceLocation, r.parent, r.scope, r.modifier, r.clue, r.namespace, r.typ, r.isDefinition)
	return err
}

// anchorRows runs the first pattern under the full filter stack, ordered
// by (directory, filename, line), per rule 4 step 1.
func anchorRows(db *sql.DB, pattern string, stack *filterStack) ([]resultRow, error) {
	sqlText := fmt.Sprintf(`
		SELECT %s FROM code_index
		WHERE symbol LIKE ? ESCAPE '\'%s
		ORDER BY directory, filename, line
	`, resultColumns, stack.where())
	args := append([]any{ConvertWildcard(pattern)}, stack.args...)

	rows, err := db.Query(sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query: anchor query: %w", err)
	}
	defer rows.Close()

	var out []resultRow
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// secondaryMatches checks, for one anchor row, that every distinct
// secondary pattern has at least one matching row within the line window,
// returning the union of those matching rows when all patterns hit.
func secondaryMatches(db *sql.DB, anchor resultRow, secondary []string, window int, stack *filterStack) ([]resultRow, bool, error) {
	var union []resultRow
	for _, p := range secondary {
		sqlText := fmt.Sprintf(`
			SELECT %s FROM code_index
			WHERE directory = ? AND filename = ? AND line BETWEEN ? AND ?
			AND symbol LIKE ? ESCAPE '\'%s
		`, resultColumns, stack.where())
		args := append([]any{anchor.directory, anchor.filename, anchor.line - window, anchor.line + window, ConvertWildcard(p)}, stack.args...)

		rows, err := db.Query(sqlText, args...)
		if err != nil {
			return nil, false, fmt.Errorf("query: secondary pattern %q: %w", p, err)
		}
		found := false
		for rows.Next() {
			r, err := scanRow(rows)
			if err != nil {
				rows.Close()
				return nil, false, err
			}
			union = append(union, r)
			found = true
		}
		closeErr := rows.Close()
		if err := rows.Err(); err != nil {
			return nil, false, err
		}
		if closeErr != nil {
			return nil, false, closeErr
		}
		if !found {
			return nil, false, nil
		}
	}
	return union, true, nil
}
