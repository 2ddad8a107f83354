// Package store is the SQLite-backed index store. Grounded on
// internal/db/db.go's Open/Migrate pattern: the same WAL pragma string,
// the same execWithRetry "database is locked" retry loop, and the same
// PRAGMA quick_check sanity pass, generalized from morfx's run-tracking
// schema to the flat code_index symbol table spec.md §5 names.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ebcode/sourceminder/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS code_index (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	directory TEXT NOT NULL,
	filename TEXT NOT NULL,
	line INTEGER NOT NULL,
	symbol TEXT NOT NULL,
	full_symbol TEXT NOT NULL,
	context TEXT NOT NULL,
	source_location TEXT,
	parent TEXT,
	scope TEXT,
	modifier TEXT,
	clue TEXT,
	namespace TEXT,
	type TEXT,
	is_definition INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_code_index_file ON code_index (filename, directory);
CREATE INDEX IF NOT EXISTS idx_code_index_symbol ON code_index (symbol);
CREATE INDEX IF NOT EXISTS idx_code_index_proximity ON code_index (directory, filename, line);
`

// Store wraps a SQLite connection opened against the index database file.
type Store struct {
	db       *sql.DB
	readOnly bool
}

// Open creates (if necessary) and opens the index database in WAL mode,
// applying the schema migration. Matches the _busy_timeout/_journal_mode
// pragma string db.Open uses for the morfx run database.
func Open(path string) (*Store, error) {
	if err := ensureFile(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate %s: %w", path, err)
	}
	if err := quickCheck(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: quick_check %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// OpenReadOnly opens an existing index database without creating it or
// applying migrations, for the query side of the tool.
func OpenReadOnly(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("store: index database %s does not exist: %w", path, err)
	}
	db, err := sql.Open("sqlite3", dsn(path)+"&mode=ro")
	if err != nil {
		return nil, fmt.Errorf("store: open read-only %s: %w", path, err)
	}
	return &Store{db: db, readOnly: true}, nil
}

func dsn(path string) string {
	return fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL&_temp_store=MEMORY", path)
}

func ensureFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o644)
	if err != nil {
		return fmt.Errorf("store: create %s: %w", path, err)
	}
	return f.Close()
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}

func quickCheck(db *sql.DB) error {
	var result string
	if err := db.QueryRow("PRAGMA quick_check;").Scan(&result); err != nil {
		return err
	}
	if result != "ok" {
		return fmt.Errorf("quick_check failed: %s", result)
	}
	return nil
}

// DB exposes the underlying *sql.DB for packages (query) that need raw
// access for planner-built SQL.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

const maxRetries = 5

func execWithRetry(db *sql.DB, query string, args ...any) (sql.Result, error) {
	var res sql.Result
	var err error
	for range maxRetries {
		res, err = db.Exec(query, args...)
		if err == nil {
			return res, nil
		}
		if strings.Contains(err.Error(), "database is locked") {
			time.Sleep(200 * time.Millisecond)
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("execWithRetry: database is locked after %d retries: %w", maxRetries, err)
}

func execWithRetryTx(tx *sql.Tx, query string, args ...any) (sql.Result, error) {
	var res sql.Result
	var err error
	for range maxRetries {
		res, err = tx.Exec(query, args...)
		if err == nil {
			return res, nil
		}
		if strings.Contains(err.Error(), "database is locked") {
			time.Sleep(200 * time.Millisecond)
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("execWithRetryTx: database is locked after %d retries: %w", maxRetries, err)
}

// ReplaceFile atomically replaces all rows for (directory, filename) with
// the given symbols: DELETE then bulk INSERT inside one transaction, per
// spec.md's per-file reindex invariant.
func (s *Store) ReplaceFile(directory, filename string, symbols []model.Symbol) error {
	if s.readOnly {
		return fmt.Errorf("store: ReplaceFile called on read-only store")
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := execWithRetryTx(tx, `DELETE FROM code_index WHERE directory = ? AND filename = ?`, directory, filename); err != nil {
		return fmt.Errorf("store: delete %s/%s: %w", directory, filename, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO code_index
			(directory, filename, line, symbol, full_symbol, context, source_location, parent, scope, modifier, clue, namespace, type, is_definition)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, sym := range symbols {
		isDef := 0
		if sym.IsDefinition {
			isDef = 1
		}
		if _, err := stmt.Exec(sym.Directory, sym.Filename, sym.Line, sym.Symbol, sym.FullSymbol, string(sym.Context), sym.SourceLocation, sym.Parent, sym.Scope, sym.Modifier, sym.Clue, sym.Namespace, sym.Type, isDef); err != nil {
			return fmt.Errorf("store: insert row for %s:%d: %w", filename, sym.Line, err)
		}
	}

	return tx.Commit()
}

// RemoveFile deletes all rows for a file that no longer exists on disk,
// used when the indexer notices a deletion during a rescan.
func (s *Store) RemoveFile(directory, filename string) error {
	_, err := execWithRetry(s.db, `DELETE FROM code_index WHERE directory = ? AND filename = ?`, directory, filename)
	return err
}

// CheckpointWAL truncates the WAL file once it grows past thresholdBytes,
// mirroring db.CheckWALSizeAndCheckpoint's size-triggered checkpoint.
func (s *Store) CheckpointWAL(path string, thresholdBytes int64) error {
	info, err := os.Stat(path + "-wal")
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return err
	}
	if info.Size() > thresholdBytes {
		_, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE);")
		return err
	}
	return nil
}
