// Package query is the planner/proximity/within/TOC engine that turns a
// structured Request into SQL against internal/store's code_index table.
// Grounded on the teacher's internal/parser/universal.go wildcard/operator
// translation, generalized from its DSL surface to spec.md §4.6's flag-rich
// request shape.
package query

import (
	"errors"
	"fmt"

	"github.com/ebcode/sourceminder/internal/model"
)

// ErrNoSuchDefinition is returned by ResolveWithin when a requested symbol
// has no is_definition=1 row — spec.md §4.9's fatal user error.
var ErrNoSuchDefinition = errors.New("query: no such definition")

// FilePattern is a directory/filename match produced by splitting a raw
// -f/--file argument on its last slash.
type FilePattern struct {
	Directory string
	Filename  string
}

// ColumnFilter is one extensible-column predicate: a list of patterns
// joined by OR against a single code_index column.
type ColumnFilter struct {
	Column   string
	Patterns []string
}

// Request is the fully parsed query, independent of how it was produced
// (CLI flags, config overlay, or a future programmatic caller).
type Request struct {
	Patterns       []string
	Include        []model.Context
	Exclude        []model.Context
	FilePatterns   []FilePattern
	LineRange      int // -1 disabled, 0 same-line, >0 within N lines
	LineFilterSet  bool
	LineStart      int
	LineEnd        int
	WithinSymbols  []string
	ColumnFilters  []ColumnFilter
	Limit          int
	LimitPerFile   int
	FilesOnly      bool
	ShowColumns    []string
	Expand         bool
	ContextBefore  int
	ContextAfter   int
	Compact        bool
}

// WithinRange is one resolved --within definition's source span.
type WithinRange struct {
	Directory string
	Filename  string
	StartLine int
	EndLine   int
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("query: "+format, args...)
}
