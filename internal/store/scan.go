package store

import (
	"database/sql"

	"github.com/ebcode/sourceminder/internal/model"
)

// ScanSymbolColumns is the fixed column order ReplaceFile inserts in and
// every query package SELECT must request, so rows.Scan destinations line
// up without per-call reflection.
var ScanSymbolColumns = []string{
	"directory", "filename", "line", "symbol", "full_symbol", "context",
	"source_location", "parent", "scope", "modifier", "clue", "namespace", "type", "is_definition",
}

// SymbolDest returns nullable scan destinations in ScanSymbolColumns order.
type SymbolDest struct {
	Directory, Filename                                         string
	Line                                                         int
	Symbol, FullSymbol, Context                                  string
	SourceLocation, Parent, Scope, Modifier, Clue, Namespace, Type sql.NullString
	IsDefinition                                                 bool
}

func (d *SymbolDest) Pointers() []any {
	return []any{
		&d.Directory, &d.Filename, &d.Line, &d.Symbol, &d.FullSymbol, &d.Context,
		&d.SourceLocation, &d.Parent, &d.Scope, &d.Modifier, &d.Clue, &d.Namespace, &d.Type, &d.IsDefinition,
	}
}

// ToSymbol converts a scanned row into a model.Symbol, collapsing SQL NULLs
// to empty strings.
func (d *SymbolDest) ToSymbol() model.Symbol {
	return model.Symbol{
		Directory: d.Directory, Filename: d.Filename, Line: d.Line,
		Symbol: d.Symbol, FullSymbol: d.FullSymbol, Context: model.Context(d.Context),
		SourceLocation: d.SourceLocation.String, Parent: d.Parent.String, Scope: d.Scope.String,
		Modifier: d.Modifier.String, Clue: d.Clue.String, Namespace: d.Namespace.String, Type: d.Type.String,
		IsDefinition: d.IsDefinition,
	}
}
