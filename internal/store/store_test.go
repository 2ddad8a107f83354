package store

import (
	"path/filepath"
	"testing"

	"github.com/ebcode/sourceminder/internal/model"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestReplaceFileIsIdempotent(t *testing.T) {
	s := openTemp(t)
	symbols := []model.Symbol{
		{Directory: "auth", Filename: "user.go", Line: 3, Symbol: "validateuser", FullSymbol: "validateUser", Context: model.ContextFunction, IsDefinition: true},
		{Directory: "auth", Filename: "user.go", Line: 3, Symbol: "username", FullSymbol: "username", Context: model.ContextArgument, Parent: "validateUser", IsDefinition: true},
	}
	if err := s.ReplaceFile("auth", "user.go", symbols); err != nil {
		t.Fatalf("ReplaceFile: %v", err)
	}
	if err := s.ReplaceFile("auth", "user.go", symbols); err != nil {
		t.Fatalf("ReplaceFile (second pass): %v", err)
	}

	var count int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM code_index WHERE directory = ? AND filename = ?`, "auth", "user.go").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != len(symbols) {
		t.Errorf("row count after two ReplaceFile calls = %d, want %d (no duplication)", count, len(symbols))
	}
}

func TestReplaceFileScopedToOwnFile(t *testing.T) {
	s := openTemp(t)
	if err := s.ReplaceFile("auth", "user.go", []model.Symbol{{Directory: "auth", Filename: "user.go", Line: 1, Symbol: "a", FullSymbol: "a", Context: model.ContextVariable}}); err != nil {
		t.Fatal(err)
	}
	if err := s.ReplaceFile("auth", "session.go", []model.Symbol{{Directory: "auth", Filename: "session.go", Line: 1, Symbol: "b", FullSymbol: "b", Context: model.ContextVariable}}); err != nil {
		t.Fatal(err)
	}

	var total int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM code_index`).Scan(&total); err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Errorf("total rows = %d, want 2", total)
	}

	if err := s.ReplaceFile("auth", "user.go", nil); err != nil {
		t.Fatal(err)
	}
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM code_index`).Scan(&total); err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("total rows after clearing user.go = %d, want 1", total)
	}
}

func TestOpenReadOnlyRequiresExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")
	if _, err := OpenReadOnly(path); err == nil {
		t.Error("expected error opening read-only store against nonexistent file")
	}
}
