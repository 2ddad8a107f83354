package query

import (
	"path/filepath"
	"testing"

	"github.com/ebcode/sourceminder/internal/model"
	"github.com/ebcode/sourceminder/internal/store"
)

func TestConvertWildcardIdempotent(t *testing.T) {
	cases := []string{"validate*", "a.b", `\*literal`, "plain"}
	for _, c := range cases {
		once := ConvertWildcard(c)
		twice := ConvertWildcard(once)
		if once != twice {
			t.Errorf("ConvertWildcard(%q) = %q, applying again = %q, want idempotent", c, once, twice)
		}
	}
}

func openFixture(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	rows := []model.Symbol{
		{Directory: "auth", Filename: "user.go", Line: 3, Symbol: "validateuser", FullSymbol: "validateUser", Context: model.ContextFunction, IsDefinition: true, SourceLocation: "3:0-5:1"},
		{Directory: "auth", Filename: "user.go", Line: 3, Symbol: "username", FullSymbol: "username", Context: model.ContextArgument, Parent: "validateUser", IsDefinition: true},
		{Directory: "auth", Filename: "user.go", Line: 3, Symbol: "password", FullSymbol: "password", Context: model.ContextArgument, Parent: "validateUser", IsDefinition: true},
		{Directory: "auth", Filename: "user.go", Line: 4, Symbol: "username", FullSymbol: "username", Context: model.ContextVariable},
		{Directory: "auth", Filename: "user.go", Line: 10, Symbol: "password", FullSymbol: "password", Context: model.ContextVariable},
	}
	if err := s.ReplaceFile("auth", "user.go", rows); err != nil {
		t.Fatalf("ReplaceFile: %v", err)
	}
	return s
}

func TestPlanORModeSingleSymbol(t *testing.T) {
	s := openFixture(t)
	plan, err := Plan(s.DB(), Request{Patterns: []string{"username"}, LineRange: -1})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	rows, err := s.DB().Query(plan.SQL, plan.Args...)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()
	count := 0
	for rows.Next() {
		count++
	}
	if count != 2 {
		t.Errorf("OR-mode username matches = %d, want 2", count)
	}
}

func TestPlanSameLineIntersect(t *testing.T) {
	s := openFixture(t)
	plan, err := Plan(s.DB(), Request{Patterns: []string{"username", "password"}, LineRange: 0})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	rows, err := s.DB().Query(plan.SQL, plan.Args...)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()
	lines := map[int]bool{}
	for rows.Next() {
		var dest store.SymbolDest
		if err := rows.Scan(dest.Pointers()...); err != nil {
			t.Fatal(err)
		}
		lines[dest.Line] = true
	}
	if !lines[3] || len(lines) != 1 {
		t.Errorf("same-line intersect lines = %v, want only line 3 (where both args co-occur)", lines)
	}
}

func TestPlanProximityWindow(t *testing.T) {
	s := openFixture(t)
	plan, err := Plan(s.DB(), Request{Patterns: []string{"username", "password"}, LineRange: 2})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	rows, err := s.DB().Query(plan.SQL, plan.Args...)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()
	lines := map[int]bool{}
	for rows.Next() {
		var dest store.SymbolDest
		if err := rows.Scan(dest.Pointers()...); err != nil {
			t.Fatal(err)
		}
		lines[dest.Line] = true
	}
	// line 10's password has no username within +/-2 lines, so it must be excluded.
	if lines[10] {
		t.Errorf("proximity window wrongly included isolated line 10: %v", lines)
	}
	if !lines[3] && !lines[4] {
		t.Errorf("proximity window missed the co-occurring lines 3/4: %v", lines)
	}
}

func TestResolveWithinMissingDefinitionIsError(t *testing.T) {
	s := openFixture(t)
	_, err := ResolveWithin(s.DB(), []string{"doesNotExist"})
	if err == nil {
		t.Fatal("expected error for missing definition")
	}
}

func TestResolveWithinFindsDefinition(t *testing.T) {
	s := openFixture(t)
	ranges, err := ResolveWithin(s.DB(), []string{"validateUser"})
	if err != nil {
		t.Fatalf("ResolveWithin: %v", err)
	}
	if len(ranges) != 1 || ranges[0].StartLine != 3 || ranges[0].EndLine != 5 {
		t.Errorf("ranges = %+v, want one range 3-5", ranges)
	}
}

func TestParseFilePatternNormalization(t *testing.T) {
	cases := []struct {
		raw      string
		wantDir  string
		wantFile string
	}{
		{"auth/user.go", "%/auth", "user.go"},
		{"./auth/user.go", "./auth", "user.go"},
		{"/abs/auth/user.go", "/abs/auth", "user.go"},
		{".go", "", "*.go"},
	}
	for _, c := range cases {
		got := ParseFilePattern(c.raw)
		if got.Directory != c.wantDir || got.Filename != c.wantFile {
			t.Errorf("ParseFilePattern(%q) = %+v, want dir=%q file=%q", c.raw, got, c.wantDir, c.wantFile)
		}
	}
}
