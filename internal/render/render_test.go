package render

import (
	"bytes"
	"testing"

	"github.com/ebcode/sourceminder/internal/model"
)

func TestResolveColumnsDefaultsAndAll(t *testing.T) {
	if got := resolveColumns(nil); len(got) != 3 {
		t.Errorf("default columns = %v, want 3 columns", got)
	}
	if got := resolveColumns([]string{"all"}); len(got) != len(allColumns) {
		t.Errorf("all columns = %v, want %d columns", got, len(allColumns))
	}
}

func TestFormatRowCompactUsesTabs(t *testing.T) {
	s := model.Symbol{Line: 3, Context: model.ContextFunction, FullSymbol: "validateUser"}
	row := formatRow(s, []string{"line", "context", "symbol"}, map[string]int{"line": 1, "context": 8, "symbol": 12}, true)
	if row != "3\tfunction\tvalidateUser" {
		t.Errorf("compact row = %q", row)
	}
}

func TestRenderFilesOnlyDeduplicatesAndSorts(t *testing.T) {
	symbols := []model.Symbol{
		{Directory: "b", Filename: "z.go"},
		{Directory: "a", Filename: "m.go"},
		{Directory: "a", Filename: "m.go"},
	}
	var buf bytes.Buffer
	if err := renderFilesOnly(&buf, symbols); err != nil {
		t.Fatal(err)
	}
	want := "a/m.go\nb/z.go\n"
	if buf.String() != want {
		t.Errorf("files-only output = %q, want %q", buf.String(), want)
	}
}

func TestHighlightWrapsLiteralCaseInsensitively(t *testing.T) {
	out := highlight("call Validate(user)", []string{"validate"})
	if out == "call Validate(user)" {
		t.Error("expected highlight to modify the line")
	}
}
