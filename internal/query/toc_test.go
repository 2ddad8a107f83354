package query

import "testing"

func TestBuildTOCGroupsByKindAndOrdersByLine(t *testing.T) {
	s := openFixture(t)
	toc, err := BuildTOC(s.DB(), TOCRequest{FilePatterns: []FilePattern{{Directory: "", Filename: "user.go"}}})
	if err != nil {
		t.Fatalf("BuildTOC: %v", err)
	}
	kinds := OrderedKinds(toc)
	if len(kinds) == 0 {
		t.Fatal("expected at least one kind in TOC")
	}
	found := false
	for _, entries := range toc {
		for _, e := range entries {
			if e.Symbol == "validateUser" {
				found = true
				if e.SourceLocation != "3:0-5:1" {
					t.Errorf("validateUser source_location = %q, want 3:0-5:1", e.SourceLocation)
				}
			}
		}
	}
	if !found {
		t.Error("expected validateUser definition in TOC")
	}
}
