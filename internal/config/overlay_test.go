package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".smconfig")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadSectionSkipsCommentsAndOtherSections(t *testing.T) {
	path := writeConfig(t, "[other]\n--limit 5\n\n[qi]\n# a comment\n--limit 10\n--compact\n")
	lines, err := ReadSection(path, "qi")
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Fatalf("lines = %v, want 2", lines)
	}
	if lines[0][0] != "--limit" || lines[0][1] != "10" {
		t.Errorf("lines[0] = %v", lines[0])
	}
}

func TestReadSectionMissingFileIsNotAnError(t *testing.T) {
	lines, err := ReadSection(filepath.Join(t.TempDir(), "missing"), "qi")
	if err != nil || lines != nil {
		t.Errorf("expected (nil, nil) for missing file, got (%v, %v)", lines, err)
	}
}

func TestMergeCLIWinsOverConfig(t *testing.T) {
	cli := []string{"validateUser", "--limit", "5"}
	config := [][]string{{"--limit", "10"}, {"--compact"}}
	merged := Merge(cli, config)
	want := []string{"validateUser", "--limit", "5", "--compact"}
	if len(merged) != len(want) {
		t.Fatalf("merged = %v, want %v", merged, want)
	}
	for i := range want {
		if merged[i] != want[i] {
			t.Errorf("merged[%d] = %q, want %q", i, merged[i], want[i])
		}
	}
}
