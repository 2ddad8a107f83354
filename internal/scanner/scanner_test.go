package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ebcode/sourceminder/internal/lang"
	_ "github.com/ebcode/sourceminder/internal/lang/golang"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanTargetsFiltersByKnownExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n")
	writeFile(t, dir, "README.md", "hello\n")

	s := New(Config{Registry: lang.Default, NoGitignore: true})
	files, err := s.ScanTargets(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("ScanTargets: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "main.go" {
		t.Errorf("files = %v, want only main.go", files)
	}
}

func TestScanTargetsSkipsVendorAndGit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "vendor/pkg/x.go", "package x\n")
	writeFile(t, dir, ".git/hooks/x.go", "package x\n")
	writeFile(t, dir, "src/main.go", "package main\n")

	s := New(Config{Registry: lang.Default, NoGitignore: true})
	files, err := s.ScanTargets(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("ScanTargets: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "main.go" {
		t.Errorf("files = %v, want only src/main.go", files)
	}
}

func TestScanTargetsHonorsExcludeDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "generated/x.go", "package x\n")
	writeFile(t, dir, "src/main.go", "package main\n")

	s := New(Config{Registry: lang.Default, NoGitignore: true, ExcludeDirs: []string{"generated"}})
	files, err := s.ScanTargets(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("ScanTargets: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "main.go" {
		t.Errorf("files = %v, want only src/main.go", files)
	}
}
