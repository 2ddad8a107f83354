// Package scanner walks source trees for the indexer. Adapted from
// fileman's internal/scanner/scanner.go: the same gitignore-up-the-tree
// loading, symlink handling, and directory-skip logic, generalized from
// fileman's single-provider.Aliases() extension check to sourceminder's
// lang.Registry (multi-language dispatch) and doublestar glob matching
// for --exclude-dir.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/ebcode/sourceminder/internal/lang"
)

// Scanner walks directories, filtering by the language registry's known
// extensions, gitignore rules, and explicit exclude-dir globs.
type Scanner struct {
	registry    *lang.Registry
	excludeDirs []string
	noGitignore bool
	gitignore   *ignore.GitIgnore
}

// Config holds scanner configuration options.
type Config struct {
	Registry    *lang.Registry
	ExcludeDirs []string
	NoGitignore bool
}

// New creates a scanner, loading .gitignore files up the directory tree
// from the current working directory unless NoGitignore is set.
func New(cfg Config) *Scanner {
	s := &Scanner{
		registry:    cfg.Registry,
		excludeDirs: cfg.ExcludeDirs,
		noGitignore: cfg.NoGitignore,
	}
	if !cfg.NoGitignore {
		s.loadGitignore()
	}
	return s
}

func (s *Scanner) loadGitignore() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	var gitignoreFiles []string
	dir := cwd
	for {
		gitignorePath := filepath.Join(dir, ".gitignore")
		if _, err := os.Stat(gitignorePath); err == nil {
			gitignoreFiles = append(gitignoreFiles, gitignorePath)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	if len(gitignoreFiles) == 0 {
		return
	}

	for i, j := 0, len(gitignoreFiles)-1; i < j; i, j = i+1, j-1 {
		gitignoreFiles[i], gitignoreFiles[j] = gitignoreFiles[j], gitignoreFiles[i]
	}

	if len(gitignoreFiles) == 1 {
		if gi, err := ignore.CompileIgnoreFile(gitignoreFiles[0]); err == nil {
			s.gitignore = gi
		}
		return
	}
	if gi, err := ignore.CompileIgnoreFileAndLines(gitignoreFiles[0], gitignoreFiles[1:]...); err == nil {
		s.gitignore = gi
	}
}

// ScanTargets walks each target (file or directory), returning the
// deduplicated list of files whose extension a registered dispatcher
// claims.
func (s *Scanner) ScanTargets(ctx context.Context, targets []string) ([]string, error) {
	if len(targets) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("scanner: getcwd: %w", err)
		}
		targets = []string{cwd}
	}

	var all []string
	for _, t := range targets {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		files, err := s.scanTarget(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("scanner: target %s: %w", t, err)
		}
		all = append(all, files...)
	}
	return dedup(all), nil
}

func (s *Scanner) scanTarget(ctx context.Context, target string) ([]string, error) {
	info, err := os.Lstat(target)
	if err != nil {
		return nil, fmt.Errorf("access %s: %w", target, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		resolved, err := filepath.EvalSymlinks(target)
		if err != nil {
			return nil, fmt.Errorf("resolve symlink %s: %w", target, err)
		}
		return s.scanTarget(ctx, resolved)
	}
	if info.Mode().IsRegular() {
		if s.shouldProcessFile(target) {
			return []string{target}, nil
		}
		return nil, nil
	}
	if info.IsDir() {
		return s.scanDirectory(ctx, target)
	}
	return nil, nil
}

func (s *Scanner) scanDirectory(ctx context.Context, dir string) ([]string, error) {
	var files []string
	err := fs.WalkDir(os.DirFS(dir), ".", func(relPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fullPath := filepath.Join(dir, relPath)
		if d.IsDir() {
			if s.shouldSkipDirectory(relPath) {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && s.shouldProcessFile(fullPath) {
			files = append(files, fullPath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return files, nil
}

func (s *Scanner) shouldProcessFile(path string) bool {
	if s.gitignore != nil {
		if rel, err := filepath.Rel(".", path); err == nil && s.gitignore.MatchesPath(rel) {
			return false
		}
	}
	if s.registry != nil {
		if !s.registry.KnownExtension(strings.ToLower(filepath.Ext(path))) {
			return false
		}
	}
	return true
}

var defaultSkipDirs = []string{".git", "vendor", "node_modules", "dist", "build"}

func (s *Scanner) shouldSkipDirectory(relPath string) bool {
	if relPath == "." {
		return false
	}
	if s.gitignore != nil {
		if s.gitignore.MatchesPath(relPath) {
			return true
		}
	}

	dirname := filepath.Base(relPath)
	for _, skip := range defaultSkipDirs {
		if dirname == skip {
			return true
		}
	}
	if strings.HasPrefix(dirname, ".") {
		return true
	}

	for _, pattern := range s.excludeDirs {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, dirname); ok {
			return true
		}
	}
	return false
}

func dedup(files []string) []string {
	seen := make(map[string]bool, len(files))
	var out []string
	for _, f := range files {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
