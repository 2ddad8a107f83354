// Package extract holds the small toolbox of extraction primitives (spec
// component C) shared by every language's AST dispatcher: bounded text
// slicing, location formatting, comment/string word splitting, and
// project-relative path canonicalization.
package extract

import (
	"path/filepath"
	"strings"

	"github.com/ebcode/sourceminder/internal/model"
)

// Node is the minimal parse-tree contract the dispatcher needs, matching
// spec.md's Design Notes cursor primitive. Language packages adapt their
// tree-sitter node into this shape at the call site rather than leaking
// *sitter.Node through the whole package, keeping handlers host-agnostic.
type Node interface {
	Kind() string
	StartByte() uint32
	EndByte() uint32
	StartRow() int // 0-based
	StartCol() int // 0-based
	EndRow() int
	EndCol() int
	ChildCount() int
	Child(i int) Node
	Parent() Node
}

// Text returns a bounded substring of src for node, never exceeding
// model.MaxSymbolLength bytes. This is the safe-slicing primitive handlers
// use instead of indexing src directly.
func Text(n Node, src []byte) string {
	start, end := n.StartByte(), n.EndByte()
	if int(start) > len(src) || int(end) > len(src) || start > end {
		return ""
	}
	s := src[start:end]
	if len(s) > model.MaxSymbolLength {
		s = s[:model.MaxSymbolLength]
	}
	return string(s)
}

// FormatLocation produces "startLine:startCol-endLine:endCol" for a
// definition-spanning node, using 1-based lines and 0-based columns to
// match spec.md's scenario 1 example ("45:0-54:1").
func FormatLocation(n Node) string {
	return model.FormatLocation(model.Location{
		StartLine: n.StartRow() + 1,
		StartCol:  n.StartCol(),
		EndLine:   n.EndRow() + 1,
		EndCol:    n.EndCol(),
	})
}

// Line returns the 1-based source line a node starts on.
func Line(n Node) int { return n.StartRow() + 1 }

// EnclosingNamed walks up from node until it finds the first ancestor
// whose kind is in kinds, returning nil if none exists before the root.
func EnclosingNamed(n Node, kinds ...string) Node {
	want := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		want[k] = struct{}{}
	}
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		if _, ok := want[cur.Kind()]; ok {
			return cur
		}
	}
	return nil
}

// CleanPath canonicalizes an absolute (or root-relative) file path into a
// (directory, filename) pair relative to root. directory always ends in
// '/' and is empty for files at the project root, per spec.md §3.
func CleanPath(root, path string) (directory, filename string) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	dir, file := filepath.Split(rel)
	dir = filepath.ToSlash(dir)
	if dir == "./" {
		dir = ""
	}
	return dir, file
}

// Stem returns a filename without its final extension, used to emit the
// once-per-file filename token (spec.md §4.2).
func Stem(filename string) string {
	ext := filepath.Ext(filename)
	return strings.TrimSuffix(filename, ext)
}
