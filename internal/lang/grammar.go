// Package lang is the AST dispatcher (spec component B): it defines the
// minimal grammar contract every language package adapts its tree-sitter
// grammar to, and maintains the registry that maps a file extension to its
// Dispatcher. Language packages dispatch by comparing node-kind strings;
// kinds are not interned into integer symbols.
//
// The contract mirrors spec.md's Design Notes cursor primitive and is
// grounded on providers/base/provider.go's walkTree/checkNode pattern,
// generalized from "find matches for a DSL query" to "emit one symbol
// record per salient node."
package lang

import (
	"strings"

	"github.com/ebcode/sourceminder/internal/buffer"
	"github.com/ebcode/sourceminder/internal/extract"
	"github.com/ebcode/sourceminder/internal/filter"
	"github.com/ebcode/sourceminder/internal/model"
)

// EmitContext carries the per-file state handlers need beyond the current
// node: the active filter, the language being parsed, the file's
// (directory, filename) pair for every emitted row, and the buffer to
// write into. It is the "location_context" argument spec.md's handler
// signature names. It carries no debug flag; that lives in internal/logx.
type EmitContext struct {
	Lang      model.Language
	Directory string
	Filename  string
	Filter    *filter.Filter
	Buf       *buffer.Buffer
	Source    []byte
}

// Emit fills in the (directory, filename) pair and lowercases Symbol
// before appending the record, so handlers never have to repeat that
// bookkeeping.
func (c *EmitContext) Emit(s model.Symbol) {
	s.Directory = c.Directory
	s.Filename = c.Filename
	s.Symbol = strings.ToLower(s.FullSymbol)
	c.Buf.Emit(s)
}

// Dispatcher is implemented once per supported language.
type Dispatcher interface {
	Language() model.Language
	Extensions() []string
	// Parse turns source bytes into a root extract.Node. Implementations
	// own the underlying tree-sitter tree and must release it (tree.Close())
	// once Walk returns; Dispatch below does this for callers.
	Parse(src []byte) (root extract.Node, release func(), err error)
	// Walk traverses root, emitting one or more symbol records per
	// salient node via ctx.Emit. Unrecognized nodes recurse into their
	// children; this is the per-language handler table of spec.md §4.2.
	Walk(root extract.Node, ctx *EmitContext)
}

// Dispatch parses src with d and walks it, handling tree release.
func Dispatch(d Dispatcher, src []byte, ctx *EmitContext) error {
	root, release, err := d.Parse(src)
	if err != nil {
		return err
	}
	defer release()
	ctx.Source = src
	d.Walk(root, ctx)
	return nil
}
