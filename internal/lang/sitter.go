package lang

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ebcode/sourceminder/internal/extract"
)

// sitterNode adapts *sitter.Node to extract.Node, the thin seam that keeps
// tree-sitter out of the handler-writing surface of every language
// package. Grounded on providers/base/provider.go's direct use of
// node.Type()/StartByte()/EndByte()/StartPoint()/EndPoint()/ChildCount()/
// Child()/Parent().
type sitterNode struct {
	n *sitter.Node
}

// Wrap adapts a *sitter.Node (nil-safe) into an extract.Node.
func Wrap(n *sitter.Node) extract.Node {
	if n == nil {
		return nil
	}
	return sitterNode{n: n}
}

func (s sitterNode) Kind() string      { return s.n.Type() }
func (s sitterNode) StartByte() uint32 { return s.n.StartByte() }
func (s sitterNode) EndByte() uint32   { return s.n.EndByte() }
func (s sitterNode) StartRow() int     { return int(s.n.StartPoint().Row) }
func (s sitterNode) StartCol() int     { return int(s.n.StartPoint().Column) }
func (s sitterNode) EndRow() int       { return int(s.n.EndPoint().Row) }
func (s sitterNode) EndCol() int       { return int(s.n.EndPoint().Column) }
func (s sitterNode) ChildCount() int   { return int(s.n.ChildCount()) }
func (s sitterNode) Child(i int) extract.Node {
	return Wrap(s.n.Child(i))
}
func (s sitterNode) Parent() extract.Node { return Wrap(s.n.Parent()) }

// Unwrap recovers the underlying *sitter.Node, used by language packages
// that need tree-sitter-specific operations (ChildByFieldName) beyond the
// extract.Node contract.
func Unwrap(n extract.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	sn, ok := n.(sitterNode)
	if !ok {
		return nil
	}
	return sn.n
}

// FieldChild looks up a named field on node, the tree-sitter grammar
// feature every per-language config.go in the teacher's providers/
// package relies on (ChildByFieldName("name"), ("body"), ...).
func FieldChild(node extract.Node, field string) extract.Node {
	sn := Unwrap(node)
	if sn == nil {
		return nil
	}
	return Wrap(sn.ChildByFieldName(field))
}
