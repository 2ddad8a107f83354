package extract

import "testing"

type fakeNode struct {
	kind                             string
	startByte, endByte               uint32
	startRow, startCol, endRow, endCol int
	children                         []*fakeNode
	parent                           *fakeNode
}

func (n *fakeNode) Kind() string       { return n.kind }
func (n *fakeNode) StartByte() uint32  { return n.startByte }
func (n *fakeNode) EndByte() uint32    { return n.endByte }
func (n *fakeNode) StartRow() int      { return n.startRow }
func (n *fakeNode) StartCol() int      { return n.startCol }
func (n *fakeNode) EndRow() int        { return n.endRow }
func (n *fakeNode) EndCol() int        { return n.endCol }
func (n *fakeNode) ChildCount() int    { return len(n.children) }
func (n *fakeNode) Child(i int) Node   { return n.children[i] }
func (n *fakeNode) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func TestTextBounded(t *testing.T) {
	src := []byte("hello world")
	n := &fakeNode{startByte: 0, endByte: 5}
	if got := Text(n, src); got != "hello" {
		t.Errorf("Text = %q, want hello", got)
	}
}

func TestFormatLocation(t *testing.T) {
	n := &fakeNode{startRow: 44, startCol: 0, endRow: 53, endCol: 1}
	if got := FormatLocation(n); got != "45:0-54:1" {
		t.Errorf("FormatLocation = %q, want 45:0-54:1", got)
	}
}

func TestEnclosingNamed(t *testing.T) {
	class := &fakeNode{kind: "class_declaration"}
	method := &fakeNode{kind: "method_declaration", parent: class}
	param := &fakeNode{kind: "parameter", parent: method}

	got := EnclosingNamed(param, "class_declaration", "function_declaration")
	if got == nil || got.Kind() != "class_declaration" {
		t.Errorf("EnclosingNamed = %v, want class_declaration", got)
	}
}

func TestCleanPath(t *testing.T) {
	dir, file := CleanPath("/proj", "/proj/src/auth.go")
	if dir != "src/" || file != "auth.go" {
		t.Errorf("CleanPath = (%q, %q), want (src/, auth.go)", dir, file)
	}
	dir, file = CleanPath("/proj", "/proj/main.go")
	if dir != "" || file != "main.go" {
		t.Errorf("CleanPath root = (%q, %q), want (\"\", main.go)", dir, file)
	}
}
