package python

import (
	"testing"

	"github.com/ebcode/sourceminder/internal/buffer"
	"github.com/ebcode/sourceminder/internal/filter"
	"github.com/ebcode/sourceminder/internal/lang"
	"github.com/ebcode/sourceminder/internal/model"
)

func indexAll(t *testing.T, src string) []model.Symbol {
	t.Helper()
	f, err := filter.Load(filter.Config{MinLength: 2})
	if err != nil {
		t.Fatal(err)
	}
	buf := buffer.New(16)
	ctx := &lang.EmitContext{Lang: model.Python, Filename: "auth.py", Filter: f, Buf: buf}
	if err := lang.Dispatch(New(), []byte(src), ctx); err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}
	return buf.Rows()
}

func find(rows []model.Symbol, name string, ctx model.Context) *model.Symbol {
	for i := range rows {
		if rows[i].FullSymbol == name && rows[i].Context == ctx {
			return &rows[i]
		}
	}
	return nil
}

func TestWalrusOperator(t *testing.T) {
	rows := indexAll(t, "if (n := len(data)) > 0:\n    pass\n")
	v := find(rows, "n", model.ContextVariable)
	if v == nil || v.Clue != ":=" {
		t.Errorf("expected walrus variable n with clue :=, got %+v", v)
	}
}

func TestFunctionAndArgs(t *testing.T) {
	rows := indexAll(t, "def validate_user(username, password):\n    return username and password\n")
	fn := find(rows, "validate_user", model.ContextFunction)
	if fn == nil || !fn.IsDefinition {
		t.Fatal("expected validate_user definition")
	}
	arg := find(rows, "username", model.ContextArgument)
	if arg == nil || arg.Parent != "validate_user" {
		t.Errorf("expected username argument parented to validate_user, got %+v", arg)
	}
}

func TestClassAndMethodParent(t *testing.T) {
	rows := indexAll(t, "class User:\n    def greet(self):\n        return self.name\n")
	if find(rows, "User", model.ContextClass) == nil {
		t.Error("expected User class")
	}
	m := find(rows, "greet", model.ContextFunction)
	if m == nil || m.Parent != "User" {
		t.Errorf("expected greet method parented to User, got %+v", m)
	}
}

func TestExceptBinding(t *testing.T) {
	rows := indexAll(t, "try:\n    pass\nexcept ValueError as exc:\n    pass\n")
	if find(rows, "ValueError", model.ContextException) == nil {
		t.Error("expected ValueError exception binding")
	}
}
