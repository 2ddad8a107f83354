package javascript

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
	ctx := &lang.EmitContext{Lang: model.JavaScript, Filename: "auth.js", Filter: f, Buf: buf}
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

func TestFunctionDeclarationAndArgs(t *testing.T) {
	rows := indexAll(t, "function validateUser(username, password) {\n  return username && password;\n}\n")
	fn := find(rows, "validateUser", model.ContextFunction)
	if fn == nil || !fn.IsDefinition {
		t.Fatal("expected validateUser function definition")
	}
	arg := find(rows, "username", model.ContextArgument)
	if arg == nil || arg.Parent != "validateUser" {
		t.Errorf("expected username argument parented to validateUser, got %+v", arg)
	}
}

func TestArrowAssignedToConst(t *testing.T) {
	rows := indexAll(t, "const greet = (name) => {\n  return name;\n};\n")
	fn := find(rows, "greet", model.ContextFunction)
	if fn == nil || fn.Clue != "arrow" {
		t.Errorf("expected greet arrow function, got %+v", fn)
	}
}

func TestClassAndMethod(t *testing.T) {
	rows := indexAll(t, "class User {\n  async greet() {\n    return this.name;\n  }\n}\n")
	if find(rows, "User", model.ContextClass) == nil {
		t.Error("expected User class")
	}
	m := find(rows, "greet", model.ContextFunction)
	if m == nil || m.Parent != "User" || m.Modifier != "async" {
		t.Errorf("expected async greet method parented to User, got %+v", m)
	}
}

func TestNamedImport(t *testing.T) {
	rows := indexAll(t, "import { readFile } from 'fs';\n")
	imp := find(rows, "readFile", model.ContextImport)
	if imp == nil || imp.Clue != "fs" {
		t.Errorf("expected readFile import from fs, got %+v", imp)
	}
}
