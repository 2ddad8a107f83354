package typescript

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
	ctx := &lang.EmitContext{Lang: model.TypeScript, Filename: "auth.ts", Filter: f, Buf: buf}
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

func TestInterfaceAndExtends(t *testing.T) {
	rows := indexAll(t, "interface Named {\n  name: string;\n}\ninterface User extends Named {\n  id: number;\n}\n")
	if find(rows, "User", model.ContextInterface) == nil {
		t.Error("expected User interface")
	}
	ext := find(rows, "Named", model.ContextType)
	if ext == nil || ext.Clue != "extends" {
		t.Errorf("expected Named extends type, got %+v", ext)
	}
}

func TestFunctionWithTypedParams(t *testing.T) {
	rows := indexAll(t, "function validateUser(username: string, password: string): boolean {\n  return username.length > 0 && password.length > 0;\n}\n")
	fn := find(rows, "validateUser", model.ContextFunction)
	if fn == nil || fn.Type != "boolean" {
		t.Errorf("expected validateUser returning boolean, got %+v", fn)
	}
	arg := find(rows, "username", model.ContextArgument)
	if arg == nil || arg.Type != "string" {
		t.Errorf("expected username: string argument, got %+v", arg)
	}
}

func TestClassImplementsInterface(t *testing.T) {
	rows := indexAll(t, "class Account implements Named {\n  private name: string;\n}\n")
	impl := find(rows, "Named", model.ContextType)
	if impl == nil || impl.Clue != "implements" {
		t.Errorf("expected Named implements type, got %+v", impl)
	}
	prop := find(rows, "name", model.ContextProperty)
	if prop == nil || prop.Scope != "private" || prop.Type != "string" {
		t.Errorf("expected private name: string property, got %+v", prop)
	}
}

func TestEnumMembers(t *testing.T) {
	rows := indexAll(t, "enum Role {\n  Admin,\n  Member,\n}\n")
	if find(rows, "Role", model.ContextEnum) == nil {
		t.Error("expected Role enum")
	}
	m := find(rows, "Admin", model.ContextCase)
	if m == nil || m.Parent != "Role" {
		t.Errorf("expected Admin case parented to Role, got %+v", m)
	}
}
