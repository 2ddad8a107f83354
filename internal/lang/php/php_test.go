package php

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
	ctx := &lang.EmitContext{Lang: model.PHP, Filename: "Auth.php", Filter: f, Buf: buf}
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

func TestClassAndImplements(t *testing.T) {
	src := "<?php\nclass User implements Stringable {\n}\n"
	rows := indexAll(t, src)
	if find(rows, "User", model.ContextClass) == nil {
		t.Error("expected User class")
	}
	impl := find(rows, "Stringable", model.ContextType)
	if impl == nil || impl.Clue != "implements" {
		t.Errorf("expected Stringable implements type, got %+v", impl)
	}
}

func TestMethodVisibilityAndModifierPriority(t *testing.T) {
	src := "<?php\nclass User {\n    abstract public static function validate($username, $password) {}\n}\n"
	rows := indexAll(t, src)
	m := find(rows, "validate", model.ContextFunction)
	if m == nil {
		t.Fatal("expected validate method")
	}
	if m.Scope != "public" {
		t.Errorf("expected public scope, got %q", m.Scope)
	}
	if m.Modifier != "abstract" {
		t.Errorf("expected abstract to win modifier priority, got %q", m.Modifier)
	}
	if m.Parent != "User" {
		t.Errorf("expected method parented to User, got %q", m.Parent)
	}
	arg := find(rows, "username", model.ContextArgument)
	if arg == nil || arg.Clue != "" {
		t.Errorf("expected username argument, got %+v", arg)
	}
}

func TestConstructorPropertyPromotion(t *testing.T) {
	src := "<?php\nclass User {\n    public function __construct(private string $name) {}\n}\n"
	rows := indexAll(t, src)
	arg := find(rows, "name", model.ContextArgument)
	if arg == nil {
		t.Fatal("expected name argument")
	}
	prop := find(rows, "name", model.ContextProperty)
	if prop == nil || prop.Parent != "User" || prop.Scope != "private" {
		t.Errorf("expected promoted private property name on User, got %+v", prop)
	}
}

func TestScopedStaticCall(t *testing.T) {
	src := "<?php\nfunction run() {\n    Logger::info(\"go\");\n}\n"
	rows := indexAll(t, src)
	call := find(rows, "info", model.ContextCall)
	if call == nil || call.Parent != "Logger" || call.Modifier != "static" {
		t.Errorf("expected static Logger::info call, got %+v", call)
	}
}
