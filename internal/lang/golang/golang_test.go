package golang

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
	ctx := &lang.EmitContext{
		Lang:      model.Go,
		Directory: "",
		Filename:  "auth.go",
		Filter:    f,
		Buf:       buf,
	}
	d := New()
	if err := lang.Dispatch(d, []byte(src), ctx); err != nil {
		t.Fatalf("Dispatch error: %v", err)
	}
	return buf.Rows()
}

func findSymbol(rows []model.Symbol, name string, ctx model.Context) *model.Symbol {
	for i := range rows {
		if rows[i].FullSymbol == name && rows[i].Context == ctx {
			return &rows[i]
		}
	}
	return nil
}

// TestValidateUserScenario mirrors spec.md §8 scenario 1.
func TestValidateUserScenario(t *testing.T) {
	src := `package auth

func validateUser(username, password string) bool {
	return username != "" && password != ""
}
`
	rows := indexAll(t, src)

	fn := findSymbol(rows, "validateUser", model.ContextFunction)
	if fn == nil {
		t.Fatal("expected validateUser function definition")
	}
	if !fn.IsDefinition || fn.SourceLocation == "" {
		t.Errorf("validateUser: IsDefinition=%v SourceLocation=%q, want populated definition", fn.IsDefinition, fn.SourceLocation)
	}

	for _, argName := range []string{"username", "password"} {
		arg := findSymbol(rows, argName, model.ContextArgument)
		if arg == nil {
			t.Fatalf("expected argument %s", argName)
		}
		if arg.Clue != "validateUser" {
			t.Errorf("argument %s: Clue = %q, want validateUser", argName, arg.Clue)
		}
		if !arg.IsDefinition {
			t.Errorf("argument %s: IsDefinition = false, want true", argName)
		}
	}
}

func TestFilenameTokenEmittedOnce(t *testing.T) {
	rows := indexAll(t, "package auth\n")
	count := 0
	for _, r := range rows {
		if r.Context == model.ContextFilename {
			count++
			if r.Line != 1 || r.FullSymbol != "auth" {
				t.Errorf("filename token = %+v, want line 1 auth", r)
			}
		}
	}
	if count != 1 {
		t.Errorf("filename token emitted %d times, want 1", count)
	}
}

func TestCallAndSelector(t *testing.T) {
	src := `package main

func run() {
	Logger.Info("go")
}
`
	rows := indexAll(t, src)
	call := findSymbol(rows, "Info", model.ContextCall)
	if call == nil {
		t.Fatal("expected call record for Info")
	}
	if call.Parent != "Logger" || call.Modifier != "static" {
		t.Errorf("call Info: Parent=%q Modifier=%q, want Logger/static", call.Parent, call.Modifier)
	}
}

func TestStructFieldsAndMethodReceiverParent(t *testing.T) {
	src := `package main

type User struct {
	Name string
}

func (u *User) Greet() string {
	return u.Name
}
`
	rows := indexAll(t, src)
	if findSymbol(rows, "User", model.ContextClass) == nil {
		t.Error("expected User class-like definition")
	}
	field := findSymbol(rows, "Name", model.ContextProperty)
	if field == nil || field.Parent != "User" {
		t.Errorf("expected Name property with parent User, got %+v", field)
	}
	method := findSymbol(rows, "Greet", model.ContextFunction)
	if method == nil || method.Parent != "User" {
		t.Errorf("expected Greet method with parent User, got %+v", method)
	}
}
