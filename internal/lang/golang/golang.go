// Package golang is the Go AST dispatcher. Grounded on
// providers/golang/config.go's node-type vocabulary (function_declaration,
// method_declaration, type_spec, var_declaration, const_declaration,
// import_declaration, field_declaration, call_expression), generalized
// from "map a DSL query type to matching node types" into "emit a full
// symbol record per salient node" per spec.md §4.2.
package golang

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsgolang "github.com/smacker/go-tree-sitter/golang"

	"github.com/ebcode/sourceminder/internal/extract"
	"github.com/ebcode/sourceminder/internal/filter"
	"github.com/ebcode/sourceminder/internal/lang"
	"github.com/ebcode/sourceminder/internal/model"
)

func init() {
	lang.Default.Register(New())
}

// Dispatcher implements lang.Dispatcher for Go.
type Dispatcher struct{}

// New returns the Go dispatcher.
func New() *Dispatcher { return &Dispatcher{} }

func (d *Dispatcher) Language() model.Language { return model.Go }
func (d *Dispatcher) Extensions() []string     { return []string{".go"} }

func (d *Dispatcher) Parse(src []byte) (extract.Node, func(), error) {
	parser := sitter.NewParser()
	parser.SetLanguage(tsgolang.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, func() {}, err
	}
	return lang.Wrap(tree.RootNode()), tree.Close, nil
}

func (d *Dispatcher) Walk(root extract.Node, ctx *lang.EmitContext) {
	emitFilenameToken(ctx)
	namespace := ""
	walk(root, ctx, &namespace)
}

func emitFilenameToken(ctx *lang.EmitContext) {
	ctx.Emit(model.Symbol{
		Line:       1,
		FullSymbol: extract.Stem(ctx.Filename),
		Context:    model.ContextFilename,
	})
}

func walk(n extract.Node, ctx *lang.EmitContext, namespace *string) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case "package_clause":
		if name := lang.FieldChild(n, "name"); name != nil {
			*namespace = extract.Text(name, ctx.Source)
		}
	case "import_declaration":
		handleImport(n, ctx)
	case "function_declaration", "method_declaration":
		handleFunction(n, ctx, *namespace)
		return // children handled inside
	case "type_spec":
		handleTypeSpec(n, ctx, *namespace)
		return
	case "var_declaration", "short_var_declaration":
		handleVar(n, ctx)
	case "const_declaration":
		handleConst(n, ctx)
	case "call_expression":
		handleCall(n, ctx)
	case "selector_expression":
		handleSelector(n, ctx)
	case "func_literal":
		handleFuncLiteral(n, ctx)
		return
	case "comment":
		handleComment(n, ctx)
	}

	for i := 0; i < n.ChildCount(); i++ {
		walk(n.Child(i), ctx, namespace)
	}
}

func handleImport(n extract.Node, ctx *lang.EmitContext) {
	for i := 0; i < n.ChildCount(); i++ {
		spec := n.Child(i)
		if spec.Kind() != "import_spec" {
			continue
		}
		path := lang.FieldChild(spec, "path")
		if path == nil {
			continue
		}
		raw := strings.Trim(extract.Text(path, ctx.Source), `"`)
		alias := lang.FieldChild(spec, "name")
		symbol := raw
		clue := ""
		if alias != nil {
			symbol = extract.Text(alias, ctx.Source)
			clue = raw
		} else if idx := strings.LastIndexByte(raw, '/'); idx >= 0 {
			symbol = raw[idx+1:]
		}
		ctx.Emit(model.Symbol{
			Line:       extract.Line(spec),
			FullSymbol: symbol,
			Context:    model.ContextImport,
			Clue:       clue,
		})
	}
}

func handleFunction(n extract.Node, ctx *lang.EmitContext, namespace string) {
	nameNode := lang.FieldChild(n, "name")
	name := ""
	if nameNode != nil {
		name = extract.Text(nameNode, ctx.Source)
	}
	parent := ""
	if recv := lang.FieldChild(n, "receiver"); recv != nil {
		parent = receiverTypeName(recv, ctx.Source)
	}
	modifier := ""
	isAsync := false
	_ = isAsync

	ctx.Emit(model.Symbol{
		Line:           extract.Line(n),
		FullSymbol:     name,
		Context:        model.ContextFunction,
		Parent:         parent,
		Scope:          scopeOf(name),
		Modifier:       modifier,
		Namespace:      namespace,
		SourceLocation: extract.FormatLocation(n),
		IsDefinition:   true,
	})

	if params := lang.FieldChild(n, "parameters"); params != nil {
		emitParams(params, ctx, name, true)
	}

	if body := lang.FieldChild(n, "body"); body != nil {
		ns := namespace
		walk(body, ctx, &ns)
	}
}

func receiverTypeName(recv extract.Node, src []byte) string {
	for i := 0; i < recv.ChildCount(); i++ {
		p := recv.Child(i)
		if p.Kind() != "parameter_declaration" {
			continue
		}
		if t := lang.FieldChild(p, "type"); t != nil {
			txt := extract.Text(t, src)
			return strings.TrimPrefix(txt, "*")
		}
	}
	return ""
}

func emitParams(params extract.Node, ctx *lang.EmitContext, parent string, isDefinition bool) {
	for i := 0; i < params.ChildCount(); i++ {
		p := params.Child(i)
		if p.Kind() != "parameter_declaration" && p.Kind() != "variadic_parameter_declaration" {
			continue
		}
		typ := ""
		if t := lang.FieldChild(p, "type"); t != nil {
			typ = extract.Text(t, ctx.Source)
		}
		clue := ""
		if p.Kind() == "variadic_parameter_declaration" {
			clue = "*args"
		}
		// A declaration like "a, b string" carries one name child per identifier.
		for j := 0; j < p.ChildCount(); j++ {
			name := p.Child(j)
			if name.Kind() != "identifier" {
				continue
			}
			ctx.Emit(model.Symbol{
				Line:         extract.Line(name),
				FullSymbol:   extract.Text(name, ctx.Source),
				Context:      model.ContextArgument,
				Parent:       parent,
				Clue:         ternary(clue != "", clue, parent),
				Type:         typ,
				IsDefinition: isDefinition,
			})
		}
	}
}

func ternary(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

func handleTypeSpec(n extract.Node, ctx *lang.EmitContext, namespace string) {
	nameNode := lang.FieldChild(n, "name")
	name := ""
	if nameNode != nil {
		name = extract.Text(nameNode, ctx.Source)
	}
	underlying := lang.FieldChild(n, "type")

	kind := model.ContextClass
	if underlying != nil && underlying.Kind() == "interface_type" {
		kind = model.ContextInterface
	}

	ctx.Emit(model.Symbol{
		Line:           extract.Line(n),
		FullSymbol:     name,
		Context:        kind,
		Scope:          scopeOf(name),
		Namespace:      namespace,
		SourceLocation: extract.FormatLocation(n),
		IsDefinition:   true,
	})

	if underlying == nil {
		return
	}
	switch underlying.Kind() {
	case "struct_type":
		emitFields(underlying, ctx, name)
	case "interface_type":
		emitMethodSpecs(underlying, ctx, name)
	}
}

func emitFields(structType extract.Node, ctx *lang.EmitContext, parent string) {
	for i := 0; i < structType.ChildCount(); i++ {
		fl := structType.Child(i)
		if fl.Kind() != "field_declaration_list" {
			continue
		}
		for j := 0; j < fl.ChildCount(); j++ {
			fd := fl.Child(j)
			if fd.Kind() != "field_declaration" {
				continue
			}
			typ := ""
			if t := lang.FieldChild(fd, "type"); t != nil {
				typ = extract.Text(t, ctx.Source)
			}
			for k := 0; k < fd.ChildCount(); k++ {
				c := fd.Child(k)
				if c.Kind() != "field_identifier" {
					continue
				}
				name := extract.Text(c, ctx.Source)
				ctx.Emit(model.Symbol{
					Line:       extract.Line(c),
					FullSymbol: name,
					Context:    model.ContextProperty,
					Parent:     parent,
					Scope:      scopeOf(name),
					Type:       typ,
				})
			}
		}
	}
}

func emitMethodSpecs(ifaceType extract.Node, ctx *lang.EmitContext, parent string) {
	for i := 0; i < ifaceType.ChildCount(); i++ {
		ms := ifaceType.Child(i)
		if ms.Kind() != "method_spec" {
			continue
		}
		nameNode := lang.FieldChild(ms, "name")
		if nameNode == nil {
			continue
		}
		name := extract.Text(nameNode, ctx.Source)
		ctx.Emit(model.Symbol{
			Line:       extract.Line(ms),
			FullSymbol: name,
			Context:    model.ContextFunction,
			Parent:     parent,
			Scope:      scopeOf(name),
			Clue:       "implements",
		})
	}
}

func handleVar(n extract.Node, ctx *lang.EmitContext) {
	for i := 0; i < n.ChildCount(); i++ {
		spec := n.Child(i)
		switch spec.Kind() {
		case "var_spec":
			typ := ""
			if t := lang.FieldChild(spec, "type"); t != nil {
				typ = extract.Text(t, ctx.Source)
			}
			emitIdentList(lang.FieldChild(spec, "name"), spec, ctx, model.ContextVariable, typ, "")
		case "expression_list": // short_var_declaration LHS is "left"
		}
	}
	if left := lang.FieldChild(n, "left"); left != nil {
		emitIdentList(nil, left, ctx, model.ContextVariable, "", ":=")
	}
}

func emitIdentList(single, list extract.Node, ctx *lang.EmitContext, kind model.Context, typ, clue string) {
	if single != nil {
		ctx.Emit(model.Symbol{Line: extract.Line(single), FullSymbol: extract.Text(single, ctx.Source), Context: kind, Type: typ, Clue: clue})
		return
	}
	if list == nil {
		return
	}
	if list.Kind() == "identifier" {
		ctx.Emit(model.Symbol{Line: extract.Line(list), FullSymbol: extract.Text(list, ctx.Source), Context: kind, Type: typ, Clue: clue})
		return
	}
	for i := 0; i < list.ChildCount(); i++ {
		c := list.Child(i)
		if c.Kind() == "identifier" {
			ctx.Emit(model.Symbol{Line: extract.Line(c), FullSymbol: extract.Text(c, ctx.Source), Context: kind, Type: typ, Clue: clue})
		}
	}
}

func handleConst(n extract.Node, ctx *lang.EmitContext) {
	for i := 0; i < n.ChildCount(); i++ {
		spec := n.Child(i)
		if spec.Kind() != "const_spec" {
			continue
		}
		typ := ""
		if t := lang.FieldChild(spec, "type"); t != nil {
			typ = extract.Text(t, ctx.Source)
		}
		name := lang.FieldChild(spec, "name")
		ctx.Emit(model.Symbol{
			Line:       extract.Line(spec),
			FullSymbol: extract.Text(name, ctx.Source),
			Context:    model.ContextVariable,
			Modifier:   "const",
			Type:       typ,
		})
	}
}

func handleCall(n extract.Node, ctx *lang.EmitContext) {
	fn := lang.FieldChild(n, "function")
	if fn == nil {
		return
	}
	var calledName, parent, modifier string
	switch fn.Kind() {
	case "identifier":
		calledName = extract.Text(fn, ctx.Source)
	case "selector_expression":
		operand := lang.FieldChild(fn, "operand")
		field := lang.FieldChild(fn, "field")
		if field != nil {
			calledName = extract.Text(field, ctx.Source)
		}
		if operand != nil {
			parent = extract.Text(operand, ctx.Source)
			if isUpperStart(parent) {
				modifier = "static"
			}
		}
	default:
		return
	}
	ctx.Emit(model.Symbol{
		Line:       extract.Line(fn),
		FullSymbol: calledName,
		Context:    model.ContextCall,
		Parent:     parent,
		Modifier:   modifier,
	})

	if args := lang.FieldChild(n, "arguments"); args != nil {
		for i := 0; i < args.ChildCount(); i++ {
			a := args.Child(i)
			if a.Kind() == "identifier" {
				ctx.Emit(model.Symbol{
					Line:       extract.Line(a),
					FullSymbol: extract.Text(a, ctx.Source),
					Context:    model.ContextArgument,
					Clue:       calledName,
				})
			}
		}
	}
}

func isUpperStart(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}

func handleSelector(n extract.Node, ctx *lang.EmitContext) {
	// Avoid double-emission: call_expression already handles the function
	// position of a selector; this path covers plain property reads.
	if p := n.Parent(); p != nil && p.Kind() == "call_expression" {
		if fn := lang.FieldChild(p, "function"); fn != nil && fn.StartByte() == n.StartByte() {
			return
		}
	}
	operand := lang.FieldChild(n, "operand")
	field := lang.FieldChild(n, "field")
	if field == nil {
		return
	}
	parent := ""
	if operand != nil {
		parent = extract.Text(operand, ctx.Source)
	}
	ctx.Emit(model.Symbol{
		Line:       extract.Line(field),
		FullSymbol: extract.Text(field, ctx.Source),
		Context:    model.ContextProperty,
		Parent:     parent,
	})
}

func handleFuncLiteral(n extract.Node, ctx *lang.EmitContext) {
	ctx.Emit(model.Symbol{
		Line:           extract.Line(n),
		FullSymbol:     "<lambda>",
		Context:        model.ContextLambda,
		SourceLocation: extract.FormatLocation(n),
		IsDefinition:   true,
	})
	if params := lang.FieldChild(n, "parameters"); params != nil {
		emitParams(params, ctx, "lambda", true)
	}
	if body := lang.FieldChild(n, "body"); body != nil {
		ns := ""
		walk(body, ctx, &ns)
	}
}

func handleComment(n extract.Node, ctx *lang.EmitContext) {
	raw := extract.Text(n, ctx.Source)
	stripped := extract.StripComment(raw, extract.CommentStyle{Line: "//", BlockStart: "/*", BlockEnd: "*/"})
	for _, w := range extract.SplitWords(stripped) {
		cleaned := filter.CleanStringSymbol(w)
		if cleaned == "" || !ctx.Filter.ShouldIndex(cleaned, model.Go) {
			continue
		}
		ctx.Emit(model.Symbol{
			Line:       extract.Line(n),
			FullSymbol: cleaned,
			Context:    model.ContextComment,
		})
	}
}

// scopeOf returns "public" for an exported (capitalized) Go identifier and
// "private" otherwise, Go's only visibility axis.
func scopeOf(name string) string {
	if isUpperStart(name) {
		return "public"
	}
	if name == "" {
		return ""
	}
	return "private"
}
