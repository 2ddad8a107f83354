// Package javascript is the JavaScript/JSX AST dispatcher. Grounded on
// providers/javascript/config.go's node vocabulary (function_declaration,
// class_declaration, method_definition, field_definition,
// variable_declarator, import_statement/export_statement, arrow_function)
// and its getArrowFunctionName inference for assignment-bound arrows.
package javascript

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsjs "github.com/smacker/go-tree-sitter/javascript"

	"github.com/ebcode/sourceminder/internal/extract"
	"github.com/ebcode/sourceminder/internal/filter"
	"github.com/ebcode/sourceminder/internal/lang"
	"github.com/ebcode/sourceminder/internal/model"
)

func init() {
	lang.Default.Register(New())
}

type Dispatcher struct{}

func New() *Dispatcher { return &Dispatcher{} }

func (d *Dispatcher) Language() model.Language { return model.JavaScript }
func (d *Dispatcher) Extensions() []string      { return []string{".js", ".jsx", ".mjs", ".cjs"} }

func (d *Dispatcher) Parse(src []byte) (extract.Node, func(), error) {
	parser := sitter.NewParser()
	parser.SetLanguage(tsjs.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, func() {}, err
	}
	return lang.Wrap(tree.RootNode()), tree.Close, nil
}

func (d *Dispatcher) Walk(root extract.Node, ctx *lang.EmitContext) {
	ctx.Emit(model.Symbol{Line: 1, FullSymbol: extract.Stem(ctx.Filename), Context: model.ContextFilename})
	walk(root, ctx, "")
}

func walk(n extract.Node, ctx *lang.EmitContext, classParent string) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case "import_statement":
		handleImport(n, ctx)
	case "export_statement":
		handleExport(n, ctx, classParent)
		return
	case "function_declaration", "generator_function_declaration":
		handleFunction(n, ctx, "", classParent)
		return
	case "method_definition":
		handleMethod(n, ctx, classParent)
		return
	case "class_declaration", "class":
		handleClass(n, ctx)
		return
	case "field_definition":
		handleField(n, ctx, classParent)
	case "variable_declarator":
		handleVariableDeclarator(n, ctx, classParent)
		return
	case "call_expression":
		handleCall(n, ctx)
	case "member_expression":
		handleMemberExpression(n, ctx)
	case "arrow_function", "function_expression":
		handleFunctionExpr(n, ctx, classParent)
		return
	case "comment":
		handleComment(n, ctx)
	case "template_string":
		handleTemplateString(n, ctx, classParent)
		return
	case "catch_clause":
		handleCatch(n, ctx)
	}

	for i := 0; i < n.ChildCount(); i++ {
		walk(n.Child(i), ctx, classParent)
	}
}

func handleImport(n extract.Node, ctx *lang.EmitContext) {
	src := ""
	if s := lang.FieldChild(n, "source"); s != nil {
		src = strings.Trim(extract.Text(s, ctx.Source), `"'`)
	}
	// The default, namespace and named bindings sit under import_clause.
	clause := n
	for i := 0; i < n.ChildCount(); i++ {
		if n.Child(i).Kind() == "import_clause" {
			clause = n.Child(i)
			break
		}
	}
	for i := 0; i < clause.ChildCount(); i++ {
		c := clause.Child(i)
		switch c.Kind() {
		case "identifier", "namespace_import":
			ctx.Emit(model.Symbol{Line: extract.Line(c), FullSymbol: extract.Text(c, ctx.Source), Context: model.ContextImport, Clue: src})
		case "named_imports":
			for j := 0; j < c.ChildCount(); j++ {
				spec := c.Child(j)
				if spec.Kind() != "import_specifier" {
					continue
				}
				name := spec
				alias := ""
				if a := lang.FieldChild(spec, "alias"); a != nil {
					name = lang.FieldChild(spec, "name")
					alias = extract.Text(a, ctx.Source)
				}
				symbol := extract.Text(name, ctx.Source)
				clue := src
				if alias != "" {
					ctx.Emit(model.Symbol{Line: extract.Line(spec), FullSymbol: alias, Context: model.ContextImport, Clue: symbol})
					continue
				}
				ctx.Emit(model.Symbol{Line: extract.Line(spec), FullSymbol: symbol, Context: model.ContextImport, Clue: clue})
			}
		}
	}
}

func handleExport(n extract.Node, ctx *lang.EmitContext, classParent string) {
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		switch c.Kind() {
		case "function_declaration", "generator_function_declaration":
			handleFunction(c, ctx, "export", classParent)
		case "class_declaration":
			handleClass(c, ctx)
		case "lexical_declaration", "variable_declaration":
			walk(c, ctx, classParent)
		case "identifier":
			ctx.Emit(model.Symbol{Line: extract.Line(c), FullSymbol: extract.Text(c, ctx.Source), Context: model.ContextExport})
		}
	}
}

func handleFunction(n extract.Node, ctx *lang.EmitContext, modifier, classParent string) {
	nameNode := lang.FieldChild(n, "name")
	name := ""
	if nameNode != nil {
		name = extract.Text(nameNode, ctx.Source)
	}
	if isAsync(n, ctx.Source) {
		modifier = strings.TrimSpace(modifier + " async")
	}
	ctx.Emit(model.Symbol{
		Line: extract.Line(n), FullSymbol: name, Context: model.ContextFunction, Parent: classParent,
		Modifier: strings.TrimSpace(modifier), SourceLocation: extract.FormatLocation(n), IsDefinition: true,
	})
	emitParams(n, ctx, name)
	if body := lang.FieldChild(n, "body"); body != nil {
		walk(body, ctx, classParent)
	}
}

func handleMethod(n extract.Node, ctx *lang.EmitContext, classParent string) {
	keyNode := lang.FieldChild(n, "name")
	if keyNode == nil {
		keyNode = lang.FieldChild(n, "key")
	}
	name := ""
	if keyNode != nil {
		name = extract.Text(keyNode, ctx.Source)
	}
	modifier := ""
	if isAsync(n, ctx.Source) {
		modifier = "async"
	}
	for i := 0; i < n.ChildCount(); i++ {
		if n.Child(i).Kind() == "static" {
			modifier = strings.TrimSpace(modifier + " static")
		}
	}
	ctx.Emit(model.Symbol{
		Line: extract.Line(n), FullSymbol: name, Context: model.ContextFunction, Parent: classParent,
		Modifier: strings.TrimSpace(modifier), SourceLocation: extract.FormatLocation(n), IsDefinition: true,
	})
	emitParams(n, ctx, name)
	if body := lang.FieldChild(n, "body"); body != nil {
		walk(body, ctx, classParent)
	}
}

func isAsync(n extract.Node, src []byte) bool {
	for i := 0; i < n.ChildCount(); i++ {
		if n.Child(i).Kind() == "async" {
			return true
		}
	}
	return strings.HasPrefix(extract.Text(n, src), "async")
}

func emitParams(n extract.Node, ctx *lang.EmitContext, fnParent string) {
	params := lang.FieldChild(n, "parameters")
	if params == nil {
		return
	}
	for i := 0; i < params.ChildCount(); i++ {
		p := params.Child(i)
		switch p.Kind() {
		case "identifier":
			ctx.Emit(model.Symbol{Line: extract.Line(p), FullSymbol: extract.Text(p, ctx.Source), Context: model.ContextArgument, Parent: fnParent, IsDefinition: true})
		case "assignment_pattern":
			if left := lang.FieldChild(p, "left"); left != nil && left.Kind() == "identifier" {
				ctx.Emit(model.Symbol{Line: extract.Line(left), FullSymbol: extract.Text(left, ctx.Source), Context: model.ContextArgument, Parent: fnParent, Clue: "default", IsDefinition: true})
			}
		case "rest_pattern":
			for j := 0; j < p.ChildCount(); j++ {
				if p.Child(j).Kind() == "identifier" {
					ctx.Emit(model.Symbol{Line: extract.Line(p.Child(j)), FullSymbol: extract.Text(p.Child(j), ctx.Source), Context: model.ContextArgument, Parent: fnParent, Clue: "...rest", IsDefinition: true})
				}
			}
		}
	}
}

func handleClass(n extract.Node, ctx *lang.EmitContext) {
	nameNode := lang.FieldChild(n, "name")
	name := ""
	if nameNode != nil {
		name = extract.Text(nameNode, ctx.Source)
	}
	ctx.Emit(model.Symbol{Line: extract.Line(n), FullSymbol: name, Context: model.ContextClass, SourceLocation: extract.FormatLocation(n), IsDefinition: true})

	if heritage := lang.FieldChild(n, "superclass"); heritage != nil {
		ctx.Emit(model.Symbol{Line: extract.Line(heritage), FullSymbol: extract.Text(heritage, ctx.Source), Context: model.ContextType, Clue: "extends"})
	}
	if body := lang.FieldChild(n, "body"); body != nil {
		walk(body, ctx, name)
	}
}

func handleField(n extract.Node, ctx *lang.EmitContext, classParent string) {
	for i := 0; i < n.ChildCount(); i++ {
		if n.Child(i).Kind() == "property_identifier" {
			ctx.Emit(model.Symbol{Line: extract.Line(n.Child(i)), FullSymbol: extract.Text(n.Child(i), ctx.Source), Context: model.ContextProperty, Parent: classParent})
			return
		}
	}
}

func handleVariableDeclarator(n extract.Node, ctx *lang.EmitContext, classParent string) {
	idNode := lang.FieldChild(n, "name")
	if idNode == nil {
		idNode = lang.FieldChild(n, "id")
	}
	value := lang.FieldChild(n, "value")
	if idNode != nil && idNode.Kind() == "identifier" {
		name := extract.Text(idNode, ctx.Source)
		if value != nil && (value.Kind() == "arrow_function" || value.Kind() == "function_expression") {
			emitArrow(value, ctx, name, classParent)
			return
		}
		ctx.Emit(model.Symbol{Line: extract.Line(idNode), FullSymbol: name, Context: model.ContextVariable, Parent: classParent})
	} else if idNode != nil {
		emitPattern(idNode, ctx, classParent)
	}
	if value != nil {
		walk(value, ctx, classParent)
	}
}

func emitPattern(n extract.Node, ctx *lang.EmitContext, classParent string) {
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		switch c.Kind() {
		case "identifier", "shorthand_property_identifier_pattern":
			ctx.Emit(model.Symbol{Line: extract.Line(c), FullSymbol: extract.Text(c, ctx.Source), Context: model.ContextVariable, Parent: classParent})
		case "array_pattern", "object_pattern", "pair_pattern":
			emitPattern(c, ctx, classParent)
		}
	}
}

func emitArrow(n extract.Node, ctx *lang.EmitContext, name, classParent string) {
	modifier := ""
	if isAsync(n, ctx.Source) {
		modifier = "async"
	}
	ctx.Emit(model.Symbol{Line: extract.Line(n), FullSymbol: name, Context: model.ContextFunction, Parent: classParent, Modifier: modifier, Clue: "arrow", SourceLocation: extract.FormatLocation(n), IsDefinition: true})
	emitParams(n, ctx, name)
	if body := lang.FieldChild(n, "body"); body != nil {
		walk(body, ctx, classParent)
	}
}

func handleFunctionExpr(n extract.Node, ctx *lang.EmitContext, classParent string) {
	if p := n.Parent(); p != nil && p.Kind() == "variable_declarator" {
		for i := 0; i < n.ChildCount(); i++ {
			walk(n.Child(i), ctx, classParent)
		}
		return
	}
	emitArrow(n, ctx, "<lambda>", classParent)
}

func handleCall(n extract.Node, ctx *lang.EmitContext) {
	fn := lang.FieldChild(n, "function")
	if fn == nil {
		return
	}
	var name, parent, modifier string
	switch fn.Kind() {
	case "identifier":
		name = extract.Text(fn, ctx.Source)
	case "member_expression":
		obj := lang.FieldChild(fn, "object")
		prop := lang.FieldChild(fn, "property")
		if prop == nil {
			return
		}
		name = extract.Text(prop, ctx.Source)
		if obj != nil {
			parent = extract.Text(obj, ctx.Source)
			if isUpperStart(parent) {
				modifier = "static"
			}
		}
	default:
		return
	}
	ctx.Emit(model.Symbol{Line: extract.Line(n), FullSymbol: name, Context: model.ContextCall, Parent: parent, Modifier: modifier})

	if args := lang.FieldChild(n, "arguments"); args != nil {
		for i := 0; i < args.ChildCount(); i++ {
			a := args.Child(i)
			if a.Kind() == "identifier" {
				ctx.Emit(model.Symbol{Line: extract.Line(a), FullSymbol: extract.Text(a, ctx.Source), Context: model.ContextArgument, Clue: name})
			}
		}
	}
}

func isUpperStart(s string) bool {
	return len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z'
}

func handleMemberExpression(n extract.Node, ctx *lang.EmitContext) {
	if p := n.Parent(); p != nil {
		switch p.Kind() {
		case "call_expression", "assignment_expression":
			return
		}
	}
	prop := lang.FieldChild(n, "property")
	if prop == nil {
		return
	}
	parent := ""
	if obj := lang.FieldChild(n, "object"); obj != nil {
		parent = extract.Text(obj, ctx.Source)
	}
	ctx.Emit(model.Symbol{Line: extract.Line(prop), FullSymbol: extract.Text(prop, ctx.Source), Context: model.ContextProperty, Parent: parent})
}

func handleComment(n extract.Node, ctx *lang.EmitContext) {
	raw := extract.Text(n, ctx.Source)
	style := extract.CommentStyle{Line: "//", BlockStart: "/*", BlockEnd: "*/"}
	stripped := extract.StripComment(raw, style)
	for _, w := range extract.SplitWords(stripped) {
		cleaned := filter.CleanStringSymbol(w)
		if cleaned == "" || !ctx.Filter.ShouldIndex(cleaned, model.JavaScript) {
			continue
		}
		ctx.Emit(model.Symbol{Line: extract.Line(n), FullSymbol: cleaned, Context: model.ContextComment})
	}
}

func handleTemplateString(n extract.Node, ctx *lang.EmitContext, classParent string) {
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		switch c.Kind() {
		case "string_fragment":
			for _, w := range extract.SplitWords(extract.Text(c, ctx.Source)) {
				cleaned := filter.CleanStringSymbol(w)
				if cleaned == "" || !ctx.Filter.ShouldIndex(cleaned, model.JavaScript) {
					continue
				}
				ctx.Emit(model.Symbol{Line: extract.Line(c), FullSymbol: cleaned, Context: model.ContextString})
			}
		case "template_substitution":
			for j := 0; j < c.ChildCount(); j++ {
				walk(c.Child(j), ctx, classParent)
			}
		}
	}
}

func handleCatch(n extract.Node, ctx *lang.EmitContext) {
	if param := lang.FieldChild(n, "parameter"); param != nil && param.Kind() == "identifier" {
		ctx.Emit(model.Symbol{Line: extract.Line(param), FullSymbol: extract.Text(param, ctx.Source), Context: model.ContextException})
	}
}
