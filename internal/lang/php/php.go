// Package php is the PHP AST dispatcher. Grounded on
// providers/php/config.go's node-type vocabulary (class_declaration,
// method_declaration, property_declaration/property_element,
// variable_name, namespace_definition, namespace_use_declaration) and its
// ValidateVisibility sibling-modifier scan, generalized into full
// symbol-record emission with the PHP-flavored rules spec.md names by
// name: property promotion, heredoc/nowdoc, $this as parent, implements.
package php

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsphp "github.com/smacker/go-tree-sitter/php"

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

func (d *Dispatcher) Language() model.Language { return model.PHP }
func (d *Dispatcher) Extensions() []string      { return []string{".php", ".phtml", ".php4", ".php5", ".phps"} }

func (d *Dispatcher) Parse(src []byte) (extract.Node, func(), error) {
	parser := sitter.NewParser()
	parser.SetLanguage(tsphp.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, func() {}, err
	}
	return lang.Wrap(tree.RootNode()), tree.Close, nil
}

func (d *Dispatcher) Walk(root extract.Node, ctx *lang.EmitContext) {
	ctx.Emit(model.Symbol{Line: 1, FullSymbol: extract.Stem(ctx.Filename), Context: model.ContextFilename})
	ns := ""
	walk(root, ctx, &ns, "")
}

// modifiers scans a declaration's direct children for PHP's visibility and
// storage keywords, returning (scope, modifier) with abstract > final >
// static priority per spec.md §4.2.
func modifiers(n extract.Node, src []byte) (scope, modifier string) {
	priority := map[string]int{"abstract_modifier": 3, "final_modifier": 2, "static_modifier": 1, "readonly_modifier": 1}
	best := 0
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		switch c.Kind() {
		case "visibility_modifier":
			scope = extract.Text(c, src)
		case "abstract_modifier", "final_modifier", "static_modifier", "readonly_modifier":
			if priority[c.Kind()] > best {
				best = priority[c.Kind()]
				modifier = strings.TrimSuffix(c.Kind(), "_modifier")
			}
		}
	}
	return scope, modifier
}

func walk(n extract.Node, ctx *lang.EmitContext, namespace *string, classParent string) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case "namespace_definition":
		if name := lang.FieldChild(n, "name"); name != nil {
			*namespace = extract.Text(name, ctx.Source)
		}
	case "namespace_use_declaration":
		handleUse(n, ctx)
	case "class_declaration", "interface_declaration", "trait_declaration":
		handleClassLike(n, ctx, *namespace)
		return
	case "method_declaration", "function_definition":
		handleFunction(n, ctx, classParent)
		return
	case "property_declaration":
		handleProperty(n, ctx, classParent)
	case "const_declaration":
		handleConst(n, ctx, classParent)
	case "assignment_expression":
		handleAssignment(n, ctx)
	case "function_call_expression", "member_call_expression", "scoped_call_expression":
		handleCall(n, ctx)
	case "member_access_expression", "scoped_property_access_expression":
		handleMemberAccess(n, ctx)
	case "anonymous_function_creation_expression", "arrow_function":
		handleLambda(n, ctx, n.Kind() == "arrow_function")
		return
	case "comment":
		handleComment(n, ctx)
	case "heredoc":
		handleHeredoc(n, ctx, "heredoc")
		return
	case "nowdoc":
		handleHeredoc(n, ctx, "nowdoc")
		return
	case "catch_clause":
		handleCatch(n, ctx)
	}

	for i := 0; i < n.ChildCount(); i++ {
		walk(n.Child(i), ctx, namespace, classParent)
	}
}

func handleUse(n extract.Node, ctx *lang.EmitContext) {
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c.Kind() != "namespace_use_clause" && c.Kind() != "qualified_name" {
			continue
		}
		name := extract.Text(c, ctx.Source)
		alias := ""
		for j := 0; j < c.ChildCount(); j++ {
			if c.Child(j).Kind() == "namespace_aliasing_clause" {
				if id := lang.FieldChild(c.Child(j), "name"); id != nil {
					alias = extract.Text(id, ctx.Source)
				}
			}
		}
		symbol := name
		clue := ""
		if alias != "" {
			symbol, clue = alias, name
		} else if idx := strings.LastIndexByte(name, '\\'); idx >= 0 {
			symbol = name[idx+1:]
		}
		ctx.Emit(model.Symbol{Line: extract.Line(c), FullSymbol: symbol, Context: model.ContextImport, Clue: clue})
	}
}

func handleClassLike(n extract.Node, ctx *lang.EmitContext, namespace string) {
	nameNode := lang.FieldChild(n, "name")
	name := ""
	if nameNode != nil {
		name = extract.Text(nameNode, ctx.Source)
	}
	kind := model.ContextClass
	switch n.Kind() {
	case "interface_declaration":
		kind = model.ContextInterface
	case "trait_declaration":
		kind = model.ContextTrait
	}
	_, modifier := modifiers(n, ctx.Source)
	ctx.Emit(model.Symbol{
		Line: extract.Line(n), FullSymbol: name, Context: kind, Namespace: namespace,
		Modifier: modifier, SourceLocation: extract.FormatLocation(n), IsDefinition: true,
	})

	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c.Kind() != "class_interface_clause" {
			continue
		}
		for j := 0; j < c.ChildCount(); j++ {
			id := c.Child(j)
			if id.Kind() == "name" || id.Kind() == "qualified_name" {
				ctx.Emit(model.Symbol{Line: extract.Line(id), FullSymbol: extract.Text(id, ctx.Source), Context: model.ContextType, Clue: "implements"})
			}
		}
	}

	if body := lang.FieldChild(n, "body"); body != nil {
		ns := namespace
		walk(body, ctx, &ns, name)
	}
}

func handleFunction(n extract.Node, ctx *lang.EmitContext, classParent string) {
	nameNode := lang.FieldChild(n, "name")
	name := ""
	if nameNode != nil {
		name = extract.Text(nameNode, ctx.Source)
	}
	scope, modifier := modifiers(n, ctx.Source)
	returnType := ""
	if rt := lang.FieldChild(n, "return_type"); rt != nil {
		returnType = extract.Text(rt, ctx.Source)
	}
	ctx.Emit(model.Symbol{
		Line: extract.Line(n), FullSymbol: name, Context: model.ContextFunction,
		Parent: classParent, Scope: scope, Modifier: modifier, Type: returnType,
		SourceLocation: extract.FormatLocation(n), IsDefinition: true,
	})

	if params := lang.FieldChild(n, "parameters"); params != nil {
		emitParams(params, ctx, name, classParent)
	}
	if body := lang.FieldChild(n, "body"); body != nil {
		ns := ""
		walk(body, ctx, &ns, classParent)
	}
}

func emitParams(params extract.Node, ctx *lang.EmitContext, fnParent, classParent string) {
	for i := 0; i < params.ChildCount(); i++ {
		p := params.Child(i)
		switch p.Kind() {
		case "simple_parameter", "property_promotion_parameter":
			emitOneParam(p, ctx, fnParent, classParent, "")
		case "variadic_parameter":
			emitOneParam(p, ctx, fnParent, classParent, "*args")
		}
	}
}

func emitOneParam(p extract.Node, ctx *lang.EmitContext, fnParent, classParent, clue string) {
	nameNode := lang.FieldChild(p, "name")
	if nameNode == nil {
		return
	}
	name := strings.TrimPrefix(extract.Text(nameNode, ctx.Source), "$")
	typ := ""
	if t := lang.FieldChild(p, "type"); t != nil {
		typ = extract.Text(t, ctx.Source)
	}
	ctx.Emit(model.Symbol{
		Line: extract.Line(nameNode), FullSymbol: name, Context: model.ContextArgument,
		Parent: fnParent, Type: typ, Clue: clue, IsDefinition: true,
	})

	// Constructor property promotion: a visibility modifier on the
	// parameter additionally declares a class property (spec.md §4.2).
	scope, _ := modifiers(p, ctx.Source)
	if scope != "" && classParent != "" {
		ctx.Emit(model.Symbol{
			Line: extract.Line(nameNode), FullSymbol: name, Context: model.ContextProperty,
			Parent: classParent, Scope: scope, Type: typ,
		})
	}
}

func handleProperty(n extract.Node, ctx *lang.EmitContext, classParent string) {
	scope, modifier := modifiers(n, ctx.Source)
	typ := ""
	if t := lang.FieldChild(n, "type"); t != nil {
		typ = extract.Text(t, ctx.Source)
	}
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c.Kind() != "property_element" {
			continue
		}
		nameNode := lang.FieldChild(c, "name")
		if nameNode == nil {
			for j := 0; j < c.ChildCount(); j++ {
				if c.Child(j).Kind() == "variable_name" {
					nameNode = c.Child(j)
					break
				}
			}
		}
		if nameNode == nil {
			continue
		}
		name := strings.TrimPrefix(extract.Text(nameNode, ctx.Source), "$")
		ctx.Emit(model.Symbol{Line: extract.Line(nameNode), FullSymbol: name, Context: model.ContextProperty, Parent: classParent, Scope: scope, Modifier: modifier, Type: typ})
	}
}

func handleConst(n extract.Node, ctx *lang.EmitContext, classParent string) {
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c.Kind() != "const_element" {
			continue
		}
		nameNode := lang.FieldChild(c, "name")
		if nameNode == nil {
			continue
		}
		ctx.Emit(model.Symbol{Line: extract.Line(nameNode), FullSymbol: extract.Text(nameNode, ctx.Source), Context: model.ContextVariable, Modifier: "const", Parent: classParent})
	}
}

func handleAssignment(n extract.Node, ctx *lang.EmitContext) {
	left := lang.FieldChild(n, "left")
	if left == nil {
		return
	}
	switch left.Kind() {
	case "variable_name":
		ctx.Emit(model.Symbol{Line: extract.Line(left), FullSymbol: strings.TrimPrefix(extract.Text(left, ctx.Source), "$"), Context: model.ContextVariable})
	case "member_access_expression":
		obj := lang.FieldChild(left, "object")
		name := lang.FieldChild(left, "name")
		if name != nil {
			parent := ""
			if obj != nil {
				parent = strings.TrimPrefix(extract.Text(obj, ctx.Source), "$")
			}
			ctx.Emit(model.Symbol{Line: extract.Line(name), FullSymbol: extract.Text(name, ctx.Source), Context: model.ContextProperty, Parent: parent})
		}
	}
}

func handleCall(n extract.Node, ctx *lang.EmitContext) {
	var name, parent, modifier string
	switch n.Kind() {
	case "function_call_expression":
		fn := lang.FieldChild(n, "function")
		if fn == nil {
			return
		}
		name = extract.Text(fn, ctx.Source)
	case "member_call_expression":
		obj := lang.FieldChild(n, "object")
		nameNode := lang.FieldChild(n, "name")
		if nameNode == nil {
			return
		}
		name = extract.Text(nameNode, ctx.Source)
		if obj != nil {
			parent = strings.TrimPrefix(extract.Text(obj, ctx.Source), "$")
		}
	case "scoped_call_expression":
		scope := lang.FieldChild(n, "scope")
		nameNode := lang.FieldChild(n, "name")
		if nameNode == nil {
			return
		}
		name = extract.Text(nameNode, ctx.Source)
		if scope != nil {
			parent = extract.Text(scope, ctx.Source)
		}
		modifier = "static"
	}
	ctx.Emit(model.Symbol{Line: extract.Line(n), FullSymbol: name, Context: model.ContextCall, Parent: parent, Modifier: modifier})

	if args := lang.FieldChild(n, "arguments"); args != nil {
		for i := 0; i < args.ChildCount(); i++ {
			a := args.Child(i)
			if a.Kind() == "variable_name" {
				ctx.Emit(model.Symbol{Line: extract.Line(a), FullSymbol: strings.TrimPrefix(extract.Text(a, ctx.Source), "$"), Context: model.ContextArgument, Clue: name})
			}
		}
	}
}

func handleMemberAccess(n extract.Node, ctx *lang.EmitContext) {
	if p := n.Parent(); p != nil {
		switch p.Kind() {
		case "member_call_expression", "assignment_expression", "scoped_call_expression":
			return
		}
	}
	nameNode := lang.FieldChild(n, "name")
	if nameNode == nil {
		return
	}
	parent := ""
	if obj := lang.FieldChild(n, "object"); obj != nil {
		parent = strings.TrimPrefix(extract.Text(obj, ctx.Source), "$")
	} else if scope := lang.FieldChild(n, "scope"); scope != nil {
		parent = extract.Text(scope, ctx.Source)
	}
	ctx.Emit(model.Symbol{Line: extract.Line(nameNode), FullSymbol: extract.Text(nameNode, ctx.Source), Context: model.ContextProperty, Parent: parent})
}

func handleLambda(n extract.Node, ctx *lang.EmitContext, isArrow bool) {
	clue := "lambda"
	if isArrow {
		clue = "arrow"
	}
	ctx.Emit(model.Symbol{Line: extract.Line(n), FullSymbol: "<lambda>", Context: model.ContextLambda, Clue: clue, SourceLocation: extract.FormatLocation(n), IsDefinition: true})
	if params := lang.FieldChild(n, "parameters"); params != nil {
		emitParams(params, ctx, "lambda", "")
	}
	if body := lang.FieldChild(n, "body"); body != nil {
		ns := ""
		walk(body, ctx, &ns, "")
	}
}

func handleComment(n extract.Node, ctx *lang.EmitContext) {
	raw := extract.Text(n, ctx.Source)
	var style extract.CommentStyle
	switch {
	case strings.HasPrefix(raw, "//"), strings.HasPrefix(raw, "#"):
		style = extract.CommentStyle{Line: strings.TrimSpace(raw[:1])}
		if strings.HasPrefix(raw, "//") {
			style.Line = "//"
		} else {
			style.Line = "#"
		}
	default:
		style = extract.CommentStyle{BlockStart: "/*", BlockEnd: "*/"}
	}
	stripped := extract.StripComment(raw, style)
	for _, w := range extract.SplitWords(stripped) {
		cleaned := filter.CleanStringSymbol(w)
		if cleaned == "" || !ctx.Filter.ShouldIndex(cleaned, model.PHP) {
			continue
		}
		ctx.Emit(model.Symbol{Line: extract.Line(n), FullSymbol: cleaned, Context: model.ContextComment})
	}
}

func handleHeredoc(n extract.Node, ctx *lang.EmitContext, clue string) {
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		switch c.Kind() {
		case "heredoc_body", "string_value":
			for _, w := range extract.SplitWords(extract.Text(c, ctx.Source)) {
				cleaned := filter.CleanStringSymbol(w)
				if cleaned == "" || !ctx.Filter.ShouldIndex(cleaned, model.PHP) {
					continue
				}
				ctx.Emit(model.Symbol{Line: extract.Line(c), FullSymbol: cleaned, Context: model.ContextString, Clue: clue})
			}
		case "variable_name":
			ctx.Emit(model.Symbol{Line: extract.Line(c), FullSymbol: strings.TrimPrefix(extract.Text(c, ctx.Source), "$"), Context: model.ContextVariable})
		}
	}
}

func handleCatch(n extract.Node, ctx *lang.EmitContext) {
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c.Kind() == "name" || c.Kind() == "qualified_name" {
			ctx.Emit(model.Symbol{Line: extract.Line(c), FullSymbol: extract.Text(c, ctx.Source), Context: model.ContextException})
		}
	}
}
