// Package python is the Python AST dispatcher. Grounded on
// providers/python/config.go's node-type vocabulary (function_definition,
// async_function_definition, class_definition, assignment, lambda,
// import_statement/import_from_statement, decorator), generalized into
// full symbol-record emission per spec.md §4.2, with named_expression
// (walrus) and comprehension/except bindings added per spec.md's explicit
// Python-flavored rules.
package python

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tspython "github.com/smacker/go-tree-sitter/python"

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

func (d *Dispatcher) Language() model.Language { return model.Python }
func (d *Dispatcher) Extensions() []string     { return []string{".py", ".pyw", ".pyi"} }

func (d *Dispatcher) Parse(src []byte) (extract.Node, func(), error) {
	parser := sitter.NewParser()
	parser.SetLanguage(tspython.GetLanguage())
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

func walk(n extract.Node, ctx *lang.EmitContext, namespace *string, classParent string) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case "function_definition", "async_function_definition":
		handleFunction(n, ctx, classParent, n.Kind() == "async_function_definition")
		return
	case "class_definition":
		handleClass(n, ctx, *namespace)
		return
	case "assignment":
		handleAssignment(n, ctx)
	case "named_expression":
		handleWalrus(n, ctx)
	case "lambda":
		handleLambda(n, ctx)
		return
	case "import_statement":
		handleImport(n, ctx)
	case "import_from_statement":
		handleImportFrom(n, ctx)
	case "decorator":
		// handled by the following function/class definition's clue below
	case "for_statement", "for_in_clause":
		handleForTarget(n, ctx)
	case "except_clause":
		handleExcept(n, ctx)
	case "call":
		handleCall(n, ctx)
	case "attribute":
		handleAttribute(n, ctx)
	case "comment":
		handleComment(n, ctx)
	case "string":
		handleString(n, ctx, namespace, classParent)
		return
	}

	for i := 0; i < n.ChildCount(); i++ {
		walk(n.Child(i), ctx, namespace, classParent)
	}
}

func decoratorClue(n extract.Node, ctx *lang.EmitContext) string {
	parent := n.Parent()
	if parent == nil || parent.Kind() != "decorated_definition" {
		return ""
	}
	var names []string
	for i := 0; i < parent.ChildCount(); i++ {
		c := parent.Child(i)
		if c.Kind() != "decorator" {
			continue
		}
		for j := 0; j < c.ChildCount(); j++ {
			gc := c.Child(j)
			if gc.Kind() == "identifier" || gc.Kind() == "attribute" {
				names = append(names, extract.Text(gc, ctx.Source))
			}
		}
	}
	return strings.Join(names, ",")
}

func handleFunction(n extract.Node, ctx *lang.EmitContext, classParent string, isAsync bool) {
	nameNode := lang.FieldChild(n, "name")
	name := ""
	if nameNode != nil {
		name = extract.Text(nameNode, ctx.Source)
	}
	modifier := ""
	if isAsync {
		modifier = "async"
	}
	ctx.Emit(model.Symbol{
		Line:           extract.Line(n),
		FullSymbol:     name,
		Context:        model.ContextFunction,
		Parent:         classParent,
		Modifier:       modifier,
		Clue:           decoratorClue(n, ctx),
		SourceLocation: extract.FormatLocation(n),
		IsDefinition:   true,
	})

	if params := lang.FieldChild(n, "parameters"); params != nil {
		emitParams(params, ctx, name)
	}
	if body := lang.FieldChild(n, "body"); body != nil {
		ns := ""
		walk(body, ctx, &ns, classParent)
	}
}

func emitParams(params extract.Node, ctx *lang.EmitContext, parent string) {
	for i := 0; i < params.ChildCount(); i++ {
		p := params.Child(i)
		switch p.Kind() {
		case "identifier":
			ctx.Emit(model.Symbol{Line: extract.Line(p), FullSymbol: extract.Text(p, ctx.Source), Context: model.ContextArgument, Parent: parent, IsDefinition: true})
		case "typed_parameter", "default_parameter", "typed_default_parameter":
			emitNamedParam(p, ctx, parent, "")
		case "list_splat_pattern":
			emitNamedParam(childIdentifier(p), ctx, parent, "*args")
		case "dictionary_splat_pattern":
			emitNamedParam(childIdentifier(p), ctx, parent, "**kwargs")
		}
	}
}

func childIdentifier(n extract.Node) extract.Node {
	for i := 0; i < n.ChildCount(); i++ {
		if n.Child(i).Kind() == "identifier" {
			return n.Child(i)
		}
	}
	return nil
}

func emitNamedParam(p extract.Node, ctx *lang.EmitContext, parent, clue string) {
	if p == nil {
		return
	}
	name := p
	if p.Kind() != "identifier" {
		if id := lang.FieldChild(p, "name"); id != nil {
			name = id
		} else if id := childIdentifier(p); id != nil {
			name = id
		}
	}
	typ := ""
	if t := lang.FieldChild(p, "type"); t != nil {
		typ = extract.Text(t, ctx.Source)
	}
	ctx.Emit(model.Symbol{
		Line: extract.Line(name), FullSymbol: extract.Text(name, ctx.Source),
		Context: model.ContextArgument, Parent: parent, Type: typ, Clue: clue, IsDefinition: true,
	})
}

func handleClass(n extract.Node, ctx *lang.EmitContext, namespace string) {
	nameNode := lang.FieldChild(n, "name")
	name := ""
	if nameNode != nil {
		name = extract.Text(nameNode, ctx.Source)
	}
	ctx.Emit(model.Symbol{
		Line: extract.Line(n), FullSymbol: name, Context: model.ContextClass,
		Namespace: namespace, Clue: decoratorClue(n, ctx),
		SourceLocation: extract.FormatLocation(n), IsDefinition: true,
	})
	if superclasses := lang.FieldChild(n, "superclasses"); superclasses != nil {
		for i := 0; i < superclasses.ChildCount(); i++ {
			c := superclasses.Child(i)
			if c.Kind() == "identifier" {
				ctx.Emit(model.Symbol{Line: extract.Line(c), FullSymbol: extract.Text(c, ctx.Source), Context: model.ContextType, Clue: "implements"})
			}
		}
	}
	if body := lang.FieldChild(n, "body"); body != nil {
		ns := namespace
		walk(body, ctx, &ns, name)
	}
}

func handleAssignment(n extract.Node, ctx *lang.EmitContext) {
	left := lang.FieldChild(n, "left")
	if left == nil {
		return
	}
	switch left.Kind() {
	case "identifier":
		ctx.Emit(model.Symbol{Line: extract.Line(left), FullSymbol: extract.Text(left, ctx.Source), Context: model.ContextVariable})
	case "attribute":
		obj := lang.FieldChild(left, "object")
		attr := lang.FieldChild(left, "attribute")
		if attr != nil {
			parent := ""
			if obj != nil {
				parent = extract.Text(obj, ctx.Source)
			}
			ctx.Emit(model.Symbol{Line: extract.Line(attr), FullSymbol: extract.Text(attr, ctx.Source), Context: model.ContextProperty, Parent: parent})
		}
	}
}

func handleWalrus(n extract.Node, ctx *lang.EmitContext) {
	name := lang.FieldChild(n, "name")
	if name == nil {
		return
	}
	ctx.Emit(model.Symbol{Line: extract.Line(name), FullSymbol: extract.Text(name, ctx.Source), Context: model.ContextVariable, Clue: ":="})
}

func handleLambda(n extract.Node, ctx *lang.EmitContext) {
	ctx.Emit(model.Symbol{Line: extract.Line(n), FullSymbol: "<lambda>", Context: model.ContextLambda, SourceLocation: extract.FormatLocation(n), IsDefinition: true})
	if params := lang.FieldChild(n, "parameters"); params != nil {
		emitParams(params, ctx, "lambda")
	}
	if body := lang.FieldChild(n, "body"); body != nil {
		ns := ""
		walk(body, ctx, &ns, "")
	}
}

func handleImport(n extract.Node, ctx *lang.EmitContext) {
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		switch c.Kind() {
		case "dotted_name":
			ctx.Emit(model.Symbol{Line: extract.Line(c), FullSymbol: extract.Text(c, ctx.Source), Context: model.ContextImport})
		case "aliased_import":
			name := lang.FieldChild(c, "name")
			alias := lang.FieldChild(c, "alias")
			if alias != nil {
				ctx.Emit(model.Symbol{Line: extract.Line(alias), FullSymbol: extract.Text(alias, ctx.Source), Context: model.ContextImport, Clue: extract.Text(name, ctx.Source)})
			}
		}
	}
}

func handleImportFrom(n extract.Node, ctx *lang.EmitContext) {
	module := lang.FieldChild(n, "module_name")
	moduleName := ""
	if module != nil {
		moduleName = extract.Text(module, ctx.Source)
	}
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		switch c.Kind() {
		case "dotted_name", "identifier":
			if c.StartByte() == module.StartByte() {
				continue
			}
			ctx.Emit(model.Symbol{Line: extract.Line(c), FullSymbol: extract.Text(c, ctx.Source), Context: model.ContextImport, Namespace: moduleName})
		case "aliased_import":
			name := lang.FieldChild(c, "name")
			alias := lang.FieldChild(c, "alias")
			if alias != nil {
				ctx.Emit(model.Symbol{Line: extract.Line(alias), FullSymbol: extract.Text(alias, ctx.Source), Context: model.ContextImport, Clue: extract.Text(name, ctx.Source), Namespace: moduleName})
			}
		}
	}
}

func handleForTarget(n extract.Node, ctx *lang.EmitContext) {
	left := lang.FieldChild(n, "left")
	if left == nil {
		return
	}
	emitTargets(left, ctx)
}

func emitTargets(n extract.Node, ctx *lang.EmitContext) {
	switch n.Kind() {
	case "identifier":
		ctx.Emit(model.Symbol{Line: extract.Line(n), FullSymbol: extract.Text(n, ctx.Source), Context: model.ContextVariable})
	case "pattern_list", "tuple_pattern":
		for i := 0; i < n.ChildCount(); i++ {
			emitTargets(n.Child(i), ctx)
		}
	}
}

func handleExcept(n extract.Node, ctx *lang.EmitContext) {
	kind := model.ContextException
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c.Kind() == "identifier" {
			// First identifier child is the exception type; "as NAME" follows
			// and is recorded as a variable binding.
			ctx.Emit(model.Symbol{Line: extract.Line(c), FullSymbol: extract.Text(c, ctx.Source), Context: kind})
			kind = model.ContextVariable
		}
	}
}

func handleCall(n extract.Node, ctx *lang.EmitContext) {
	fn := lang.FieldChild(n, "function")
	if fn == nil {
		return
	}
	var name, parent string
	switch fn.Kind() {
	case "identifier":
		name = extract.Text(fn, ctx.Source)
	case "attribute":
		obj := lang.FieldChild(fn, "object")
		attr := lang.FieldChild(fn, "attribute")
		if attr == nil {
			return
		}
		name = extract.Text(attr, ctx.Source)
		if obj != nil {
			parent = extract.Text(obj, ctx.Source)
		}
	default:
		return
	}
	ctx.Emit(model.Symbol{Line: extract.Line(fn), FullSymbol: name, Context: model.ContextCall, Parent: parent})

	if args := lang.FieldChild(n, "arguments"); args != nil {
		for i := 0; i < args.ChildCount(); i++ {
			a := args.Child(i)
			switch a.Kind() {
			case "identifier":
				ctx.Emit(model.Symbol{Line: extract.Line(a), FullSymbol: extract.Text(a, ctx.Source), Context: model.ContextArgument, Clue: name})
			case "dictionary_splat":
				ctx.Emit(model.Symbol{Line: extract.Line(a), FullSymbol: extract.Text(a, ctx.Source), Context: model.ContextArgument, Clue: "**kwargs"})
			case "list_splat":
				ctx.Emit(model.Symbol{Line: extract.Line(a), FullSymbol: extract.Text(a, ctx.Source), Context: model.ContextArgument, Clue: "*args"})
			}
		}
	}
}

func handleAttribute(n extract.Node, ctx *lang.EmitContext) {
	if p := n.Parent(); p != nil && (p.Kind() == "call" || p.Kind() == "assignment") {
		return // handled by the call/assignment handler
	}
	obj := lang.FieldChild(n, "object")
	attr := lang.FieldChild(n, "attribute")
	if attr == nil {
		return
	}
	parent := ""
	if obj != nil {
		parent = extract.Text(obj, ctx.Source)
	}
	ctx.Emit(model.Symbol{Line: extract.Line(attr), FullSymbol: extract.Text(attr, ctx.Source), Context: model.ContextProperty, Parent: parent})
}

func handleComment(n extract.Node, ctx *lang.EmitContext) {
	raw := extract.Text(n, ctx.Source)
	stripped := extract.StripComment(raw, extract.CommentStyle{Line: "#"})
	for _, w := range extract.SplitWords(stripped) {
		cleaned := filter.CleanStringSymbol(w)
		if cleaned == "" || !ctx.Filter.ShouldIndex(cleaned, model.Python) {
			continue
		}
		ctx.Emit(model.Symbol{Line: extract.Line(n), FullSymbol: cleaned, Context: model.ContextComment})
	}
}

func handleString(n extract.Node, ctx *lang.EmitContext, namespace *string, classParent string) {
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		switch c.Kind() {
		case "string_content":
			for _, w := range extract.SplitWords(extract.Text(c, ctx.Source)) {
				cleaned := filter.CleanStringSymbol(w)
				if cleaned == "" || !ctx.Filter.ShouldIndex(cleaned, model.Python) {
					continue
				}
				ctx.Emit(model.Symbol{Line: extract.Line(c), FullSymbol: cleaned, Context: model.ContextString})
			}
		case "interpolation":
			// Interpolated expressions are recursed into as expressions,
			// not split as words (spec.md §4.2).
			walk(c, ctx, namespace, classParent)
		}
	}
}
