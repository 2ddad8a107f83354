// Package model holds the types shared by every layer of the indexer and
// query engine: the symbol record, its context-kind enum, and the language
// identifier used to key filters, grammars and the extension registry.
package model

// Language identifies one of the supported source languages.
type Language string

const (
	Go         Language = "go"
	Python     Language = "python"
	PHP        Language = "php"
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
)

// Context is the compact discriminator stored in code_index.context.
type Context string

const (
	ContextClass     Context = "class"
	ContextInterface Context = "interface"
	ContextFunction  Context = "function"
	ContextArgument  Context = "argument"
	ContextVariable  Context = "variable"
	ContextProperty  Context = "property"
	ContextType      Context = "type"
	ContextImport    Context = "import"
	ContextExport    Context = "export"
	ContextCall      Context = "call"
	ContextLambda    Context = "lambda"
	ContextEnum      Context = "enum"
	ContextCase      Context = "case"
	ContextNamespace Context = "namespace"
	ContextTrait     Context = "trait"
	ContextComment   Context = "comment"
	ContextString    Context = "string"
	ContextFilename  Context = "filename"
	ContextException Context = "exception"
	ContextGoto      Context = "goto"
	ContextLabel     Context = "label"
)

// AllContexts lists every context kind, in the order shown by --list-types.
var AllContexts = []Context{
	ContextClass, ContextInterface, ContextFunction, ContextArgument,
	ContextVariable, ContextProperty, ContextType, ContextImport,
	ContextExport, ContextCall, ContextLambda, ContextEnum, ContextCase,
	ContextNamespace, ContextTrait, ContextComment, ContextString,
	ContextFilename, ContextException, ContextGoto, ContextLabel,
}

// Noise is the context-kind set that -x noise expands to.
var Noise = []Context{ContextComment, ContextString}

// Symbol is one row of the code_index table: a single lexical occurrence
// discovered during a file's parse, together with its metadata.
type Symbol struct {
	Directory      string // relative path ending in '/', empty at project root
	Filename       string
	Line           int // 1-based
	Symbol         string // lowercased for indexing
	FullSymbol     string // original case for display
	Context        Context
	SourceLocation string // "startLine:startCol-endLine:endCol", empty unless a definition
	Parent         string
	Scope          string // public/private/protected/""
	Modifier       string
	Clue           string
	Namespace      string
	Type           string
	IsDefinition   bool
}

// MaxSymbolLength bounds every owned text field extracted from source.
const MaxSymbolLength = 512
