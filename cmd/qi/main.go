// Command qi is the query CLI: it turns a pattern list plus the flag
// surface spec.md §6 defines into a query.Request, compiles and runs it
// against the read-only index store, and renders the result. Flag
// handling follows cmd/morfx/main.go's pflag.NewFlagSet shape.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ebcode/sourceminder/internal/config"
	"github.com/ebcode/sourceminder/internal/filter"
	"github.com/ebcode/sourceminder/internal/logx"
	"github.com/ebcode/sourceminder/internal/model"
	"github.com/ebcode/sourceminder/internal/query"
	"github.com/ebcode/sourceminder/internal/render"
	"github.com/ebcode/sourceminder/internal/store"
)

const defaultDBFile = "code-index.db"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := pflag.NewFlagSet("qi", pflag.ContinueOnError)
	fs.Usage = func() { printUsage(fs) }

	include := fs.StringSliceP("include-context", "i", nil, "Context kind(s) to include (repeatable).")
	exclude := fs.StringSliceP("exclude-context", "x", nil, "Context kind(s) to exclude; accepts \"noise\" for comment+string.")
	filePatterns := fs.StringSliceP("file", "f", nil, "File glob pattern(s) (repeatable).")
	and := fs.Int("and", 0, "Require patterns to co-occur within N lines (0 = same line).")
	sameLine := fs.Int("same-line", 0, "Require patterns to co-occur on the same line, or within N lines if given.")
	lines := fs.String("lines", "", "Restrict to a line or LINE-LINE range, e.g. \"40\" or \"40-60\".")
	within := fs.StringSliceP("within", "w", nil, "Restrict matches to the named definition(s)' line ranges.")
	parent := fs.StringSliceP("parent", "p", nil, "Filter by parent (repeatable).")
	typeFilter := fs.StringSliceP("type", "t", nil, "Filter by type annotation (repeatable).")
	modifier := fs.StringSliceP("modifier", "m", nil, "Filter by modifier (repeatable).")
	scope := fs.StringSliceP("scope", "s", nil, "Filter by scope (repeatable).")
	clue := fs.StringSliceP("clue", "c", nil, "Filter by clue (repeatable).")
	namespace := fs.StringSliceP("namespace", "n", nil, "Filter by namespace (repeatable).")
	definition := fs.StringSliceP("definition", "d", nil, "Filter by is_definition (0 or 1, repeatable).")
	def := fs.Bool("def", false, "Shorthand for --definition 1.")
	usage := fs.Bool("usage", false, "Shorthand for --definition 0.")
	contextN := fs.IntP("context", "C", 0, "Lines of context before and after each match.")
	afterN := fs.IntP("after", "A", 0, "Lines of context after each match.")
	beforeN := fs.IntP("before", "B", 0, "Lines of context before each match.")
	expand := fs.BoolP("expand", "e", false, "For definitions, print the full declaration instead of a context window.")
	limit := fs.Int("limit", 0, "Maximum total rows to print (0 = unlimited).")
	limitPerFile := fs.Int("limit-per-file", 0, "Maximum rows to print per file (0 = unlimited).")
	filesOnly := fs.Bool("files", false, "Print only the distinct matching file list.")
	toc := fs.Bool("toc", false, "Print a table of contents for the matched file(s) instead of rows.")
	columns := fs.StringSlice("columns", nil, "Columns to display (repeatable; \"all\" for every column).")
	verbose := fs.BoolP("verbose", "v", false, "Enable info-level logging.")
	full := fs.Bool("full", false, "Shorthand for --columns all.")
	compact := fs.Bool("compact", false, "Tab-separated, unpadded output.")
	dbFile := fs.String("db-file", defaultDBFile, "Path to the index database.")
	listTypes := fs.Bool("list-types", false, "Print every known context kind and exit.")
	version := fs.Bool("version", false, "Print the version and exit.")
	help := fs.BoolP("help", "h", false, "Show this help message and exit.")
	debug := fs.Bool("debug", false, "Enable debug-level logging.")

	fs.Lookup("and").NoOptDefVal = "0"
	fs.Lookup("same-line").NoOptDefVal = "0"

	if cfgPath, cErr := config.Path(); cErr == nil {
		if cfgLines, rErr := config.ReadSection(cfgPath, "qi"); rErr == nil && len(cfgLines) > 0 {
			args = config.Merge(args, cfgLines)
		}
	}

	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *help {
		fs.Usage()
		return 0
	}
	if *version {
		fmt.Println("sourceminder qi (dev)")
		return 0
	}
	if *listTypes {
		for _, c := range model.AllContexts {
			fmt.Println(c)
		}
		return 0
	}

	logx.SetDebug(*debug)
	logx.New(*verbose)

	patterns := fs.Args()
	if len(patterns) == 0 && !*toc {
		fmt.Fprintln(os.Stderr, "qi: at least one search pattern is required")
		fs.Usage()
		return 1
	}

	req := query.Request{
		Patterns:      patterns,
		Include:       query.ResolveNoise(*include),
		Exclude:       query.ResolveNoise(*exclude),
		LineRange:     -1,
		Limit:         *limit,
		LimitPerFile:  *limitPerFile,
		FilesOnly:     *filesOnly,
		Expand:        *expand,
		Compact:       *compact,
		WithinSymbols: *within,
	}

	for _, p := range *filePatterns {
		req.FilePatterns = append(req.FilePatterns, query.ParseFilePattern(p))
	}

	if fs.Changed("same-line") {
		req.LineRange = *sameLine
	} else if fs.Changed("and") {
		req.LineRange = *and
	}

	if *lines != "" {
		start, end, err := parseLineRange(*lines)
		if err != nil {
			fmt.Fprintf(os.Stderr, "qi: --lines: %v\n", err)
			return 1
		}
		req.LineFilterSet = true
		req.LineStart = start
		req.LineEnd = end
	}

	defPatterns := append([]string{}, (*definition)...)
	if *def {
		defPatterns = append(defPatterns, "1")
	}
	if *usage {
		defPatterns = append(defPatterns, "0")
	}

	req.ColumnFilters = buildColumnFilters(map[string][]string{
		"parent":        *parent,
		"type":          *typeFilter,
		"modifier":      *modifier,
		"scope":         *scope,
		"clue":          *clue,
		"namespace":     *namespace,
		"is_definition": defPatterns,
	})

	before, after := *beforeN, *afterN
	if *contextN > 0 {
		before, after = *contextN, *contextN
	}
	req.ContextBefore = before
	req.ContextAfter = after

	req.ShowColumns = *columns
	if *full {
		req.ShowColumns = []string{"all"}
	}

	st, err := store.OpenReadOnly(*dbFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "qi:", err)
		return 1
	}
	defer st.Close()

	if *toc {
		return runTOC(st, req)
	}
	return runQuery(st, req)
}

func runQuery(st *store.Store, req query.Request) int {
	plan, err := query.Plan(st.DB(), req)
	if err != nil {
		fmt.Fprintln(os.Stderr, "qi:", err)
		return 1
	}

	opts := render.Options{
		Limit: req.Limit, LimitPerFile: req.LimitPerFile, FilesOnly: req.FilesOnly,
		ShowColumns: req.ShowColumns, Expand: req.Expand, ContextBefore: req.ContextBefore,
		ContextAfter: req.ContextAfter, Compact: req.Compact, Highlight: literalPatterns(req.Patterns),
	}

	if err := render.Render(os.Stdout, st.DB(), plan, opts); err != nil {
		fmt.Fprintln(os.Stderr, "qi:", err)
		return 1
	}

	empty, err := isEmpty(st, plan)
	if err == nil && empty && !req.FilesOnly {
		f, fErr := filter.Load(filter.Config{})
		if fErr == nil {
			render.Diagnose(os.Stdout, st.DB(), f, "", req.Patterns)
		}
	}
	return 0
}

func runTOC(st *store.Store, req query.Request) int {
	tocReq := query.TOCRequest{
		FilePatterns: req.FilePatterns,
		Patterns:     req.Patterns,
		Include:      req.Include,
		Exclude:      req.Exclude,
		Limit:        req.Limit,
	}
	toc, err := query.BuildTOC(st.DB(), tocReq)
	if err != nil {
		fmt.Fprintln(os.Stderr, "qi:", err)
		return 1
	}
	for _, kind := range query.OrderedKinds(toc) {
		fmt.Printf("%s:\n", kind)
		for _, e := range toc[kind] {
			fmt.Printf("  %5d  %s\n", e.Line, e.Symbol)
		}
	}
	return 0
}

func buildColumnFilters(byColumn map[string][]string) []query.ColumnFilter {
	var out []query.ColumnFilter
	for col, patterns := range byColumn {
		if len(patterns) == 0 {
			continue
		}
		out = append(out, query.ColumnFilter{Column: col, Patterns: patterns})
	}
	return out
}

func literalPatterns(patterns []string) []string {
	var out []string
	for _, p := range patterns {
		if !query.HasWildcard(p) {
			out = append(out, p)
		}
	}
	return out
}

func parseLineRange(raw string) (start, end int, err error) {
	if idx := strings.IndexByte(raw, '-'); idx > 0 {
		start, err = strconv.Atoi(raw[:idx])
		if err != nil {
			return 0, 0, err
		}
		end, err = strconv.Atoi(raw[idx+1:])
		return start, end, err
	}
	n, err := strconv.Atoi(raw)
	return n, n, err
}

func isEmpty(st *store.Store, plan *query.PreparedQuery) (bool, error) {
	rows, err := st.DB().Query(plan.SQL, plan.Args...)
	if err != nil {
		return false, err
	}
	defer rows.Close()
	return !rows.Next(), rows.Err()
}

func printUsage(fs *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Usage: qi [flags] pattern...\n\n")
	fs.PrintDefaults()
}
