// Package render formats a query.Plan's result rows for the terminal.
// Grounded on providers/base/provider.go's getIndentation/line-slicing
// helpers generalized into the column/context-window renderer spec.md
// §4.8 describes, and on github.com/fatih/color (wired in from vjache-cie's
// go.mod, since the teacher itself carries no color dependency) for the
// ANSI-highlighted context windows.
package render

import (
	"bufio"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/ebcode/sourceminder/internal/model"
	"github.com/ebcode/sourceminder/internal/query"
	"github.com/ebcode/sourceminder/internal/store"
)

// Options controls how Render lays out a result set. It mirrors the
// output-related fields of query.Request one-to-one.
type Options struct {
	Limit         int
	LimitPerFile  int
	FilesOnly     bool
	ShowColumns   []string
	Expand        bool
	ContextBefore int
	ContextAfter  int
	Compact       bool
	Highlight     []string // literal (non-wildcard) input patterns, for context-window highlighting
}

var allColumns = []string{"line", "context", "symbol", "parent", "scope", "modifier", "clue", "namespace", "type", "is_definition"}

func resolveColumns(requested []string) []string {
	if len(requested) == 0 {
		return []string{"line", "context", "symbol"}
	}
	for _, c := range requested {
		if c == "all" {
			return allColumns
		}
	}
	return requested
}

// Render reads rows from a compiled query.PreparedQuery and writes the
// formatted result to w.
func Render(w io.Writer, db *sql.DB, plan *query.PreparedQuery, opts Options) error {
	rows, err := db.Query(plan.SQL, plan.Args...)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	defer rows.Close()

	var symbols []model.Symbol
	for rows.Next() {
		var dest store.SymbolDest
		if err := rows.Scan(dest.Pointers()...); err != nil {
			return err
		}
		symbols = append(symbols, dest.ToSymbol())
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if opts.FilesOnly {
		return renderFilesOnly(w, symbols)
	}
	return renderRows(w, symbols, opts)
}

func renderFilesOnly(w io.Writer, symbols []model.Symbol) error {
	seen := map[string]bool{}
	var files []string
	for _, s := range symbols {
		key := s.Directory + "/" + s.Filename
		if !seen[key] {
			seen[key] = true
			files = append(files, key)
		}
	}
	sort.Strings(files)
	for _, f := range files {
		fmt.Fprintln(w, f)
	}
	return nil
}

func renderRows(w io.Writer, symbols []model.Symbol, opts Options) error {
	columns := resolveColumns(opts.ShowColumns)
	widths := computeWidths(symbols, columns)

	var lastFile string
	total := 0
	perFile := 0

	for _, s := range symbols {
		if opts.Limit > 0 && total >= opts.Limit {
			break
		}
		file := s.Directory + "/" + s.Filename
		if file != lastFile {
			if lastFile != "" {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s\n", file)
			lastFile = file
			perFile = 0
		}
		if opts.LimitPerFile > 0 && perFile >= opts.LimitPerFile {
			continue
		}

		fmt.Fprintln(w, formatRow(s, columns, widths, opts.Compact))
		total++
		perFile++

		if s.IsDefinition && opts.Expand {
			if err := printExpanded(w, s); err != nil {
				fmt.Fprintf(w, "  (expand error: %v)\n", err)
			}
			fmt.Fprintln(w, strings.Repeat("-", 40))
		} else if opts.ContextBefore > 0 || opts.ContextAfter > 0 {
			if err := printContextWindow(w, s, opts); err != nil {
				fmt.Fprintf(w, "  (context error: %v)\n", err)
			}
		}
	}
	return nil
}

func computeWidths(symbols []model.Symbol, columns []string) map[string]int {
	widths := map[string]int{}
	for _, c := range columns {
		widths[c] = len(c)
	}
	for _, s := range symbols {
		for _, c := range columns {
			v := columnValue(s, c)
			if len(v) > widths[c] {
				widths[c] = len(v)
			}
		}
	}
	return widths
}

func columnValue(s model.Symbol, column string) string {
	switch column {
	case "line":
		return strconv.Itoa(s.Line)
	case "context":
		return string(s.Context)
	case "symbol":
		return s.FullSymbol
	case "parent":
		return s.Parent
	case "scope":
		return s.Scope
	case "modifier":
		return s.Modifier
	case "clue":
		return s.Clue
	case "namespace":
		return s.Namespace
	case "type":
		return s.Type
	case "is_definition":
		if s.IsDefinition {
			return "1"
		}
		return "0"
	}
	return ""
}

func formatRow(s model.Symbol, columns []string, widths map[string]int, compact bool) string {
	var parts []string
	for _, c := range columns {
		v := columnValue(s, c)
		if compact {
			parts = append(parts, v)
			continue
		}
		parts = append(parts, fmt.Sprintf("%-*s", widths[c], v))
	}
	sep := "  "
	if compact {
		sep = "\t"
	}
	return strings.Join(parts, sep)
}

func printExpanded(w io.Writer, s model.Symbol) error {
	loc, err := model.ParseLocation(s.SourceLocation)
	if err != nil {
		return err
	}
	path := s.Directory + "/" + s.Filename
	lines, err := readLines(path)
	if err != nil {
		return err
	}
	for i := loc.StartLine; i <= loc.EndLine && i <= len(lines); i++ {
		if i < 1 {
			continue
		}
		fmt.Fprintf(w, "  %4d: %s\n", i, lines[i-1])
	}
	return nil
}

func printContextWindow(w io.Writer, s model.Symbol, opts Options) error {
	path := s.Directory + "/" + s.Filename
	lines, err := readLines(path)
	if err != nil {
		return err
	}
	start := s.Line - opts.ContextBefore
	end := s.Line + opts.ContextAfter
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	for i := start; i <= end; i++ {
		text := lines[i-1]
		fmt.Fprintf(w, "  %4d: %s\n", i, highlight(text, opts.Highlight))
	}
	return nil
}

func highlight(line string, literals []string) string {
	if len(literals) == 0 {
		return line
	}
	out := line
	for _, lit := range literals {
		if lit == "" {
			continue
		}
		out = replaceFold(out, lit, color.New(color.FgYellow, color.Bold).Sprint(lit))
	}
	return out
}

func replaceFold(s, target, replacement string) string {
	lower := strings.ToLower(s)
	lowerTarget := strings.ToLower(target)
	var b strings.Builder
	i := 0
	for {
		idx := strings.Index(lower[i:], lowerTarget)
		if idx < 0 {
			b.WriteString(s[i:])
			break
		}
		b.WriteString(s[i : i+idx])
		b.WriteString(replacement)
		i += idx + len(target)
	}
	return b.String()
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}
