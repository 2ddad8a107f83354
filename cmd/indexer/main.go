// Command indexer walks one or more paths, parses every file a registered
// language dispatcher claims, and writes its symbols into the index store.
// Flag handling follows cmd/morfx/main.go's pflag.NewFlagSet shape; the
// walk itself is internal/scanner, generalized from fileman's provider-
// aliases extension check to the multi-language lang.Registry.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/ebcode/sourceminder/internal/config"
	"github.com/ebcode/sourceminder/internal/filter"
	"github.com/ebcode/sourceminder/internal/indexrun"
	"github.com/ebcode/sourceminder/internal/lang"
	_ "github.com/ebcode/sourceminder/internal/lang/golang"
	_ "github.com/ebcode/sourceminder/internal/lang/javascript"
	_ "github.com/ebcode/sourceminder/internal/lang/php"
	_ "github.com/ebcode/sourceminder/internal/lang/python"
	_ "github.com/ebcode/sourceminder/internal/lang/typescript"
	"github.com/ebcode/sourceminder/internal/logx"
	"github.com/ebcode/sourceminder/internal/metrics"
	"github.com/ebcode/sourceminder/internal/model"
	"github.com/ebcode/sourceminder/internal/scanner"
	"github.com/ebcode/sourceminder/internal/store"
)

const defaultDBFile = "code-index.db"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "indexer: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("indexer", pflag.ContinueOnError)
	fs.Usage = func() { printUsage(fs) }

	once := fs.Bool("once", false, "Index every target once, then exit (default: keep rescanning at --interval).")
	silent := fs.Bool("silent", false, "Suppress the per-run summary line.")
	quietInit := fs.Bool("quiet-init", false, "Suppress the startup banner listing known extensions.")
	verbose := fs.BoolP("verbose", "v", false, "Enable info-level logging.")
	debug := fs.Bool("debug", false, "Enable debug-level logging.")
	excludeDirs := fs.StringSlice("exclude-dir", nil, "Directory glob to skip (repeatable).")
	dbFile := fs.String("db-file", defaultDBFile, "Path to the index database.")
	workers := fs.Int("workers", 1, "Number of concurrent parse workers (1 = sequential).")
	interval := fs.Duration("interval", 5*time.Second, "Rescan interval when not running with --once.")
	noGitignore := fs.Bool("no-gitignore", false, "Disable .gitignore-aware filtering.")
	metricsAddr := fs.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090); disabled when empty.")
	stopwordsPath := fs.String("stopwords", "", "Path to a shared stopwords file, one lowercase word per line.")
	keywordsFlags := fs.StringSlice("keywords", nil, "lang=path mapping to a per-language keyword file (repeatable).")
	regexExclusions := fs.StringSlice("regex-exclude", nil, "POSIX ERE pattern excluding matching words (repeatable).")
	minLength := fs.Int("min-length", filter.DefaultMinLength, "Minimum word length the symbol filter accepts.")
	help := fs.BoolP("help", "h", false, "Show this help message and exit.")
	version := fs.Bool("version", false, "Print the version and exit.")

	if cfgPath, cErr := config.Path(); cErr == nil {
		if lines, rErr := config.ReadSection(cfgPath, "indexer"); rErr == nil && len(lines) > 0 {
			args = config.Merge(args, lines)
		}
	}

	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if *help {
		fs.Usage()
		return nil
	}
	if *version {
		fmt.Println("sourceminder indexer (dev)")
		return nil
	}

	logx.SetDebug(*debug)
	log := logx.New(*verbose)

	reg := lang.Default
	if !*quietInit {
		fmt.Fprintf(os.Stderr, "indexer: known extensions: %v\n", reg.Extensions())
	}

	keywordsPaths, err := parseKeywordsFlags(*keywordsFlags)
	if err != nil {
		return err
	}

	f, err := filter.Load(filter.Config{
		MinLength:       *minLength,
		StopwordsPath:   *stopwordsPath,
		KeywordsPaths:   keywordsPaths,
		RegexExclusions: *regexExclusions,
	})
	if err != nil {
		return err
	}

	st, err := store.Open(*dbFile)
	if err != nil {
		return err
	}
	defer st.Close()

	sc := scanner.New(scanner.Config{
		Registry:    reg,
		ExcludeDirs: *excludeDirs,
		NoGitignore: *noGitignore,
	})

	targets := fs.Args()

	if *metricsAddr != "" {
		go func() {
			if err := metrics.Serve(*metricsAddr); err != nil {
				log.Warn("metrics server stopped", "error", err)
			}
		}()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	runOnce := func() error {
		files, err := sc.ScanTargets(ctx, targets)
		if err != nil {
			return err
		}
		root, err := os.Getwd()
		if err != nil {
			return err
		}
		res := indexrun.Run(ctx, files, indexrun.Options{
			Registry: reg,
			Filter:   f,
			Store:    st,
			Root:     root,
			Workers:  *workers,
			Metrics:  *metricsAddr != "",
			Log:      log,
		})
		if !*silent {
			fmt.Printf("indexed %d file(s), %d failed, %d symbol(s)\n", res.FilesIndexed, res.FilesFailed, res.SymbolsTotal)
		}
		return nil
	}

	if *once {
		return runOnce()
	}

	for {
		if err := runOnce(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(*interval):
		}
	}
}

func printUsage(fs *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Usage: indexer [flags] [path...]\n\n")
	fs.PrintDefaults()
}

func parseKeywordsFlags(raw []string) (map[model.Language]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[model.Language]string, len(raw))
	for _, kv := range raw {
		idx := strings.IndexByte(kv, '=')
		if idx < 0 {
			return nil, fmt.Errorf("--keywords %q: want lang=path", kv)
		}
		out[model.Language(kv[:idx])] = kv[idx+1:]
	}
	return out, nil
}
