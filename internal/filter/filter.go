// Package filter implements the symbol filter (spec component A): the
// should_index predicate that decides whether a candidate word belongs in
// the index, and the clean_string_symbol companion used when pulling words
// out of comments and string literals.
package filter

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/ebcode/sourceminder/internal/model"
)

// Filter is a pure predicate gate, built once from plain-text configuration
// files and reused across every parse in a process.
type Filter struct {
	minLength int
	stopwords map[string]struct{}
	keywords  map[model.Language]map[string]struct{}
	regexes   []*regexp.Regexp
}

// Config is the set of plain-text inputs loaded once at startup, mirroring
// providers/golang/config.go's alias-map shape generalized to filter data.
type Config struct {
	MinLength int
	// StopwordsPath is a file of one lowercase word per line, shared by
	// every language.
	StopwordsPath string
	// KeywordsPaths maps a language to its own keyword list file.
	KeywordsPaths map[model.Language]string
	// RegexExclusions is a list of POSIX extended regular expressions
	// (numeric-with-unit, hex colors, versions, ordinals, ...).
	RegexExclusions []string
}

// DefaultMinLength is used when Config.MinLength is zero or negative.
const DefaultMinLength = 2

// Load builds a Filter from the configured files. Missing optional files
// (keyword lists for a language nobody indexes yet) are tolerated; a
// missing stopwords file is not fatal either, since an empty stopword set
// is still a valid, if noisier, configuration.
func Load(cfg Config) (*Filter, error) {
	f := &Filter{
		minLength: cfg.MinLength,
		stopwords: map[string]struct{}{},
		keywords:  map[model.Language]map[string]struct{}{},
	}
	if f.minLength <= 0 {
		f.minLength = DefaultMinLength
	}

	if cfg.StopwordsPath != "" {
		words, err := readWordList(cfg.StopwordsPath)
		if err != nil {
			return nil, fmt.Errorf("filter: loading stopwords: %w", err)
		}
		for _, w := range words {
			f.stopwords[w] = struct{}{}
		}
	}

	for lang, path := range cfg.KeywordsPaths {
		words, err := readWordList(path)
		if err != nil {
			return nil, fmt.Errorf("filter: loading keywords for %s: %w", lang, err)
		}
		set := make(map[string]struct{}, len(words))
		for _, w := range words {
			set[w] = struct{}{}
		}
		f.keywords[lang] = set
	}

	for _, pat := range cfg.RegexExclusions {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("filter: compiling regex exclusion %q: %w", pat, err)
		}
		f.regexes = append(f.regexes, re)
	}

	return f, nil
}

func readWordList(path string) ([]string, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, strings.ToLower(line))
	}
	return words, scanner.Err()
}

// Rejection explains why ShouldIndex rejected a word; used by the renderer
// to classify zero-result patterns (spec §4.8).
type Rejection int

const (
	Accepted Rejection = iota
	TooShort
	Numeric
	Stopword
	Keyword
	RegexExcluded
)

// Classify runs the should_index cascade and reports exactly which rule
// rejected the word, or Accepted if none did.
func (f *Filter) Classify(word string, lang model.Language) Rejection {
	if len(word) < f.minLength {
		return TooShort
	}
	if isAllDigits(word) {
		return Numeric
	}
	lower := strings.ToLower(word)
	if _, ok := f.stopwords[lower]; ok {
		return Stopword
	}
	if kw, ok := f.keywords[lang]; ok {
		if _, ok := kw[lower]; ok {
			return Keyword
		}
	}
	for _, re := range f.regexes {
		if re.MatchString(word) {
			return RegexExcluded
		}
	}
	return Accepted
}

// ShouldIndex implements spec.md §4.1's should_index(word) -> bool.
func (f *Filter) ShouldIndex(word string, lang model.Language) bool {
	return f.Classify(word, lang) == Accepted
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// CleanStringSymbol strips leading/trailing punctuation that is not part
// of an identifier, while preserving interior characters (so
// "o'clock" survives but leading/trailing quotes, commas, and terminal
// punctuation from comment/string prose do not).
func CleanStringSymbol(raw string) string {
	isIdentRune := func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
	}
	start := 0
	for start < len(raw) && !isIdentRune(rune(raw[start])) {
		start++
	}
	end := len(raw)
	for end > start && !isIdentRune(rune(raw[end-1])) {
		end--
	}
	if start >= end {
		return ""
	}
	return raw[start:end]
}
