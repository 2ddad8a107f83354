package filter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ebcode/sourceminder/internal/model"
)

func writeLines(t *testing.T, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestShouldIndexCascade(t *testing.T) {
	stop := writeLines(t, "the", "and")
	kw := writeLines(t, "func", "return")
	f, err := Load(Config{
		MinLength:       3,
		StopwordsPath:   stop,
		KeywordsPaths:   map[model.Language]string{model.Go: kw},
		RegexExclusions: []string{`^#[0-9a-fA-F]{3,6}$`, `^[0-9]+px$`},
	})
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		word string
		want Rejection
	}{
		{"ab", TooShort},
		{"1234", Numeric},
		{"The", Stopword},
		{"func", Keyword},
		{"#fff", RegexExcluded},
		{"12px", RegexExcluded},
		{"validateUser", Accepted},
	}
	for _, c := range cases {
		if got := f.Classify(c.word, model.Go); got != c.want {
			t.Errorf("Classify(%q) = %v, want %v", c.word, got, c.want)
		}
	}

	// Keywords are per-language: "func" is not excluded for Python.
	if got := f.Classify("func", model.Python); got != Accepted {
		t.Errorf("Classify(func, python) = %v, want Accepted", got)
	}
}

func TestCleanStringSymbol(t *testing.T) {
	cases := map[string]string{
		"\"hello,\"":  "hello",
		"(world)":     "world",
		"o'clock":     "o'clock",
		"...":         "",
		"  foo_bar!!": "foo_bar",
	}
	for in, want := range cases {
		if got := CleanStringSymbol(in); got != want {
			t.Errorf("CleanStringSymbol(%q) = %q, want %q", in, got, want)
		}
	}
}
