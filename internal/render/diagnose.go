package render

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/ebcode/sourceminder/internal/filter"
	"github.com/ebcode/sourceminder/internal/model"
	"github.com/ebcode/sourceminder/internal/query"
)

// Diagnose implements spec.md §4.8's zero-result path: probe each pattern
// individually, classify it through the symbol filter when it has no
// direct hit and no wildcards, and report whether an auto-retry with
// wildcards is worth suggesting.
func Diagnose(w io.Writer, db *sql.DB, f *filter.Filter, lang model.Language, patterns []string) {
	for _, p := range patterns {
		count, err := probeCount(db, p)
		if err != nil {
			fmt.Fprintf(w, "  %-20s error probing: %v\n", p, err)
			continue
		}
		if count > 0 {
			fmt.Fprintf(w, "  %-20s %d match(es)\n", p, count)
			continue
		}
		if query.HasWildcard(p) {
			fmt.Fprintf(w, "  %-20s 0 matches\n", p)
			continue
		}

		rejection := f.Classify(p, lang)
		if rejection != filter.Accepted {
			fmt.Fprintf(w, "  %-20s 0 matches (filtered: %s)\n", p, rejectionLabel(rejection))
			continue
		}

		retried := "*" + p + "*"
		retryCount, err := probeCount(db, retried)
		if err == nil && retryCount > 0 {
			fmt.Fprintf(w, "  %-20s 0 matches; auto-retry %q found %d\n", p, retried, retryCount)
		} else {
			fmt.Fprintf(w, "  %-20s 0 matches (valid symbol, none indexed)\n", p)
		}
	}
}

func probeCount(db *sql.DB, pattern string) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM code_index WHERE full_symbol LIKE ?`, query.ConvertWildcard(pattern)).Scan(&count)
	return count, err
}

func rejectionLabel(r filter.Rejection) string {
	switch r {
	case filter.TooShort:
		return "too short"
	case filter.Numeric:
		return "numeric"
	case filter.Stopword:
		return "stopword"
	case filter.Keyword:
		return "language keyword"
	case filter.RegexExcluded:
		return "regex excluded"
	default:
		return "valid"
	}
}

// WarnUnknownExtensions reports file-filter extensions no registered
// dispatcher claims, per spec.md §4.8's final sentence.
func WarnUnknownExtensions(w io.Writer, unknown []string) {
	for _, ext := range unknown {
		fmt.Fprintf(w, "warning: extension %q is not indexed by any known language\n", ext)
	}
}
