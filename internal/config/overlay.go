// Package config reads the ~/.smconfig overlay file and merges its [qi]
// section into the process's argument list with CLI-wins precedence.
// Grounded on the teacher's flag-merge conventions (cmd/morfx/main.go's
// pflag.ContinueOnError + fs.Changed(...) pattern), generalized from the
// teacher's JSON tool-config to spec.md §4.11's INI-like section format.
// The line grammar here ("one flag plus values per line") is not
// KEY=VALUE, so no pack dependency (godotenv included) targets it; this
// package hand-parses it with internal/extract.SplitWords, the one
// documented stdlib-only spot in the config layer.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ebcode/sourceminder/internal/extract"
)

// Path returns the default overlay file location.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: locate home directory: %w", err)
	}
	return filepath.Join(home, ".smconfig"), nil
}

// ReadSection parses the given section's lines out of the overlay file.
// Each non-comment, non-blank line becomes one token group ("flag value
// value..."), tokenized with extract.SplitWords. A missing file yields no
// tokens and no error — the overlay is optional.
func ReadSection(path, section string) ([][]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	var lines [][]string
	inSection := false
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			inSection = strings.EqualFold(strings.TrimSuffix(strings.TrimPrefix(line, "["), "]"), section)
			continue
		}
		if !inSection {
			continue
		}
		lines = append(lines, extract.SplitWords(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return lines, nil
}

// Merge appends config-file tokens after the explicit CLI args, skipping
// any config line whose leading flag name (with or without leading
// dashes) is already present among the CLI args — CLI always wins.
func Merge(cliArgs []string, configLines [][]string) []string {
	present := map[string]bool{}
	for _, a := range cliArgs {
		present[flagName(a)] = true
	}

	merged := append([]string{}, cliArgs...)
	for _, line := range configLines {
		if len(line) == 0 {
			continue
		}
		if present[flagName(line[0])] {
			continue
		}
		merged = append(merged, line...)
	}
	return merged
}

func flagName(token string) string {
	name := strings.TrimLeft(token, "-")
	if idx := strings.IndexByte(name, '='); idx >= 0 {
		name = name[:idx]
	}
	return name
}
