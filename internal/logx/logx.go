// Package logx is a thin log/slog wrapper shared by cmd/indexer and
// cmd/qi. The teacher carries no structured-logging dependency anywhere
// in its tree (neither does any other pack member for this exact
// concern), so this is the one ambient-stack piece built on the standard
// library rather than an ecosystem package — documented in DESIGN.md.
package logx

import (
	"log/slog"
	"os"
	"sync/atomic"
)

var debugEnabled atomic.Bool

// SetDebug is a write-once toggle set at startup from the --debug flag,
// read thereafter — the one process-wide mutable flag spec.md §5's
// Design Notes sanction.
func SetDebug(on bool) {
	debugEnabled.Store(on)
}

// Debug reports whether --debug was passed.
func Debug() bool {
	return debugEnabled.Load()
}

// New builds the process logger at Debug level when --debug is set, Info
// level when verbose is true, and Warn level otherwise, writing to stderr so stdout stays
// reserved for query/indexer output.
func New(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case debugEnabled.Load():
		level = slog.LevelDebug
	case verbose:
		level = slog.LevelInfo
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}
