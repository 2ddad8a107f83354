// Package buffer implements the parse result buffer (spec component D): a
// per-file, append-only accumulator for symbol records. It is deliberately
// thin, owning no persistence of its own.
package buffer

import "github.com/ebcode/sourceminder/internal/model"

// Buffer accumulates symbol records for exactly one file's parse.
type Buffer struct {
	rows []model.Symbol
}

// New returns an empty Buffer, optionally pre-sizing its backing slice.
func New(hint int) *Buffer {
	return &Buffer{rows: make([]model.Symbol, 0, hint)}
}

// Emit appends one record. It is the `emit` callback handlers receive.
func (b *Buffer) Emit(s model.Symbol) {
	b.rows = append(b.rows, s)
}

// Rows returns the accumulated records for a single flush to the store.
func (b *Buffer) Rows() []model.Symbol { return b.rows }

// Len reports how many records have been buffered so far.
func (b *Buffer) Len() int { return len(b.rows) }

// Reset empties the buffer so it can be reused for the next file, or lets
// it be garbage collected once the caller drops its reference.
func (b *Buffer) Reset() { b.rows = b.rows[:0] }
