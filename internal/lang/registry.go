package lang

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ebcode/sourceminder/internal/model"
)

// Registry maps file extensions and language names to a registered
// Dispatcher. Grounded on internal/registry/registry.go's thread-safe
// provider map, generalized from "language provider for a transform
// query" to "AST dispatcher for indexing."
type Registry struct {
	mu         sync.RWMutex
	dispatch   map[model.Language]Dispatcher
	extensions map[string]model.Language
}

// NewRegistry returns an empty registry; dispatchers register themselves
// via Register, typically from each language package's init().
func NewRegistry() *Registry {
	return &Registry{
		dispatch:   make(map[model.Language]Dispatcher),
		extensions: make(map[string]model.Language),
	}
}

// Register adds a Dispatcher, indexing it by every extension it claims.
// A later registration for an extension silently wins, so a caller can
// override a built-in dispatcher with a custom one in tests.
func (r *Registry) Register(d Dispatcher) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.dispatch[d.Language()] = d
	for _, ext := range d.Extensions() {
		r.extensions[ext] = d.Language()
	}
}

// ForFile resolves the Dispatcher for a filename's extension.
func (r *Registry) ForFile(filename string) (Dispatcher, bool) {
	ext := filepath.Ext(filename)
	return r.ForExtension(ext)
}

// ForExtension resolves the Dispatcher registered for ext (with or
// without a leading dot).
func (r *Registry) ForExtension(ext string) (Dispatcher, bool) {
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	lang, ok := r.extensions[ext]
	if !ok {
		return nil, false
	}
	d, ok := r.dispatch[lang]
	return d, ok
}

// ForLanguage resolves the Dispatcher registered under a language name.
func (r *Registry) ForLanguage(l model.Language) (Dispatcher, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.dispatch[l]
	return d, ok
}

// KnownExtension reports whether ext is claimed by any registered
// dispatcher, used by the renderer's "warn on unknown extension" check
// (spec.md §4.8).
func (r *Registry) KnownExtension(ext string) bool {
	_, ok := r.ForExtension(ext)
	return ok
}

// Extensions returns every registered extension, sorted.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.extensions))
	for ext := range r.extensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Languages returns every registered language, sorted.
func (r *Registry) Languages() []model.Language {
	r.mu.RLock()
	defer r.mu.RUnlock()
	langs := make([]model.Language, 0, len(r.dispatch))
	for l := range r.dispatch {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

// Default is the process-wide registry populated by each language
// package's init(); cmd/indexer and cmd/qi both read it.
var Default = NewRegistry()

// ErrUnknownExtension is returned by callers that need a hard failure
// instead of the ok-boolean form above.
func ErrUnknownExtension(ext string) error {
	return fmt.Errorf("lang: no dispatcher registered for extension %q", ext)
}
