package lang

import (
	"fmt"
	"sync"

	"github.com/mvp-joe/project-cortex/internal/coreid"
)

// builtinExts is the set of extensions the dispatcher always handles
// itself; an adapter registered for one of these is stored but never
// consulted by Registry.Resolve (spec §4.1: "Built-in dispatch always
// preempts an adapter registered for an extension the built-in already
// handles").
var builtinExts = map[string]bool{
	".ts": true, ".tsx": true, ".js": true, ".jsx": true,
	".py": true, ".rs": true, ".go": true,
}

// Registry is a process-wide (but explicitly constructed, not global)
// mapping from file extension to Adapter. It is owned by core.Context and
// threaded through the chunker and graph builder, per spec §9's design
// note against hidden global state.
type Registry struct {
	mu       sync.RWMutex
	byExt    map[string]Adapter
	extLang  map[string]string // ext -> language identifier, for idempotence checks
	builtins map[string]Adapter
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{
		byExt:    make(map[string]Adapter),
		extLang:  make(map[string]string),
		builtins: make(map[string]Adapter),
	}
}

// RegisterBuiltin installs the dispatcher's own handler for a built-in
// extension. Not subject to the conflict checks in Register.
func (r *Registry) RegisterBuiltin(ext string, a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builtins[ext] = a
}

// Register adds an externally supplied adapter for ext. Registration is
// idempotent when the same language identifier is registered again for
// the same extension; it is an ErrConflict when a *different* language
// identifier is registered for an extension already claimed (spec §4.1).
func (r *Registry) Register(ext string, a Adapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.extLang[ext]; ok {
		if existing == a.Language() {
			r.byExt[ext] = a // idempotent re-registration; replace impl, keep identity
			return nil
		}
		return fmt.Errorf("adapter for extension %q already registered for language %q, got %q: %w",
			ext, existing, a.Language(), coreid.ErrConflict)
	}

	r.byExt[ext] = a
	r.extLang[ext] = a.Language()
	return nil
}

// Resolve returns the adapter that should handle ext. For a built-in
// extension that is the installed built-in handler (ok=false if none is
// installed; user-registered adapters are never consulted for it); for
// any other extension it is the user-registered adapter, if any.
func (r *Registry) Resolve(ext string) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if builtinExts[ext] {
		if a, ok := r.builtins[ext]; ok {
			return a, true
		}
		return nil, false
	}
	a, ok := r.byExt[ext]
	return a, ok
}

// IsBuiltin reports whether ext is in the dispatcher's always-preempt set.
func IsBuiltin(ext string) bool { return builtinExts[ext] }
