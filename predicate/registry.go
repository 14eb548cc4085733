package predicate

import (
	"fmt"
	"sort"
	"sync"

	"github.com/NoliDD/assessment-tool/measure"
)

// Registry holds the predicates available to rule documents. A fresh
// registry starts with the builtins unless configured otherwise.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Predicate
}

// NewRegistry builds a registry.
func NewRegistry(opts ...Option) *Registry {
	cfg := registryOptions{builtins: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	r := &Registry{byName: make(map[string]Predicate)}
	if cfg.builtins {
		for _, p := range Builtins() {
			r.byName[measure.NormalizeKey(p.Name())] = p
		}
	}
	for _, p := range cfg.extra {
		r.byName[measure.NormalizeKey(p.Name())] = p
	}
	return r
}

// Register adds a predicate. Names are matched case-insensitively and must
// be unique.
func (r *Registry) Register(p Predicate) error {
	key := measure.NormalizeKey(p.Name())
	if key == "" {
		return ErrUnnamedPredicate
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[key]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicatePredicate, p.Name())
	}
	r.byName[key] = p
	return nil
}

// Clone returns an independent copy of the registry. Document loads bind
// their own predicates into a clone so reloading a document never
// collides with earlier registrations.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := &Registry{byName: make(map[string]Predicate, len(r.byName))}
	for key, p := range r.byName {
		out.byName[key] = p
	}
	return out
}

// Lookup returns the predicate registered under name.
func (r *Registry) Lookup(name string) (Predicate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byName[measure.NormalizeKey(name)]
	return p, ok
}

// Names returns the registered predicate names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
