package render

import (
	"fmt"
	"slices"
	"sync"
)

// Registry stores renderers by name, providing discovery and duplication
// safeguards. Form and table renderers use separate registries.
type Registry[R Named] struct {
	mu        sync.RWMutex
	renderers map[string]R
}

// NewRegistry creates an empty registry instance.
func NewRegistry[R Named]() *Registry[R] {
	return &Registry[R]{
		renderers: make(map[string]R),
	}
}

// Register adds a renderer by its Name(). Duplicate names return an error.
func (r *Registry[R]) Register(renderer R) error {
	if any(renderer) == nil {
		return fmt.Errorf("render: renderer is required")
	}
	name := renderer.Name()
	if name == "" {
		return fmt.Errorf("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.renderers[name] = renderer
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry[R]) MustRegister(renderer R) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get retrieves a renderer by name.
func (r *Registry[R]) Get(name string) (R, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.renderers[name]
	if !ok {
		var zero R
		return zero, fmt.Errorf("render: renderer %q not found", name)
	}
	return renderer, nil
}

// List returns a sorted list of renderer names.
func (r *Registry[R]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Has reports whether a renderer is registered.
func (r *Registry[R]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.renderers[name]
	return ok
}
