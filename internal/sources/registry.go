package sources

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Registry holds the available source adapters, keyed by name.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
}

// NewRegistry creates a new empty source registry.
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[string]Source),
	}
}

// Register adds a source adapter to the registry, replacing any with the same name.
func (r *Registry) Register(s Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[s.Name()] = s
}

// Get retrieves a source adapter by name.
func (r *Registry) Get(name string) (Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sources[name]
	return s, ok
}

// List returns all registered source adapters sorted by name.
func (r *Registry) List() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked()
}

// Names returns the names of all registered sources sorted alphabetically.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.sources))
}

// DetectSource picks the source with the highest confidence for path.
// Sources claiming the file extension are tried first; if none claims it,
// every source is asked. Ties go to the first source by name. When nobody
// scores above 0 but exactly one source claims the extension, that source
// is returned, so an export with no entries still converts. Otherwise
// ErrSourceNotFound is returned.
func (r *Registry) DetectSource(path string) (Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.sortedLocked()
	ext := strings.ToLower(filepath.Ext(path))

	candidates := slices.DeleteFunc(slices.Clone(all), func(s Source) bool {
		return !slices.ContainsFunc(s.SupportedExtensions(), func(supported string) bool {
			return strings.ToLower(supported) == ext
		})
	})
	claimed := candidates
	if len(candidates) == 0 {
		candidates = all
	}

	var bestSource Source
	var bestConfidence int

	for _, s := range candidates {
		confidence, err := s.Detect(path)
		if err != nil {
			continue
		}
		if confidence > bestConfidence {
			bestConfidence = confidence
			bestSource = s
		}
	}

	if bestSource == nil {
		if len(claimed) == 1 {
			return claimed[0], nil
		}
		return nil, &ErrSourceNotFound{Path: path}
	}

	return bestSource, nil
}

func (r *Registry) sortedLocked() []Source {
	result := make([]Source, 0, len(r.sources))
	for _, name := range slices.Sorted(maps.Keys(r.sources)) {
		result = append(result, r.sources[name])
	}
	return result
}

// Count returns the number of registered sources.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sources)
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the global registry with all built-in sources.
// Sources register themselves from init functions.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// RegisterDefault registers a source with the default registry.
func RegisterDefault(s Source) {
	DefaultRegistry().Register(s)
}
