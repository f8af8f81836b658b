package extractors

import (
	"fmt"
	"sort"
)

// Extractor pulls one kind of structured record out of a filing document.
type Extractor interface {
	Name() string
	Extract(doc []byte) (*Result, error)
}

// Registry holds the available extractors. Callers construct and inject
// it; there is no package-level default.
type Registry struct {
	byName map[string]Extractor
}

// NewRegistry builds a registry over the given extractors. Duplicate
// names are an error.
func NewRegistry(extractors ...Extractor) (*Registry, error) {
	r := &Registry{byName: make(map[string]Extractor, len(extractors))}
	for _, e := range extractors {
		if _, dup := r.byName[e.Name()]; dup {
			return nil, fmt.Errorf("duplicate extractor %q", e.Name())
		}
		r.byName[e.Name()] = e
	}
	return r, nil
}

// NewDefaultRegistry wires the built-in extractors over the embedded
// rules.
func NewDefaultRegistry() (*Registry, error) {
	rules, err := DefaultRules()
	if err != nil {
		return nil, err
	}
	sct, err := NewSCTExtractor(rules)
	if err != nil {
		return nil, err
	}
	tax, err := NewTaxExtractor(rules)
	if err != nil {
		return nil, err
	}
	return NewRegistry(sct, tax)
}

// Get returns the named extractor.
func (r *Registry) Get(name string) (Extractor, error) {
	e, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown extractor %q (known: %v)", name, r.Names())
	}
	return e, nil
}

// Names lists registered extractors in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run looks up and executes one extractor.
func (r *Registry) Run(name string, doc []byte) (*Result, error) {
	e, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return e.Extract(doc)
}
