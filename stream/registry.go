package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"
)

// Registry collects tagged operators so they can be described to the
// external compiler. Registration is explicit; tagging alone registers
// nothing.
type Registry struct {
	mu        sync.RWMutex
	operators map[string]*Operator
}

// ManifestEntry is the description of one operator handed to the compiler.
type ManifestEntry struct {
	Name     string `json:"name"`
	Kind     Kind   `json:"kind"`
	File     string `json:"file"`
	Template string `json:"template,omitempty"`
	Doc      string `json:"doc,omitempty"`
	Ignored  bool   `json:"ignored,omitempty"`
}

var defaultRegistry = NewRegistry()

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		operators: make(map[string]*Operator),
	}
}

// Register adds op under its name. Names must be unique.
func (r *Registry) Register(op *Operator) error {
	if op == nil {
		return fmt.Errorf("cannot register a nil operator")
	}
	if op.Name() == "" {
		return fmt.Errorf("operator has no name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.operators[op.Name()]; exists {
		return fmt.Errorf("operator %s is already registered", op.Name())
	}
	r.operators[op.Name()] = op
	return nil
}

// Lookup returns the operator registered under name.
func (r *Registry) Lookup(name string) (*Operator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.operators[name]
	return op, ok
}

// Len returns the number of registered operators.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.operators)
}

// Manifest lists every registered operator ordered by name.
func (r *Registry) Manifest() []ManifestEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]ManifestEntry, 0, len(r.operators))
	for _, op := range r.operators {
		entries = append(entries, ManifestEntry{
			Name:     op.Name(),
			Kind:     op.Kind(),
			File:     op.File(),
			Template: op.Template(),
			Doc:      op.Doc(),
			Ignored:  op.Kind() == KindIgnore,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// WriteManifest writes the manifest to w as indented JSON.
func (r *Registry) WriteManifest(w io.Writer) error {
	b, err := json.MarshalIndent(r.Manifest(), "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// Register adds op to the default registry.
func Register(op *Operator) error {
	return defaultRegistry.Register(op)
}

// DefaultRegistry returns the process-wide registry used by Register.
func DefaultRegistry() *Registry {
	return defaultRegistry
}
