// Package subject resolves well-known keelson subjects (short human-readable
// tags) to the fully-qualified names of their payload message types, so a
// generic consumer can pick a payload decoder after uncovering an envelope.
package subject

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownSubject reports a lookup of a subject absent from the registry.
// The registry never auto-registers subjects and never returns a placeholder
// type name.
var ErrUnknownSubject = errors.New("unknown subject")

// Registry maps subjects to payload type names. It is sealed at
// construction, so concurrent lookups need no locking.
type Registry struct {
	types map[string]string
}

// NewRegistry builds a registry from the given subject -> type name table.
// The table is copied; later mutation of the argument does not affect the
// registry.
func NewRegistry(table map[string]string) *Registry {
	types := make(map[string]string, len(table))
	for tag, typeName := range table {
		types[tag] = typeName
	}
	return &Registry{types: types}
}

// Resolve returns the fully-qualified type name associated with tag, exactly
// as registered.
func (r *Registry) Resolve(tag string) (string, error) {
	typeName, ok := r.types[tag]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSubject, tag)
	}
	return typeName, nil
}

// IsWellKnown reports whether tag is present in the registry.
func (r *Registry) IsWellKnown(tag string) bool {
	_, ok := r.types[tag]
	return ok
}

// Tags returns all registered subjects, sorted.
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.types))
	for tag := range r.types {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

var defaultRegistry = NewRegistry(wellKnown)

// Default returns the registry backed by the compiled-in well-known table.
func Default() *Registry {
	return defaultRegistry
}

// Resolve looks up tag in the default registry.
func Resolve(tag string) (string, error) {
	return defaultRegistry.Resolve(tag)
}

// IsWellKnown reports whether tag is present in the default registry.
func IsWellKnown(tag string) bool {
	return defaultRegistry.IsWellKnown(tag)
}
