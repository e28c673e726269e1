// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

// Package filter defines the contract between the compilation core
// and filter implementations. The core resolves filter names through a
// Resolver, checks the declared input/output kinds against the
// representation's current kind, and hands the filter a Request; it
// never knows what a filter does internally. Concrete filters live in
// lib/filters or in the embedding application.
package filter

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dv/nanoc/lib/content"
)

// Args are the caller-supplied parameters for one filter invocation.
// The rule driver controls the full set; the core passes them through
// untouched.
type Args map[string]any

// Request is everything a filter receives for one run.
type Request struct {
	// Content is the source. Its variant matches the filter's
	// declared input kind: TextualContent for text input,
	// BinaryContent for binary input.
	Content content.Content

	// Args are the invocation parameters from the compilation rule.
	Args Args

	// Assigns are the named values the driver exposes to filters
	// (item attributes, site config, ...). During layout processing
	// the core adds the layout under the "layout" key.
	Assigns map[string]any

	// OutputPath is the path a binary-output filter must write its
	// result to. Empty for text-output filters.
	OutputPath string
}

// Filter is one named content transformation with declared input and
// output kinds. Run returns TextualContent when OutputKind is Text; a
// Binary-output filter writes its result to req.OutputPath and returns
// BinaryContent referencing it.
type Filter interface {
	Name() string
	InputKind() content.Kind
	OutputKind() content.Kind
	Run(req Request) (content.Content, error)
}

// Resolver maps filter names to filters. The second return is false
// when the name is unknown.
type Resolver interface {
	Resolve(name string) (Filter, bool)
}

// Registry is a map-backed Resolver. Registration typically happens at
// startup; Resolve is safe for concurrent use with itself and with
// late registrations.
type Registry struct {
	mu      sync.RWMutex
	filters map[string]Filter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{filters: make(map[string]Filter)}
}

// Register adds f under f.Name(). Registering the same name twice is a
// programming error and panics.
func (r *Registry) Register(f Filter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.filters[f.Name()]; exists {
		panic(fmt.Sprintf("filter %q registered twice", f.Name()))
	}
	r.filters[f.Name()] = f
}

// Resolve implements Resolver.
func (r *Registry) Resolve(name string) (Filter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.filters[name]
	return f, ok
}

// Names returns all registered filter names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.filters))
	for name := range r.filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Func adapts a function to the Filter interface. Built-in filters and
// test fakes use it instead of defining a struct per filter.
type Func struct {
	FilterName string
	Input      content.Kind
	Output     content.Kind
	RunFunc    func(req Request) (content.Content, error)
}

// Name implements Filter.
func (f Func) Name() string { return f.FilterName }

// InputKind implements Filter.
func (f Func) InputKind() content.Kind { return f.Input }

// OutputKind implements Filter.
func (f Func) OutputKind() content.Kind { return f.Output }

// Run implements Filter.
func (f Func) Run(req Request) (content.Content, error) {
	return f.RunFunc(req)
}
