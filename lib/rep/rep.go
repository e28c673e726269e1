// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

// Package rep implements the per-representation compilation state
// machine: one Rep holds the evolving content of a single output
// variant of an item, runs filters and layouts against it, captures
// named snapshots, and hands final snapshots to a writer.
//
// A Rep is driven strictly sequentially by the external rule driver —
// filter, snapshot, layout, snapshot, write, one call at a time.
// Concurrent calls on the same Rep are not supported; distinct Reps
// are fully independent and may compile in parallel.
package rep

import (
	"fmt"
	"log/slog"
	"maps"

	"github.com/dv/nanoc/lib/content"
	"github.com/dv/nanoc/lib/event"
	"github.com/dv/nanoc/lib/filter"
	"github.com/dv/nanoc/lib/item"
)

// SnapshotName names a point-in-time copy of a representation's
// content. The three moving names below may still change while
// compilation is in progress; any other name is fixed and only
// readable once sealed.
type SnapshotName string

const (
	// SnapshotLast always tracks the most recently produced content.
	SnapshotLast SnapshotName = "last"

	// SnapshotPre is the content before any layout wrapping. Sealed
	// (made final) when the first layout is applied.
	SnapshotPre SnapshotName = "pre"

	// SnapshotPost is the content after layout wrapping. Never
	// final until the compilation pass completes.
	SnapshotPost SnapshotName = "post"
)

// movingSnapshot reports whether name is one of the moving names.
func movingSnapshot(name SnapshotName) bool {
	return name == SnapshotLast || name == SnapshotPre || name == SnapshotPost
}

// SnapshotDef records that a snapshot name has been declared, and
// whether it was declared final. The rules layer appends defs for the
// fixed snapshot names it declares; the Rep itself appends
// (pre, final) when sealing pre.
type SnapshotDef struct {
	Name  SnapshotName
	Final bool
}

// Writer flushes one snapshot of a representation to its output path.
// Implemented by lib/writer; a Rep invokes it for every final
// snapshot.
type Writer interface {
	Write(r *Rep, snapshot SnapshotName) error
}

// TempFiler hands out fresh paths for binary filter outputs.
// Implemented by lib/store.Pool.
type TempFiler interface {
	NewFilename(prefix string) string
}

// Options carries the collaborators a Rep needs. Filters is required
// for Filter/Layout calls; everything else may be left zero (nil bus
// drops events, nil writer disables writing, nil logger logs to the
// default logger).
type Options struct {
	Filters filter.Resolver
	Bus     *event.Bus
	Tmp     TempFiler
	Writer  Writer
	Logger  *slog.Logger
}

// Rep is one representation of one item and carries all of its
// compilation state. All fields are private; the driver mutates a Rep
// only through its methods.
type Rep struct {
	item *item.Item
	name string

	// kind is the current content mode. Every entry in contents has
	// this kind — switching modes drops entries of the old kind.
	kind     content.Kind
	contents map[SnapshotName]content.Content

	// snapshotDefs is the ordered sealed-snapshot sequence. Entries
	// survive ForgetProgress.
	snapshotDefs []SnapshotDef

	// rawPaths/paths are the output file path and public path per
	// snapshot, supplied by the routing layer before writing. They
	// survive ForgetProgress.
	rawPaths map[SnapshotName]string
	paths    map[SnapshotName]string

	compiled bool
	assigns  map[string]any

	filters filter.Resolver
	bus     *event.Bus
	tmp     TempFiler
	writer  Writer
	logger  *slog.Logger
}

// New creates the representation named name of it, with content
// initialized from the item's raw content.
func New(it *item.Item, name string, opts Options) *Rep {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := &Rep{
		item:     it,
		name:     name,
		rawPaths: make(map[SnapshotName]string),
		paths:    make(map[SnapshotName]string),
		assigns:  map[string]any{},
		filters:  opts.Filters,
		bus:      opts.Bus,
		tmp:      opts.Tmp,
		writer:   opts.Writer,
		logger:   logger,
	}
	r.initContents()
	return r
}

// initContents resets the content store to the item's raw content and
// native mode. Shared by construction and ForgetProgress.
func (r *Rep) initContents() {
	r.contents = map[SnapshotName]content.Content{SnapshotLast: r.item.Content}
	r.kind = r.item.Content.Kind()
}

// Item returns the owning item.
func (r *Rep) Item() *item.Item { return r.item }

// Name returns the representation name (unique per item).
func (r *Rep) Name() string { return r.name }

// Kind returns the current content mode.
func (r *Rep) Kind() content.Kind { return r.kind }

// Compiled reports whether this representation has completed a full
// compilation pass in the current run.
func (r *Rep) Compiled() bool { return r.compiled }

// MarkCompiled records that the compilation pass finished. Called by
// the driver after the rule has run to completion.
func (r *Rep) MarkCompiled() { r.compiled = true }

// SetAssigns replaces the named values exposed to subsequent filter
// and layout invocations. The driver owns the full set; the Rep only
// reads it.
func (r *Rep) SetAssigns(assigns map[string]any) {
	if assigns == nil {
		assigns = map[string]any{}
	}
	r.assigns = assigns
}

// HasSnapshot reports whether content has been captured under name.
func (r *Rep) HasSnapshot(name SnapshotName) bool {
	_, ok := r.contents[name]
	return ok
}

// AddSnapshotDef appends an entry to the sealed-snapshot sequence.
// The rules layer calls this for the fixed snapshot names it
// declares, making them readable through CompiledContent.
func (r *Rep) AddSnapshotDef(name SnapshotName, final bool) {
	r.snapshotDefs = append(r.snapshotDefs, SnapshotDef{Name: name, Final: final})
}

// SetRawPath configures the output file path for a snapshot.
func (r *Rep) SetRawPath(snapshot SnapshotName, path string) {
	r.rawPaths[snapshot] = path
}

// SetPath configures the public-facing path for a snapshot.
func (r *Rep) SetPath(snapshot SnapshotName, path string) {
	r.paths[snapshot] = path
}

// ForgetProgress resets the content store to the item's raw content,
// exactly as at construction. The sealed-snapshot sequence, raw
// paths, and paths are kept — only compilation progress is discarded.
// The driver calls this after catching an UnmetDependencyError so the
// representation can be retried from scratch in a later pass.
func (r *Rep) ForgetProgress() {
	r.initContents()
}

// ExportContents returns a copy of the current snapshot contents,
// keyed by snapshot name. Used to feed the compiled-content cache.
func (r *Rep) ExportContents() map[SnapshotName]content.Content {
	return maps.Clone(r.contents)
}

// ImportContents replaces the content store with previously exported
// (or cached) contents. The map must include the last snapshot, which
// determines the representation's mode. Used to restore a
// representation whose item is unchanged since the cached run; the
// driver still decides when to mark it compiled.
func (r *Rep) ImportContents(contents map[SnapshotName]content.Content) error {
	last, ok := contents[SnapshotLast]
	if !ok {
		return fmt.Errorf("imported contents for %s/%s have no %q snapshot",
			r.item.Identifier, r.name, SnapshotLast)
	}
	r.contents = maps.Clone(contents)
	r.kind = last.Kind()
	return nil
}

// String returns "item-identifier/rep-name" for log lines.
func (r *Rep) String() string {
	return fmt.Sprintf("%s/%s", r.item.Identifier, r.name)
}

// setContent binds c under name. Moving names rebind freely: sealing
// pre and filtering again legitimately re-captures pre, and the
// content values themselves are immutable either way. Rebinding a
// sealed-final fixed name to different content would change what
// readers have already observed; that is a contract violation and
// panics.
func (r *Rep) setContent(name SnapshotName, c content.Content) {
	if !movingSnapshot(name) && r.sealedFinal(name) {
		if existing, ok := r.contents[name]; ok && !contentEqual(existing, c) {
			panic(fmt.Sprintf("rep: snapshot %q of %s is sealed and its content is frozen", name, r))
		}
	}
	r.contents[name] = c
}

// switchKind flips the content mode, dropping every entry of the old
// kind (the now-inactive store is cleared). Only the filter executor
// calls this, and only when a filter's declared input and output
// kinds differ.
func (r *Rep) switchKind(kind content.Kind) {
	if r.kind == kind {
		return
	}
	for name, c := range r.contents {
		if c.Kind() != kind {
			delete(r.contents, name)
		}
	}
	r.kind = kind
}

// sealedFinal reports whether the sealed-snapshot sequence contains a
// final entry for name.
func (r *Rep) sealedFinal(name SnapshotName) bool {
	for _, def := range r.snapshotDefs {
		if def.Name == name && def.Final {
			return true
		}
	}
	return false
}

func contentEqual(a, b content.Content) bool {
	switch a := a.(type) {
	case content.TextualContent:
		b, ok := b.(content.TextualContent)
		return ok && a.String() == b.String()
	case content.BinaryContent:
		b, ok := b.(content.BinaryContent)
		return ok && a.Filename() == b.Filename()
	default:
		return false
	}
}
