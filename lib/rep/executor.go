// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

package rep

import (
	"fmt"
	"os"

	"github.com/dv/nanoc/lib/content"
	"github.com/dv/nanoc/lib/event"
	"github.com/dv/nanoc/lib/filter"
	"github.com/dv/nanoc/lib/item"
)

// Filter runs the named filter against the representation's current
// content and stores the result as the new last content, flipping the
// content mode when the filter's declared input and output kinds
// differ.
//
// After a textual result, a non-final snapshot is captured so other
// items can read intermediate output: under post if a post snapshot
// already exists (the representation has been laid out), otherwise
// under pre.
//
// The filtering started/ended event pair brackets the run on every
// exit path, including failures.
func (r *Rep) Filter(name string, args filter.Args) error {
	f, ok := r.filters.Resolve(name)
	if !ok {
		return &UnknownFilterError{Filter: name}
	}

	switch {
	case f.InputKind() == content.Binary && r.kind == content.Text:
		return &CannotUseBinaryFilterError{Filter: name, Item: r.item.Identifier, Rep: r.name}
	case f.InputKind() == content.Text && r.kind == content.Binary:
		return &CannotUseTextualFilterError{Filter: name, Item: r.item.Identifier, Rep: r.name}
	}

	if f.OutputKind() == content.Binary && r.tmp == nil {
		return fmt.Errorf("filter %q produces binary output but representation %s has no temp pool", name, r)
	}

	r.logger.Debug("filtering", "rep", r.String(), "filter", name)
	r.bus.Emit(event.FilteringStarted{Item: r.item.Identifier, Rep: r.name, Filter: name})
	defer r.bus.Emit(event.FilteringEnded{Item: r.item.Identifier, Rep: r.name, Filter: name})

	req := filter.Request{
		Content: r.contents[SnapshotLast],
		Args:    args,
		Assigns: r.assigns,
	}
	if f.OutputKind() == content.Binary {
		req.OutputPath = r.tmp.NewFilename("filter-" + name)
	}

	result, err := f.Run(req)
	if err != nil {
		return fmt.Errorf("running filter %q on %s: %w", name, r, err)
	}

	switch f.OutputKind() {
	case content.Binary:
		bin, ok := result.(content.BinaryContent)
		if !ok {
			// Filters that write to the hinted path and return
			// nothing are accepted; the hint is the output.
			bin = content.NewBinary(req.OutputPath)
		}
		r.switchKind(content.Binary)
		r.setContent(SnapshotLast, bin)
		if _, err := os.Stat(bin.Filename()); err != nil {
			return &MissingOutputFileError{Filter: name, Path: bin.Filename()}
		}
		return nil

	default:
		txt, ok := result.(content.TextualContent)
		if !ok {
			return fmt.Errorf("filter %q declared textual output but returned %T", name, result)
		}
		r.switchKind(content.Text)
		r.setContent(SnapshotLast, txt)

		autoName := SnapshotPre
		if _, ok := r.contents[SnapshotPost]; ok {
			autoName = SnapshotPost
		}
		return r.Snapshot(autoName, false)
	}
}

// Layout wraps the representation's content in the given layout by
// running filterName against the layout's raw content. Before the
// first layout, the current state is sealed as the final pre snapshot
// — the last point where pre-layout content can be read. The result
// becomes the new last content and is captured as the non-final post
// snapshot.
//
// Binary representations cannot be laid out.
func (r *Rep) Layout(layout *item.Layout, filterName string, args filter.Args) error {
	if r.kind == content.Binary {
		return &CannotLayoutBinaryItemError{Item: r.item.Identifier, Rep: r.name, Layout: layout.Identifier}
	}

	if _, ok := r.contents[SnapshotPost]; !ok {
		if err := r.Snapshot(SnapshotPre, true); err != nil {
			return err
		}
	}

	f, ok := r.filters.Resolve(filterName)
	if !ok {
		return &UnknownFilterError{Filter: filterName}
	}
	if f.InputKind() != content.Text {
		return &CannotUseBinaryFilterError{Filter: filterName, Item: r.item.Identifier, Rep: r.name}
	}

	assigns := make(map[string]any, len(r.assigns)+1)
	for k, v := range r.assigns {
		assigns[k] = v
	}
	assigns["layout"] = layout

	// The layout's identity was read: record the dependency edge.
	r.bus.Emit(event.VisitStarted{Target: layout.Identifier})
	r.bus.Emit(event.VisitEnded{Target: layout.Identifier})

	r.logger.Debug("processing layout", "rep", r.String(), "layout", layout.Identifier, "filter", filterName)
	r.bus.Emit(event.ProcessingStarted{Layout: layout.Identifier})
	defer r.bus.Emit(event.ProcessingEnded{Layout: layout.Identifier})
	r.bus.Emit(event.FilteringStarted{Item: r.item.Identifier, Rep: r.name, Filter: filterName})
	defer r.bus.Emit(event.FilteringEnded{Item: r.item.Identifier, Rep: r.name, Filter: filterName})

	result, err := f.Run(filter.Request{Content: layout.Content, Args: args, Assigns: assigns})
	if err != nil {
		return fmt.Errorf("running filter %q for layout %s on %s: %w", filterName, layout.Identifier, r, err)
	}
	txt, ok := result.(content.TextualContent)
	if !ok {
		return fmt.Errorf("filter %q declared textual output but returned %T", filterName, result)
	}

	r.setContent(SnapshotLast, txt)
	return r.Snapshot(SnapshotPost, false)
}
