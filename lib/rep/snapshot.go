// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

package rep

import (
	"fmt"

	"github.com/dv/nanoc/lib/content"
	"github.com/dv/nanoc/lib/event"
)

// Snapshot captures the current last content under name. Textual
// representations copy the content value; binary representations
// alias the current temp path, which the temp pool never reuses, so
// the snapshot keeps observing the bytes as captured.
//
// Sealing pre (final) appends to the sealed-snapshot sequence, making
// pre readable by other representations before this one finishes
// compiling. Every final snapshot is immediately flushed through the
// writer; non-final snapshots are never written to disk.
func (r *Rep) Snapshot(name SnapshotName, final bool) error {
	if last, ok := r.contents[SnapshotLast]; ok {
		r.setContent(name, last)
	}

	if name == SnapshotPre && final {
		r.snapshotDefs = append(r.snapshotDefs, SnapshotDef{Name: SnapshotPre, Final: true})
	}

	if final && r.writer != nil {
		if err := r.writer.Write(r, name); err != nil {
			return fmt.Errorf("writing snapshot %q of %s: %w", name, r, err)
		}
	}
	return nil
}

// Write flushes the named snapshot through the configured writer. The
// driver calls this for snapshots routed to disk outside the
// final-snapshot path; with no writer configured it is a no-op.
func (r *Rep) Write(snapshot SnapshotName) error {
	if r.writer == nil {
		return nil
	}
	if err := r.writer.Write(r, snapshot); err != nil {
		return fmt.Errorf("writing snapshot %q of %s: %w", snapshot, r, err)
	}
	return nil
}

// CompiledContent returns the textual content of the given snapshot.
// An empty name selects the default: pre when pre content exists,
// last otherwise.
//
// Three failure modes matter to the driver:
//
//   - binary representations always fail with
//     CannotGetCompiledContentOfBinaryItemError;
//   - a fixed (non-moving) name with no final entry in the
//     sealed-snapshot sequence fails with NoSuchSnapshotError — the
//     snapshot will never appear, so retrying is pointless;
//   - content that exists but may still change (the pass has not
//     completed and the snapshot is still moving) fails with
//     UnmetDependencyError — the recoverable stall signal the driver
//     catches and retries after the dependency resolves.
//
// pre counts as still moving until a final pre entry is in the
// sealed-snapshot sequence. That check is deliberately against the
// sequence, not the content map: after ForgetProgress the pre content
// is gone but the seal remains, and the two must not be conflated.
//
// A successful read records a dependency visit against the owning
// item.
func (r *Rep) CompiledContent(snapshot SnapshotName) (string, error) {
	if r.kind == content.Binary {
		return "", &CannotGetCompiledContentOfBinaryItemError{Item: r.item.Identifier, Rep: r.name}
	}

	name := snapshot
	if name == "" {
		if _, ok := r.contents[SnapshotPre]; ok {
			name = SnapshotPre
		} else {
			name = SnapshotLast
		}
	}

	if !movingSnapshot(name) && !r.sealedFinal(name) {
		return "", &NoSuchSnapshotError{Item: r.item.Identifier, Rep: r.name, Snapshot: name}
	}

	c, exists := r.contents[name]
	if !exists || (!r.compiled && r.stillMoving(name)) {
		return "", &UnmetDependencyError{Item: r.item.Identifier, Rep: r.name, Snapshot: name}
	}

	txt, ok := c.(content.TextualContent)
	if !ok {
		return "", &CannotGetCompiledContentOfBinaryItemError{Item: r.item.Identifier, Rep: r.name}
	}

	r.bus.Emit(event.VisitStarted{Target: r.item.Identifier})
	r.bus.Emit(event.VisitEnded{Target: r.item.Identifier})
	return txt.String(), nil
}

// stillMoving reports whether the content under name may still change
// before the pass completes. post and last always move until then;
// pre moves until a final pre entry is sealed; fixed names never
// move.
func (r *Rep) stillMoving(name SnapshotName) bool {
	switch name {
	case SnapshotLast, SnapshotPost:
		return true
	case SnapshotPre:
		return !r.sealedFinal(SnapshotPre)
	default:
		return false
	}
}

// RawPath returns the output file path configured for the snapshot
// (last when empty). The lookup records a dependency visit against
// the owning item even when it yields nothing — reading "where does
// this representation go" is itself a dependency.
func (r *Rep) RawPath(snapshot SnapshotName) (string, bool) {
	r.bus.Emit(event.VisitStarted{Target: r.item.Identifier})
	r.bus.Emit(event.VisitEnded{Target: r.item.Identifier})
	if snapshot == "" {
		snapshot = SnapshotLast
	}
	p, ok := r.rawPaths[snapshot]
	return p, ok
}

// Path returns the public-facing path configured for the snapshot
// (last when empty), recording a dependency visit like RawPath.
func (r *Rep) Path(snapshot SnapshotName) (string, bool) {
	r.bus.Emit(event.VisitStarted{Target: r.item.Identifier})
	r.bus.Emit(event.VisitEnded{Target: r.item.Identifier})
	if snapshot == "" {
		snapshot = SnapshotLast
	}
	p, ok := r.paths[snapshot]
	return p, ok
}

// OutputPath returns the configured output file path for a snapshot
// without recording a dependency visit. The writer uses this; rule
// code reads paths through RawPath.
func (r *Rep) OutputPath(snapshot SnapshotName) (string, bool) {
	p, ok := r.rawPaths[snapshot]
	return p, ok
}

// OutputContent returns the content the writer must flush for a
// snapshot: the snapshot's own temp file for binary representations,
// the current last content for textual ones (last is authoritative
// for written bytes regardless of which snapshot triggered the
// write).
func (r *Rep) OutputContent(snapshot SnapshotName) (content.Content, error) {
	if r.kind == content.Binary {
		c, ok := r.contents[snapshot]
		if !ok {
			return nil, fmt.Errorf("representation %s has no binary content for snapshot %q", r, snapshot)
		}
		return c, nil
	}
	return r.contents[SnapshotLast], nil
}
