// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

package rep

import (
	"errors"
	"fmt"

	"github.com/dv/nanoc/lib/item"
)

// UnknownFilterError means a filter name did not resolve. Fatal to
// the current compilation attempt.
type UnknownFilterError struct {
	Filter string
}

func (e *UnknownFilterError) Error() string {
	return fmt.Sprintf("unknown filter %q", e.Filter)
}

// CannotUseBinaryFilterError means a filter declaring binary input
// was applied to a textual representation. No mutation occurred.
type CannotUseBinaryFilterError struct {
	Filter string
	Item   item.Identifier
	Rep    string
}

func (e *CannotUseBinaryFilterError) Error() string {
	return fmt.Sprintf("filter %q expects binary input but representation %s/%s is textual",
		e.Filter, e.Item, e.Rep)
}

// CannotUseTextualFilterError means a filter declaring textual input
// was applied to a binary representation. No mutation occurred.
type CannotUseTextualFilterError struct {
	Filter string
	Item   item.Identifier
	Rep    string
}

func (e *CannotUseTextualFilterError) Error() string {
	return fmt.Sprintf("filter %q expects textual input but representation %s/%s is binary",
		e.Filter, e.Item, e.Rep)
}

// CannotLayoutBinaryItemError means a layout was applied to a binary
// representation. Layouts only wrap text.
type CannotLayoutBinaryItemError struct {
	Item   item.Identifier
	Rep    string
	Layout item.Identifier
}

func (e *CannotLayoutBinaryItemError) Error() string {
	return fmt.Sprintf("cannot apply layout %s to binary representation %s/%s",
		e.Layout, e.Item, e.Rep)
}

// CannotGetCompiledContentOfBinaryItemError means compiled content
// was requested from a representation currently in binary mode.
type CannotGetCompiledContentOfBinaryItemError struct {
	Item item.Identifier
	Rep  string
}

func (e *CannotGetCompiledContentOfBinaryItemError) Error() string {
	return fmt.Sprintf("cannot get compiled content of binary representation %s/%s",
		e.Item, e.Rep)
}

// NoSuchSnapshotError means a fixed snapshot name was requested that
// was never sealed. Unlike UnmetDependencyError this is fatal: the
// snapshot will not appear later.
type NoSuchSnapshotError struct {
	Item     item.Identifier
	Rep      string
	Snapshot SnapshotName
}

func (e *NoSuchSnapshotError) Error() string {
	return fmt.Sprintf("representation %s/%s has no snapshot %q", e.Item, e.Rep, e.Snapshot)
}

// UnmetDependencyError means the requested content is not available
// yet because this representation (or the one being read) has not
// progressed far enough. It is the one recoverable error kind: the
// driver catches it, calls ForgetProgress on the stalled
// representation, and reschedules it after the dependency resolves.
// Use IsUnmetDependency (or errors.As) to distinguish it from fatal
// conditions.
type UnmetDependencyError struct {
	Item     item.Identifier
	Rep      string
	Snapshot SnapshotName
}

func (e *UnmetDependencyError) Error() string {
	return fmt.Sprintf("content of snapshot %q of representation %s/%s is not available yet",
		e.Snapshot, e.Item, e.Rep)
}

// IsUnmetDependency reports whether err is (or wraps) an
// UnmetDependencyError.
func IsUnmetDependency(err error) bool {
	var unmet *UnmetDependencyError
	return errors.As(err, &unmet)
}

// MissingOutputFileError means a binary-output filter completed
// without creating its declared output file. Fatal; names the filter
// so the defect is attributable.
type MissingOutputFileError struct {
	Filter string
	Path   string
}

func (e *MissingOutputFileError) Error() string {
	return fmt.Sprintf("filter %q declared binary output but did not create %s", e.Filter, e.Path)
}
