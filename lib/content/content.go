// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

// Package content models the content of items, layouts, and
// representation snapshots. Content is a two-variant sum: textual
// content holds an immutable string, binary content points at a file
// on disk. Compilation flips between the two when a filter's declared
// input and output kinds differ, so every consumer switches on the
// variant rather than carrying a separate mode flag next to the data.
package content

import (
	"fmt"
	"os"
)

// Kind distinguishes textual from binary content. Filters declare an
// input and an output kind; a representation's current kind is the
// kind of its most recent content.
type Kind uint8

const (
	// Text is content held in memory as a string.
	Text Kind = iota

	// Binary is content held in a file on disk, referenced by path.
	Binary
)

// String returns the kind name used in error messages and filter
// descriptors.
func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Binary:
		return "binary"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Content is one immutable content value. The two implementations are
// TextualContent and BinaryContent; there are no others.
type Content interface {
	// Kind reports the content variant.
	Kind() Kind

	isContent()
}

// TextualContent is in-memory textual content. The string is fixed at
// construction — replacing a representation's content produces a new
// value, never mutates an existing one. This is what makes snapshot
// copies safe: a snapshot holds the same value the representation held
// at capture time, and nothing can change it afterwards.
type TextualContent struct {
	s string
}

// NewTextual returns textual content holding s.
func NewTextual(s string) TextualContent {
	return TextualContent{s: s}
}

// String returns the content string.
func (c TextualContent) String() string { return c.s }

// Kind returns Text.
func (TextualContent) Kind() Kind { return Text }

func (TextualContent) isContent() {}

// BinaryContent is content stored in a file. The value records only
// the path; the file itself belongs to whoever produced it (the item's
// source file, or a temp file owned by the temp pool).
type BinaryContent struct {
	filename string
}

// NewBinary returns binary content referencing the file at filename.
func NewBinary(filename string) BinaryContent {
	return BinaryContent{filename: filename}
}

// Filename returns the path of the backing file.
func (c BinaryContent) Filename() string { return c.filename }

// Kind returns Binary.
func (BinaryContent) Kind() Kind { return Binary }

func (BinaryContent) isContent() {}

// Bytes returns the content's bytes: the string bytes for textual
// content, the backing file's contents for binary content.
func Bytes(c Content) ([]byte, error) {
	switch c := c.(type) {
	case TextualContent:
		return []byte(c.String()), nil
	case BinaryContent:
		data, err := os.ReadFile(c.Filename())
		if err != nil {
			return nil, fmt.Errorf("reading binary content: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown content variant %T", c)
	}
}
