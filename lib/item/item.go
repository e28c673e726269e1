// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

// Package item defines the source-side objects of a compilation: items
// (the content documents a site is built from) and layouts (the
// templates representations are wrapped in). Both are read-only inputs
// from the compiler's point of view — every derived value lives on the
// representation, never here.
package item

import (
	"github.com/dv/nanoc/lib/content"
)

// Identifier names an item or layout within the site, e.g.
// "/articles/intro.md" or "/default.html". Identifiers are unique per
// object class and stable across runs; the dependency tracker keys its
// edges on them.
type Identifier string

// String returns the identifier as a plain string.
func (i Identifier) String() string { return string(i) }

// Item is one logical content document. Its content and attributes are
// fixed when the site is loaded; compilation never writes back to an
// Item. Attributes typically come from frontmatter metadata and are
// exposed to filters through the assigns mechanism by the rule driver.
type Item struct {
	Identifier Identifier
	Content    content.Content
	Attributes map[string]any
}

// New returns an Item with the given identity and raw content.
// A nil attrs is normalized to an empty map.
func New(id Identifier, c content.Content, attrs map[string]any) *Item {
	if attrs == nil {
		attrs = map[string]any{}
	}
	return &Item{Identifier: id, Content: c, Attributes: attrs}
}

// Layout is a template that wraps textual representation content
// during the layout phase. Layout content is always textual.
type Layout struct {
	Identifier Identifier
	Content    content.TextualContent
	Attributes map[string]any
}

// NewLayout returns a Layout with the given identity and raw content.
// A nil attrs is normalized to an empty map.
func NewLayout(id Identifier, c content.TextualContent, attrs map[string]any) *Layout {
	if attrs == nil {
		attrs = map[string]any{}
	}
	return &Layout{Identifier: id, Content: c, Attributes: attrs}
}
