// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

package item

import (
	"testing"

	"github.com/dv/nanoc/lib/content"
)

func TestNewNormalizesAttributes(t *testing.T) {
	t.Parallel()

	it := New("/about.md", content.NewTextual("body"), nil)
	if it.Attributes == nil {
		t.Fatal("nil attrs not normalized")
	}
	it.Attributes["title"] = "About"

	layout := NewLayout("/default.html", content.NewTextual("L"), nil)
	if layout.Attributes == nil {
		t.Fatal("nil layout attrs not normalized")
	}
}

func TestIdentifierString(t *testing.T) {
	t.Parallel()

	if got := Identifier("/articles/intro.md").String(); got != "/articles/intro.md" {
		t.Fatalf("String = %q", got)
	}
}
