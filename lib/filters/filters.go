// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

// Package filters provides the built-in filters: markdown rendering,
// syntax highlighting, frontmatter stripping, and gzip precompression.
// Each is an ordinary filter.Filter; embedding applications register
// them alongside their own filters or skip them entirely.
package filters

import (
	"fmt"

	"github.com/dv/nanoc/lib/filter"
)

// RegisterBuiltins registers every built-in filter into reg.
func RegisterBuiltins(reg *filter.Registry) {
	reg.Register(Markdown())
	reg.Register(Highlight())
	reg.Register(Frontmatter())
	reg.Register(Gzip())
}

// argString extracts a string argument, falling back to def when the
// key is absent. A present key with a non-string value is an error —
// silently ignoring a mistyped argument hides rule bugs.
func argString(args filter.Args, key, def string) (string, error) {
	v, ok := args[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string, got %T", key, v)
	}
	return s, nil
}
