// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"bytes"
	"fmt"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/dv/nanoc/lib/content"
	"github.com/dv/nanoc/lib/filter"
)

// Highlight returns the "highlight" filter: syntax highlighting of
// source code into HTML markup.
//
// Arguments:
//
//	language — lexer name (default: autodetect from content)
//	style    — chroma style name (default "github")
func Highlight() filter.Filter {
	return filter.Func{
		FilterName: "highlight",
		Input:      content.Text,
		Output:     content.Text,
		RunFunc: func(req filter.Request) (content.Content, error) {
			source := req.Content.(content.TextualContent)

			language, err := argString(req.Args, "language", "")
			if err != nil {
				return nil, err
			}
			style, err := argString(req.Args, "style", "github")
			if err != nil {
				return nil, err
			}

			var buf bytes.Buffer
			if err := quick.Highlight(&buf, source.String(), language, "html", style); err != nil {
				return nil, fmt.Errorf("highlighting (language %q): %w", language, err)
			}
			return content.NewTextual(buf.String()), nil
		},
	}
}
