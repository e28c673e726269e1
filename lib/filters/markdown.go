// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/dv/nanoc/lib/content"
	"github.com/dv/nanoc/lib/filter"
)

// markdownInstance is initialized once and reused. The configuration
// never changes and goldmark.Markdown is safe to share — parsing
// creates per-call state internally.
var (
	markdownInstance goldmark.Markdown
	markdownOnce     sync.Once
)

func getMarkdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.DefinitionList,
			),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
			),
		)
	})
	return markdownInstance
}

// Markdown returns the "markdown" filter: GitHub-flavored markdown to
// HTML. Raw HTML in the source passes through unchanged (site content
// is trusted input — it is the site author's own).
func Markdown() filter.Filter {
	return filter.Func{
		FilterName: "markdown",
		Input:      content.Text,
		Output:     content.Text,
		RunFunc: func(req filter.Request) (content.Content, error) {
			source := req.Content.(content.TextualContent)
			var buf bytes.Buffer
			if err := getMarkdown().Convert([]byte(source.String()), &buf); err != nil {
				return nil, fmt.Errorf("rendering markdown: %w", err)
			}
			return content.NewTextual(buf.String()), nil
		},
	}
}
