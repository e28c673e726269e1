// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dv/nanoc/lib/content"
	"github.com/dv/nanoc/lib/filter"
)

const frontmatterDelimiter = "---"

// Frontmatter returns the "frontmatter" filter: strips a leading YAML
// frontmatter block (between "---" delimiter lines) from the content,
// leaving only the body. The block is parsed to catch malformed
// metadata early — a file whose frontmatter does not parse fails the
// compilation instead of leaking "---" lines into the output.
//
// Content without a frontmatter block passes through unchanged.
func Frontmatter() filter.Filter {
	return filter.Func{
		FilterName: "frontmatter",
		Input:      content.Text,
		Output:     content.Text,
		RunFunc: func(req filter.Request) (content.Content, error) {
			source := req.Content.(content.TextualContent)
			body, err := stripFrontmatter(source.String())
			if err != nil {
				return nil, err
			}
			return content.NewTextual(body), nil
		},
	}
}

// SplitFrontmatter separates a document into its frontmatter metadata
// and body. Documents without a frontmatter block return an empty map
// and the unchanged input. Exported for site loaders that turn
// frontmatter into item attributes.
func SplitFrontmatter(document string) (map[string]any, string, error) {
	rest, ok := strings.CutPrefix(document, frontmatterDelimiter+"\n")
	if !ok {
		return map[string]any{}, document, nil
	}

	block, body, ok := strings.Cut(rest, "\n"+frontmatterDelimiter+"\n")
	if !ok {
		// An opening delimiter with no closing one: the closing
		// delimiter may also be the last line of the document.
		trimmed, closed := strings.CutSuffix(rest, "\n"+frontmatterDelimiter)
		if !closed {
			return nil, "", fmt.Errorf("frontmatter block is not closed")
		}
		block, body = trimmed, ""
	}

	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		return nil, "", fmt.Errorf("parsing frontmatter: %w", err)
	}
	return meta, body, nil
}

func stripFrontmatter(document string) (string, error) {
	_, body, err := SplitFrontmatter(document)
	return body, err
}
