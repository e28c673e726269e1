// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/dv/nanoc/lib/content"
	"github.com/dv/nanoc/lib/filter"
)

// Gzip returns the "gzip" filter: compresses textual content into a
// gzip stream, flipping the representation to binary mode. Used for
// precompressed assets (styles.css.gz next to styles.css) that web
// servers serve directly with Content-Encoding: gzip.
func Gzip() filter.Filter {
	return filter.Func{
		FilterName: "gzip",
		Input:      content.Text,
		Output:     content.Binary,
		RunFunc: func(req filter.Request) (content.Content, error) {
			source := req.Content.(content.TextualContent)

			out, err := os.Create(req.OutputPath)
			if err != nil {
				return nil, fmt.Errorf("creating gzip output: %w", err)
			}

			zw, err := gzip.NewWriterLevel(out, gzip.BestCompression)
			if err != nil {
				out.Close()
				return nil, fmt.Errorf("initializing gzip: %w", err)
			}
			if _, err := zw.Write([]byte(source.String())); err != nil {
				zw.Close()
				out.Close()
				return nil, fmt.Errorf("compressing: %w", err)
			}
			if err := zw.Close(); err != nil {
				out.Close()
				return nil, fmt.Errorf("finishing gzip stream: %w", err)
			}
			if err := out.Close(); err != nil {
				return nil, fmt.Errorf("closing gzip output: %w", err)
			}

			return content.NewBinary(req.OutputPath), nil
		},
	}
}
