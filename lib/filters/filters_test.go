// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/dv/nanoc/lib/content"
	"github.com/dv/nanoc/lib/filter"
)

func runText(t *testing.T, f filter.Filter, source string, args filter.Args) string {
	t.Helper()
	result, err := f.Run(filter.Request{Content: content.NewTextual(source), Args: args})
	if err != nil {
		t.Fatalf("%s: %v", f.Name(), err)
	}
	return result.(content.TextualContent).String()
}

func TestRegisterBuiltins(t *testing.T) {
	t.Parallel()

	reg := filter.NewRegistry()
	RegisterBuiltins(reg)

	for _, name := range []string{"markdown", "highlight", "frontmatter", "gzip"} {
		if _, ok := reg.Resolve(name); !ok {
			t.Errorf("builtin %q not registered", name)
		}
	}
}

func TestMarkdown(t *testing.T) {
	t.Parallel()

	out := runText(t, Markdown(), "# Title\n\nSome *emphasis* and a [link](/about/).\n", nil)

	for _, want := range []string{"<h1>", "<em>emphasis</em>", `<a href="/about/">link</a>`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMarkdownGFMTables(t *testing.T) {
	t.Parallel()

	out := runText(t, Markdown(), "| a | b |\n|---|---|\n| 1 | 2 |\n", nil)
	if !strings.Contains(out, "<table>") {
		t.Errorf("GFM table not rendered:\n%s", out)
	}
}

func TestHighlight(t *testing.T) {
	t.Parallel()

	out := runText(t, Highlight(), "package main\n", filter.Args{"language": "go"})
	if !strings.Contains(out, "<span") {
		t.Errorf("no highlighting spans in output:\n%s", out)
	}
	if !strings.Contains(out, "package") {
		t.Errorf("source text lost:\n%s", out)
	}
}

func TestHighlightBadArgType(t *testing.T) {
	t.Parallel()

	_, err := Highlight().Run(filter.Request{
		Content: content.NewTextual("x = 1"),
		Args:    filter.Args{"language": 42},
	})
	if err == nil {
		t.Fatal("expected error for non-string language argument")
	}
}

func TestFrontmatter(t *testing.T) {
	t.Parallel()

	document := "---\ntitle: About\ntags: [a, b]\n---\nBody text.\n"
	out := runText(t, Frontmatter(), document, nil)
	if out != "Body text.\n" {
		t.Fatalf("body = %q", out)
	}

	meta, body, err := SplitFrontmatter(document)
	if err != nil {
		t.Fatal(err)
	}
	if meta["title"] != "About" {
		t.Errorf("title = %v", meta["title"])
	}
	if body != "Body text.\n" {
		t.Errorf("body = %q", body)
	}
}

func TestFrontmatterAbsent(t *testing.T) {
	t.Parallel()

	out := runText(t, Frontmatter(), "No metadata here.\n", nil)
	if out != "No metadata here.\n" {
		t.Fatalf("content changed: %q", out)
	}
}

func TestFrontmatterMalformed(t *testing.T) {
	t.Parallel()

	_, err := Frontmatter().Run(filter.Request{
		Content: content.NewTextual("---\n: :\n  bad yaml: [\n---\nbody"),
	})
	if err == nil {
		t.Fatal("expected error for malformed frontmatter")
	}
}

func TestFrontmatterUnclosed(t *testing.T) {
	t.Parallel()

	_, err := Frontmatter().Run(filter.Request{
		Content: content.NewTextual("---\ntitle: x\nno closing delimiter"),
	})
	if err == nil {
		t.Fatal("expected error for unclosed frontmatter")
	}
}

func TestGzip(t *testing.T) {
	t.Parallel()

	source := strings.Repeat("body { margin: 0; }\n", 50)
	outputPath := filepath.Join(t.TempDir(), "styles.css.gz")

	result, err := Gzip().Run(filter.Request{
		Content:    content.NewTextual(source),
		OutputPath: outputPath,
	})
	if err != nil {
		t.Fatalf("gzip: %v", err)
	}

	bin, ok := result.(content.BinaryContent)
	if !ok {
		t.Fatalf("result is %T, want BinaryContent", result)
	}
	if bin.Filename() != outputPath {
		t.Fatalf("output at %q, want %q", bin.Filename(), outputPath)
	}

	f, err := os.Open(outputPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("output is not a gzip stream: %v", err)
	}
	var decompressed bytes.Buffer
	if _, err := io.Copy(&decompressed, zr); err != nil {
		t.Fatal(err)
	}
	if decompressed.String() != source {
		t.Fatal("gzip roundtrip mismatch")
	}
}
