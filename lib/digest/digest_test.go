// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dv/nanoc/lib/content"
)

func TestOutputDeterministic(t *testing.T) {
	t.Parallel()

	a := Output([]byte("hello"))
	b := Output([]byte("hello"))
	if a != b {
		t.Fatal("same input produced different digests")
	}
	if a == Output([]byte("hello!")) {
		t.Fatal("different inputs produced the same digest")
	}
}

func TestDomainSeparation(t *testing.T) {
	t.Parallel()

	data := []byte("same bytes, different domains")
	if Output(data) == CacheEntry(data) {
		t.Fatal("output and cache domains collide")
	}
	checksum, err := Checksum(content.NewTextual(string(data)))
	if err != nil {
		t.Fatal(err)
	}
	if checksum == Output(data) {
		t.Fatal("checksum and output domains collide")
	}
}

func TestOutputFileMatchesOutput(t *testing.T) {
	t.Parallel()

	data := []byte("file and slice must agree")
	path := filepath.Join(t.TempDir(), "out.bin")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	fromFile, err := OutputFile(path)
	if err != nil {
		t.Fatalf("OutputFile: %v", err)
	}
	if fromFile != Output(data) {
		t.Fatal("streaming and in-memory digests differ")
	}
}

func TestChecksumBinary(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "blob")
	if err := os.WriteFile(path, []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}

	h1, err := Checksum(content.NewBinary(path))
	if err != nil {
		t.Fatal(err)
	}
	h2, err := Checksum(content.NewTextual(string([]byte{1, 2, 3})))
	if err != nil {
		t.Fatal(err)
	}
	// Same bytes, same domain: binary and textual checksums agree.
	if h1 != h2 {
		t.Fatal("binary and textual checksum of identical bytes differ")
	}

	if _, err := Checksum(content.NewBinary(filepath.Join(t.TempDir(), "gone"))); err == nil {
		t.Fatal("expected error for missing backing file")
	}
}

func TestHexAndShort(t *testing.T) {
	t.Parallel()

	h := Output([]byte("x"))
	if len(h.Hex()) != 64 {
		t.Fatalf("Hex length = %d, want 64", len(h.Hex()))
	}
	if len(h.Short()) != 12 {
		t.Fatalf("Short length = %d, want 12", len(h.Short()))
	}
}
