// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPoolUniqueFilenames(t *testing.T) {
	t.Parallel()

	pool, err := NewPool(filepath.Join(t.TempDir(), "tmp"))
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		name := pool.NewFilename("filter-gzip")
		if seen[name] {
			t.Fatalf("duplicate filename %q", name)
		}
		seen[name] = true
	}

	// Different prefixes have independent counters.
	a := pool.NewFilename("binary")
	b := pool.NewFilename("filter-gzip")
	if a == b {
		t.Fatalf("cross-prefix collision: %q", a)
	}
}

func TestPoolCleanup(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "tmp")
	pool, err := NewPool(root)
	if err != nil {
		t.Fatal(err)
	}

	path := pool.NewFilename("out")
	if err := os.WriteFile(path, []byte("intermediate"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := pool.Cleanup(); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Fatalf("pool root still present after Cleanup: %v", err)
	}
}
