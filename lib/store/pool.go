// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

// Package store owns the on-disk state of a compilation run: the temp
// file pool that binary filter outputs are written into, the
// compiled-content cache that carries snapshot content across runs,
// and the checksum store the outdatedness tracker reads. Output files
// themselves are written by lib/writer; everything here is
// intermediate or derived state that can be deleted and rebuilt.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Pool hands out unique filenames under a temp root. Binary-output
// filters receive their output path from the pool, so intermediate
// binary content never lands outside the temp directory and a single
// RemoveAll cleans up after the run.
//
// Filenames are never reused within one pool, so a snapshot that
// aliases an earlier temp path keeps observing the bytes written at
// capture time even after later filter runs.
type Pool struct {
	root string

	mu       sync.Mutex
	counters map[string]int
}

// NewPool creates a pool rooted at dir, creating it if needed.
func NewPool(dir string) (*Pool, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating temp pool directory: %w", err)
	}
	return &Pool{root: dir, counters: make(map[string]int)}, nil
}

// Root returns the pool's root directory.
func (p *Pool) Root() string { return p.root }

// NewFilename returns a fresh path under the pool root using prefix
// as a namespace (one counter per prefix). The file is not created.
func (p *Pool) NewFilename(prefix string) string {
	p.mu.Lock()
	n := p.counters[prefix]
	p.counters[prefix]++
	p.mu.Unlock()
	return filepath.Join(p.root, fmt.Sprintf("%s-%d", prefix, n))
}

// Cleanup removes the pool root and everything in it.
func (p *Pool) Cleanup() error {
	if err := os.RemoveAll(p.root); err != nil {
		return fmt.Errorf("removing temp pool: %w", err)
	}
	return nil
}
