// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dv/nanoc/lib/content"
)

func newTestCache(t *testing.T) (*Cache, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "cache")
	cache, err := NewCache(root)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	return cache, root
}

func TestCacheRoundtripTextual(t *testing.T) {
	t.Parallel()

	cache, _ := newTestCache(t)
	key := Key{Item: "/about.md", Rep: "default"}

	contents := map[string]content.Content{
		"last": content.NewTextual(strings.Repeat("<p>hello</p>", 100)),
		"pre":  content.NewTextual("pre-layout body"),
	}
	if err := cache.Store(key, contents); err != nil {
		t.Fatalf("Store: %v", err)
	}

	loaded, ok, err := cache.Load(key)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("Load reported no entries for a stored key")
	}
	for name, want := range contents {
		got, ok := loaded[name].(content.TextualContent)
		if !ok {
			t.Fatalf("snapshot %q loaded as %T", name, loaded[name])
		}
		if got.String() != want.(content.TextualContent).String() {
			t.Fatalf("snapshot %q content mismatch", name)
		}
	}
}

func TestCacheRoundtripBinary(t *testing.T) {
	t.Parallel()

	cache, _ := newTestCache(t)

	blob := filepath.Join(t.TempDir(), "asset.bin")
	payload := []byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01}
	if err := os.WriteFile(blob, payload, 0o644); err != nil {
		t.Fatal(err)
	}

	key := Key{Item: "/logo.png", Rep: "default"}
	err := cache.Store(key, map[string]content.Content{
		"last": content.NewBinary(blob),
	})
	if err != nil {
		t.Fatalf("Store: %v", err)
	}

	// Delete the original: restored content must not depend on it.
	if err := os.Remove(blob); err != nil {
		t.Fatal(err)
	}

	loaded, ok, err := cache.Load(key)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("no entries")
	}
	restored, ok := loaded["last"].(content.BinaryContent)
	if !ok {
		t.Fatalf("loaded as %T, want BinaryContent", loaded["last"])
	}
	data, err := os.ReadFile(restored.Filename())
	if err != nil {
		t.Fatalf("reading restored file: %v", err)
	}
	if string(data) != string(payload) {
		t.Fatalf("restored bytes = %v, want %v", data, payload)
	}
}

func TestCacheMissingKey(t *testing.T) {
	t.Parallel()

	cache, _ := newTestCache(t)
	_, ok, err := cache.Load(Key{Item: "/nope.md", Rep: "default"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Fatal("Load reported entries for an unknown key")
	}
}

func TestCachePersistAcrossOpens(t *testing.T) {
	t.Parallel()

	cache, root := newTestCache(t)
	key := Key{Item: "/a.md", Rep: "default"}
	if err := cache.Store(key, map[string]content.Content{
		"last": content.NewTextual("persisted"),
	}); err != nil {
		t.Fatal(err)
	}
	if err := cache.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	reopened, err := NewCache(root)
	if err != nil {
		t.Fatalf("reopening cache: %v", err)
	}
	loaded, ok, err := reopened.Load(key)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("entries lost across reopen")
	}
	if got := loaded["last"].(content.TextualContent).String(); got != "persisted" {
		t.Fatalf("content = %q", got)
	}
}

func TestCacheDetectsCorruption(t *testing.T) {
	t.Parallel()

	cache, root := newTestCache(t)
	key := Key{Item: "/a.md", Rep: "default"}
	if err := cache.Store(key, map[string]content.Content{
		// Incompressible-looking short string stays uncompressed, so
		// flipping bytes on disk corrupts the payload directly.
		"last": content.NewTextual("x"),
	}); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(filepath.Join(root, cacheDataDir))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 data file, found %d", len(entries))
	}
	path := filepath.Join(root, cacheDataDir, entries[0].Name())
	if err := os.WriteFile(path, []byte("y"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := cache.Load(key); err == nil {
		t.Fatal("Load did not detect corrupted entry")
	}
}

func TestCacheStoreReplacesEntries(t *testing.T) {
	t.Parallel()

	cache, _ := newTestCache(t)
	key := Key{Item: "/a.md", Rep: "default"}

	if err := cache.Store(key, map[string]content.Content{
		"last": content.NewTextual("first"),
		"pre":  content.NewTextual("first-pre"),
	}); err != nil {
		t.Fatal(err)
	}
	if err := cache.Store(key, map[string]content.Content{
		"last": content.NewTextual("second"),
	}); err != nil {
		t.Fatal(err)
	}

	loaded, ok, err := cache.Load(key)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if len(loaded) != 1 {
		t.Fatalf("loaded %d snapshots, want 1 after replacement", len(loaded))
	}
	if got := loaded["last"].(content.TextualContent).String(); got != "second" {
		t.Fatalf("content = %q, want %q", got, "second")
	}
}
