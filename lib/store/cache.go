// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dv/nanoc/lib/codec"
	"github.com/dv/nanoc/lib/content"
	"github.com/dv/nanoc/lib/digest"
)

// Directory and file names within the cache root.
const (
	cacheDataDir     = "data"
	cacheRestoredDir = "restored"
	cacheIndexFile   = "index.cbor"

	cacheVersion = 1
)

// Key identifies one representation's cache entries.
type Key struct {
	Item string `cbor:"item"`
	Rep  string `cbor:"rep"`
}

// cacheRecord is one snapshot's entry in the index. Digest is the
// cache-domain BLAKE3 digest of the uncompressed bytes, verified on
// load so a corrupt data file surfaces as an error instead of wrong
// output.
type cacheRecord struct {
	Item     string `cbor:"item"`
	Rep      string `cbor:"rep"`
	Snapshot string `cbor:"snapshot"`
	Kind     uint8  `cbor:"kind"`
	File     string `cbor:"file"`
	Tag      uint8  `cbor:"tag"`
	Size     int64  `cbor:"size"`
	Digest   []byte `cbor:"digest"`
}

// cacheIndex is the persisted index file.
type cacheIndex struct {
	Version int           `cbor:"version"`
	NextSeq int           `cbor:"next_seq"`
	Records []cacheRecord `cbor:"records"`
}

// Cache persists compiled snapshot content across runs, so items the
// outdatedness tracker marks unchanged can restore their snapshots
// instead of recompiling. Textual entries compress with zstd, binary
// entries with lz4, either falling back to uncompressed storage when
// compression does not pay.
//
// The index is held in memory and persisted by Flush; data files are
// written immediately by Store. Stale data files from replaced
// entries are left behind — the cache directory is disposable and a
// full rebuild starts it fresh.
type Cache struct {
	root string

	mu      sync.Mutex
	records map[Key][]cacheRecord
	nextSeq int
}

// NewCache opens the cache at root, creating the directory structure
// if needed and loading the index if one exists. A missing or
// version-mismatched index starts the cache empty.
func NewCache(root string) (*Cache, error) {
	for _, dir := range []string{
		root,
		filepath.Join(root, cacheDataDir),
		filepath.Join(root, cacheRestoredDir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory %s: %w", dir, err)
		}
	}

	c := &Cache{root: root, records: make(map[Key][]cacheRecord)}

	data, err := os.ReadFile(filepath.Join(root, cacheIndexFile))
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache index: %w", err)
	}

	var index cacheIndex
	if err := codec.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("decoding cache index: %w", err)
	}
	if index.Version != cacheVersion {
		// Incompatible cache from an older version: start empty.
		return c, nil
	}

	c.nextSeq = index.NextSeq
	for _, record := range index.Records {
		key := Key{Item: record.Item, Rep: record.Rep}
		c.records[key] = append(c.records[key], record)
	}
	return c, nil
}

// Store replaces the cached contents for key with the given snapshot
// map. Data files are written immediately; call Flush to persist the
// index.
func (c *Cache) Store(key Key, contents map[string]content.Content) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := make([]cacheRecord, 0, len(contents))
	for snapshot, snapshotContent := range contents {
		raw, err := content.Bytes(snapshotContent)
		if err != nil {
			return fmt.Errorf("reading snapshot %q of %s/%s: %w", snapshot, key.Item, key.Rep, err)
		}

		entryDigest := digest.CacheEntry(raw)
		compressed, tag, err := compress(raw, selectCompression(snapshotContent.Kind()))
		if err != nil {
			return fmt.Errorf("compressing snapshot %q of %s/%s: %w", snapshot, key.Item, key.Rep, err)
		}

		name := fmt.Sprintf("%06d-%s.dat", c.nextSeq, entryDigest.Short())
		c.nextSeq++

		path := filepath.Join(c.root, cacheDataDir, name)
		if err := os.WriteFile(path, compressed, 0o644); err != nil {
			return fmt.Errorf("writing cache entry %s: %w", name, err)
		}

		records = append(records, cacheRecord{
			Item:     key.Item,
			Rep:      key.Rep,
			Snapshot: snapshot,
			Kind:     uint8(snapshotContent.Kind()),
			File:     name,
			Tag:      uint8(tag),
			Size:     int64(len(raw)),
			Digest:   entryDigest[:],
		})
	}

	c.records[key] = records
	return nil
}

// Load returns the cached contents for key. The second return is
// false when the key has no entries. Binary entries are restored to
// files under the cache's restored directory; the returned
// BinaryContent values point there.
//
// A data file whose bytes no longer match the recorded digest is
// corruption and returns an error — the caller should discard the
// cache and recompile.
func (c *Cache) Load(key Key) (map[string]content.Content, bool, error) {
	c.mu.Lock()
	records, ok := c.records[key]
	c.mu.Unlock()
	if !ok {
		return nil, false, nil
	}

	contents := make(map[string]content.Content, len(records))
	for _, record := range records {
		path := filepath.Join(c.root, cacheDataDir, record.File)
		compressed, err := os.ReadFile(path)
		if err != nil {
			return nil, false, fmt.Errorf("reading cache entry %s: %w", record.File, err)
		}

		raw, err := decompress(compressed, CompressionTag(record.Tag), int(record.Size))
		if err != nil {
			return nil, false, fmt.Errorf("cache entry %s: %w", record.File, err)
		}

		entryDigest := digest.CacheEntry(raw)
		if !bytes.Equal(entryDigest[:], record.Digest) {
			return nil, false, fmt.Errorf("cache entry %s is corrupt: digest mismatch", record.File)
		}

		switch content.Kind(record.Kind) {
		case content.Text:
			contents[record.Snapshot] = content.NewTextual(string(raw))
		case content.Binary:
			restored := filepath.Join(c.root, cacheRestoredDir, record.File)
			if err := os.WriteFile(restored, raw, 0o644); err != nil {
				return nil, false, fmt.Errorf("restoring cache entry %s: %w", record.File, err)
			}
			contents[record.Snapshot] = content.NewBinary(restored)
		default:
			return nil, false, fmt.Errorf("cache entry %s has unknown kind %d", record.File, record.Kind)
		}
	}
	return contents, true, nil
}

// Flush persists the index atomically (write to a temp file in the
// cache root, then rename over the old index).
func (c *Cache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	index := cacheIndex{Version: cacheVersion, NextSeq: c.nextSeq}
	for _, records := range c.records {
		index.Records = append(index.Records, records...)
	}

	data, err := codec.Marshal(index)
	if err != nil {
		return fmt.Errorf("encoding cache index: %w", err)
	}
	return writeFileAtomic(filepath.Join(c.root, cacheIndexFile), data)
}

// writeFileAtomic writes data to path via a temp file and rename, so
// a crash mid-write never leaves a truncated file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming %s to %s: %w", tmpName, path, err)
	}
	return nil
}
