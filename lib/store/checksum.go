// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"fmt"
	"os"
	"sync"

	"github.com/dv/nanoc/lib/codec"
	"github.com/dv/nanoc/lib/content"
	"github.com/dv/nanoc/lib/digest"
)

const checksumVersion = 1

// checksumFile is the persisted form of a ChecksumStore.
type checksumFile struct {
	Version   int               `cbor:"version"`
	Checksums map[string][]byte `cbor:"checksums"`
}

// ChecksumStore maps object identifiers (items, layouts) to the
// checksum of their raw content at the time of the last run. The
// outdatedness tracker compares stored checksums against current ones
// to decide which representations need recompiling; the store itself
// imposes no interpretation.
type ChecksumStore struct {
	path string

	mu        sync.RWMutex
	checksums map[string]digest.Hash
}

// NewChecksumStore returns an empty store backed by the file at path.
// Call Load to read a previous run's checksums.
func NewChecksumStore(path string) *ChecksumStore {
	return &ChecksumStore{path: path, checksums: make(map[string]digest.Hash)}
}

// Load reads the backing file. A missing file leaves the store empty
// and is not an error (first run); a version mismatch likewise.
func (s *ChecksumStore) Load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading checksum store: %w", err)
	}

	var file checksumFile
	if err := codec.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("decoding checksum store: %w", err)
	}
	if file.Version != checksumVersion {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.checksums = make(map[string]digest.Hash, len(file.Checksums))
	for id, sum := range file.Checksums {
		if len(sum) != len(digest.Hash{}) {
			return fmt.Errorf("checksum store: entry %q has %d-byte checksum", id, len(sum))
		}
		var h digest.Hash
		copy(h[:], sum)
		s.checksums[id] = h
	}
	return nil
}

// Calc computes and records the checksum of c under id, returning it.
func (s *ChecksumStore) Calc(id string, c content.Content) (digest.Hash, error) {
	h, err := digest.Checksum(c)
	if err != nil {
		return digest.Hash{}, fmt.Errorf("checksumming %q: %w", id, err)
	}
	s.Set(id, h)
	return h, nil
}

// Set records h under id.
func (s *ChecksumStore) Set(id string, h digest.Hash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checksums[id] = h
}

// Get returns the recorded checksum for id.
func (s *ChecksumStore) Get(id string) (digest.Hash, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.checksums[id]
	return h, ok
}

// Flush persists the store atomically.
func (s *ChecksumStore) Flush() error {
	s.mu.RLock()
	file := checksumFile{
		Version:   checksumVersion,
		Checksums: make(map[string][]byte, len(s.checksums)),
	}
	for id, h := range s.checksums {
		sum := make([]byte, len(h))
		copy(sum, h[:])
		file.Checksums[id] = sum
	}
	s.mu.RUnlock()

	data, err := codec.Marshal(file)
	if err != nil {
		return fmt.Errorf("encoding checksum store: %w", err)
	}
	return writeFileAtomic(s.path, data)
}
