// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest computes BLAKE3 digests of compilation content. The
// writer uses digests to decide whether an output file already holds
// the candidate bytes, the compiled-content cache verifies entries
// against them on load, and the checksum store persists them for the
// outdatedness tracker.
package digest

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"

	"github.com/dv/nanoc/lib/content"
)

// Hash is a 32-byte BLAKE3 digest.
type Hash [32]byte

// domainKey is a 32-byte key for BLAKE3 keyed hashing. Domain
// separation keeps output-file digests, cache-entry digests, and raw
// checksums from colliding across contexts. The byte values are the
// ASCII domain name, zero-padded to 32 bytes, so the keys are
// readable in hex dumps.
type domainKey [32]byte

var (
	outputDomainKey = domainKey{
		'n', 'a', 'n', 'o', 'c', '.', 'o', 'u', 't', 'p', 'u', 't',
	}

	cacheDomainKey = domainKey{
		'n', 'a', 'n', 'o', 'c', '.', 'c', 'a', 'c', 'h', 'e',
	}

	checksumDomainKey = domainKey{
		'n', 'a', 'n', 'o', 'c', '.', 'c', 'h', 'e', 'c', 'k', 's', 'u', 'm',
	}
)

// Hex returns the lowercase hex encoding of the hash.
func (h Hash) Hex() string {
	return hex.EncodeToString(h[:])
}

// Short returns the first 12 hex characters, for log lines.
func (h Hash) Short() string {
	return h.Hex()[:12]
}

func keyedHash(key domainKey, r io.Reader) (Hash, error) {
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("digest: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	if _, err := io.Copy(hasher, r); err != nil {
		return Hash{}, err
	}
	var h Hash
	copy(h[:], hasher.Sum(nil))
	return h, nil
}

func keyedHashBytes(key domainKey, data []byte) Hash {
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("digest: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var h Hash
	copy(h[:], hasher.Sum(nil))
	return h
}

// Output computes the output-domain digest of data. The writer
// compares this against OutputFile to detect identical content
// without holding both byte slices.
func Output(data []byte) Hash {
	return keyedHashBytes(outputDomainKey, data)
}

// OutputFile computes the output-domain digest of the file at path,
// streaming so large binary outputs are not loaded into memory.
func OutputFile(path string) (Hash, error) {
	f, err := os.Open(path)
	if err != nil {
		return Hash{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h, err := keyedHash(outputDomainKey, f)
	if err != nil {
		return Hash{}, fmt.Errorf("hashing %s: %w", path, err)
	}
	return h, nil
}

// CacheEntry computes the cache-domain digest of data. Stored next to
// each compiled-content cache entry and verified on load.
func CacheEntry(data []byte) Hash {
	return keyedHashBytes(cacheDomainKey, data)
}

// Checksum computes the checksum-domain digest of a content value:
// the string bytes for textual content, the backing file's bytes for
// binary content. This is the per-object checksum the outdatedness
// tracker compares across runs.
func Checksum(c content.Content) (Hash, error) {
	switch c := c.(type) {
	case content.TextualContent:
		return keyedHashBytes(checksumDomainKey, []byte(c.String())), nil
	case content.BinaryContent:
		f, err := os.Open(c.Filename())
		if err != nil {
			return Hash{}, fmt.Errorf("opening %s: %w", c.Filename(), err)
		}
		defer f.Close()
		h, err := keyedHash(checksumDomainKey, f)
		if err != nil {
			return Hash{}, fmt.Errorf("hashing %s: %w", c.Filename(), err)
		}
		return h, nil
	default:
		return Hash{}, fmt.Errorf("unknown content variant %T", c)
	}
}
