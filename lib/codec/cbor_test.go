// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
)

type sampleEntry struct {
	Snapshot string `cbor:"snapshot"`
	File     string `cbor:"file"`
	Size     int64  `cbor:"size"`
}

func TestRoundtrip(t *testing.T) {
	t.Parallel()

	original := sampleEntry{Snapshot: "last", File: "0-cache.zst", Size: 4096}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sampleEntry
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Fatalf("roundtrip mismatch: %+v != %+v", decoded, original)
	}
}

func TestDeterministicEncoding(t *testing.T) {
	t.Parallel()

	// Maps encode with sorted keys, so logically equal values produce
	// identical bytes regardless of insertion order.
	a, err := Marshal(map[string]int{"pre": 1, "last": 2, "post": 3})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Marshal(map[string]int{"post": 3, "last": 2, "pre": 1})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("equal maps encoded to different bytes")
	}
}

func TestDefaultMapType(t *testing.T) {
	t.Parallel()

	data, err := Marshal(map[string]any{"name": "default", "final": true})
	if err != nil {
		t.Fatal(err)
	}

	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	m, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded type = %T, want map[string]any", decoded)
	}
	if m["name"] != "default" {
		t.Fatalf("name = %v", m["name"])
	}
}
