// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"bytes"
	"crypto/rand"
	"strings"
	"testing"

	"github.com/dv/nanoc/lib/content"
)

func TestCompressRoundtrip(t *testing.T) {
	t.Parallel()

	// Repetitive text compresses under both algorithms.
	data := []byte(strings.Repeat("<p>compilation core</p>\n", 200))

	for _, tag := range []CompressionTag{CompressionLZ4, CompressionZstd} {
		compressed, usedTag, err := compress(data, tag)
		if err != nil {
			t.Fatalf("%v compress: %v", tag, err)
		}
		if usedTag != tag {
			t.Fatalf("%v fell back to %v on compressible data", tag, usedTag)
		}
		if len(compressed) >= len(data) {
			t.Fatalf("%v did not shrink data: %d >= %d", tag, len(compressed), len(data))
		}

		decompressed, err := decompress(compressed, usedTag, len(data))
		if err != nil {
			t.Fatalf("%v decompress: %v", tag, err)
		}
		if !bytes.Equal(decompressed, data) {
			t.Fatalf("%v roundtrip mismatch", tag)
		}
	}
}

func TestCompressIncompressibleFallsBack(t *testing.T) {
	t.Parallel()

	data := make([]byte, 4096)
	if _, err := rand.Read(data); err != nil {
		t.Fatal(err)
	}

	compressed, tag, err := compress(data, CompressionZstd)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	if tag != CompressionNone {
		t.Fatalf("tag = %v, want none for random data", tag)
	}
	if !bytes.Equal(compressed, data) {
		t.Fatal("CompressionNone must return input unchanged")
	}
}

func TestDecompressSizeMismatch(t *testing.T) {
	t.Parallel()

	if _, err := decompress([]byte("abc"), CompressionNone, 5); err == nil {
		t.Fatal("expected size mismatch error")
	}
}

func TestSelectCompression(t *testing.T) {
	t.Parallel()

	if got := selectCompression(content.Text); got != CompressionZstd {
		t.Errorf("text selects %v, want zstd", got)
	}
	if got := selectCompression(content.Binary); got != CompressionLZ4 {
		t.Errorf("binary selects %v, want lz4", got)
	}
}

func TestCompressionTagString(t *testing.T) {
	t.Parallel()

	cases := map[CompressionTag]string{
		CompressionNone: "none",
		CompressionLZ4:  "lz4",
		CompressionZstd: "zstd",
		CompressionTag(9): "unknown(9)",
	}
	for tag, want := range cases {
		if got := tag.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", tag, got, want)
		}
	}
}
