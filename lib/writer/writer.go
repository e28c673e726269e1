// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

// Package writer flushes representation snapshots to their output
// paths. Its one load-bearing property is idempotence: writing the
// same content twice leaves the output file untouched, modification
// time included, so incremental-rebuild tooling can distinguish
// "nothing changed" from "content changed" purely from the
// filesystem.
package writer

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dv/nanoc/lib/content"
	"github.com/dv/nanoc/lib/digest"
	"github.com/dv/nanoc/lib/event"
	"github.com/dv/nanoc/lib/rep"
)

// Writer writes snapshots to disk. It satisfies rep.Writer, so a Rep
// configured with one flushes every final snapshot automatically.
// Safe for concurrent use across representations as long as no two
// write to the same output path.
type Writer struct {
	bus    *event.Bus
	logger *slog.Logger
}

// New returns a Writer emitting RepWritten events on bus. A nil bus
// drops events; a nil logger uses the default logger.
func New(bus *event.Bus, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{bus: bus, logger: logger}
}

// Write flushes the given snapshot of r to its configured output
// path. A snapshot with no configured path is a no-op, not an error —
// not every representation is routed to disk.
//
// When the output file already exists with exactly the candidate
// bytes, nothing is touched (the no-op preserves the file's mtime).
// Otherwise parent directories are created as needed and the file is
// replaced atomically (temp file + rename in the target directory).
// Binary representations copy the snapshot's temp file; textual
// representations write the current last content.
func (w *Writer) Write(r *rep.Rep, snapshot rep.SnapshotName) error {
	outputPath, ok := r.OutputPath(snapshot)
	if !ok {
		return nil
	}

	snapshotContent, err := r.OutputContent(snapshot)
	if err != nil {
		return err
	}

	_, statErr := os.Stat(outputPath)
	isCreated := os.IsNotExist(statErr)
	if statErr != nil && !isCreated {
		return fmt.Errorf("stat %s: %w", outputPath, statErr)
	}

	isModified := true
	if !isCreated {
		same, err := w.identical(outputPath, snapshotContent)
		if err != nil {
			return err
		}
		isModified = !same
	}

	if isModified {
		if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
			return fmt.Errorf("creating output directory for %s: %w", outputPath, err)
		}
		if err := replaceFile(outputPath, snapshotContent); err != nil {
			return err
		}
	}

	w.logger.Debug("write decision",
		"rep", r.String(), "path", outputPath,
		"created", isCreated, "modified", isModified)
	w.bus.Emit(event.RepWritten{
		Item:     r.Item().Identifier,
		Rep:      r.Name(),
		Path:     outputPath,
		Created:  isCreated,
		Modified: isModified,
	})
	return nil
}

// identical compares the existing file's bytes against the candidate
// content by output-domain digest, streaming both sides so large
// binary outputs are never held in memory.
func (w *Writer) identical(path string, c content.Content) (bool, error) {
	existing, err := digest.OutputFile(path)
	if err != nil {
		return false, err
	}

	var candidate digest.Hash
	switch c := c.(type) {
	case content.TextualContent:
		candidate = digest.Output([]byte(c.String()))
	case content.BinaryContent:
		candidate, err = digest.OutputFile(c.Filename())
		if err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("unknown content variant %T", c)
	}

	return existing == candidate, nil
}

// replaceFile writes the candidate bytes to path via a temp file in
// the same directory and a rename, so readers never observe a
// half-written output.
func replaceFile(path string, c content.Content) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp output file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	switch c := c.(type) {
	case content.TextualContent:
		if _, err := tmp.WriteString(c.String()); err != nil {
			return cleanup(fmt.Errorf("writing %s: %w", tmpName, err))
		}
	case content.BinaryContent:
		source, err := os.Open(c.Filename())
		if err != nil {
			return cleanup(fmt.Errorf("opening binary content: %w", err))
		}
		_, err = io.Copy(tmp, source)
		source.Close()
		if err != nil {
			return cleanup(fmt.Errorf("copying binary content to %s: %w", tmpName, err))
		}
	default:
		return cleanup(fmt.Errorf("unknown content variant %T", c))
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
