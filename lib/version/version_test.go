// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	got := Info()
	if !strings.Contains(got, Version) || !strings.Contains(got, GitCommit) {
		t.Fatalf("Info = %q, want version and commit", got)
	}

	origDirty := GitDirty
	defer func() { GitDirty = origDirty }()
	GitDirty = "true"
	if !strings.Contains(Info(), "-dirty") {
		t.Fatalf("Info = %q, want dirty marker", Info())
	}
}
