package main

import (
	"path/filepath"
	"testing"
)

func TestRunRequiresDirOption(t *testing.T) {
	if code := run(nil); code != 1 {
		t.Errorf("run() = %d, want 1", code)
	}
}

func TestRunRejectsMissingDir(t *testing.T) {
	if code := run([]string{"dir=" + filepath.Join(t.TempDir(), "does-not-exist")}); code != 1 {
		t.Errorf("run() = %d, want 1", code)
	}
}
