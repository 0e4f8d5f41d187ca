package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charlierobson/atom-tools/codec/atm"
)

func TestRunEncodesWav(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "prog.atm")
	outPath := filepath.Join(dir, "prog.wav")

	f := atm.WrapBinary([]byte{0x0D, 0xFF}, 0x2900, 0xC2B2, "PROG")
	if err := os.WriteFile(inPath, atm.Write(f, atm.SmallForm), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if code := run([]string{inPath, "out=" + outPath}); code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}

	if _, err := os.Stat(outPath); err != nil {
		t.Errorf("expected output WAV to exist: %v", err)
	}
}

func TestRunRejectsMissingInput(t *testing.T) {
	if code := run([]string{filepath.Join(t.TempDir(), "missing.atm")}); code != 1 {
		t.Errorf("run() = %d, want 1", code)
	}
}

func TestRunShowsUsageWithNoArgs(t *testing.T) {
	if code := run(nil); code != 1 {
		t.Errorf("run() = %d, want 1", code)
	}
}
