package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charlierobson/atom-tools/codec/atm"
)

func writeBas(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.bas")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestRunEncodesListing(t *testing.T) {
	path := writeBas(t, "10 PRINT 1\n20 GOTO 10\n")
	outPath := filepath.Join(t.TempDir(), "out.atm")

	if code := run([]string{path, "out=" + outPath, "name=TEST"}); code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	f, err := atm.Read(data)
	if err != nil {
		t.Fatalf("atm.Read() error = %v", err)
	}
	if f.Header.Name() != "TEST" {
		t.Errorf("Name() = %q, want TEST", f.Header.Name())
	}
	if f.Header.Exec != defaultExec {
		t.Errorf("Exec = %#04x, want %#04x", f.Header.Exec, defaultExec)
	}
}

func TestRunDefaultsNameToFileStem(t *testing.T) {
	path := writeBas(t, "10 PRINT 1\n")
	outPath := filepath.Join(t.TempDir(), "out.atm")

	if code := run([]string{path, "out=" + outPath}); code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	f, err := atm.Read(data)
	if err != nil {
		t.Fatalf("atm.Read() error = %v", err)
	}
	if f.Header.Name() != "PROG" {
		t.Errorf("Name() = %q, want PROG", f.Header.Name())
	}
}

func TestRunPadProducesLargeForm(t *testing.T) {
	path := writeBas(t, "10 PRINT 1\n")
	outPath := filepath.Join(t.TempDir(), "out.atm")

	if code := run([]string{path, "out=" + outPath, "pad"}); code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !atm.IsLarge(data) {
		t.Errorf("expected large-form header")
	}
}

func TestRunRejectsMissingInput(t *testing.T) {
	if code := run([]string{filepath.Join(t.TempDir(), "missing.bas")}); code != 1 {
		t.Errorf("run() = %d, want 1", code)
	}
}
