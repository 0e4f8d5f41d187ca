package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charlierobson/atom-tools/codec/kansascity"
	"github.com/charlierobson/atom-tools/container/wav"
)

func buildScopeWav(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "rec.wav")

	out, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer out.Close()

	w, err := wav.NewWriter(out, wav.Metadata{Channels: 1, SampleRate: kansascity.SampleRate, BitDepth: 16})
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	var buf bytes.Buffer
	e := kansascity.NewEmitter(&buf, kansascity.NewToneTable(), kansascity.Format16)
	if err := e.EmitLeader(500); err != nil {
		t.Fatalf("EmitLeader() error = %v", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return path
}

func TestRunRendersPeriodTrace(t *testing.T) {
	path := buildScopeWav(t)
	outPath := filepath.Join(t.TempDir(), "plot.png")

	if code := run([]string{path, "out=" + outPath}); code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Errorf("expected plot to exist: %v", err)
	}
}

func TestRunFFTFlagRendersSpectrogram(t *testing.T) {
	path := buildScopeWav(t)
	dir := t.TempDir()
	outPath := filepath.Join(dir, "plot.png")

	if code := run([]string{path, "out=" + outPath, "fft"}); code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}
	if _, err := os.Stat(filepath.Join(dir, "plot-fft.png")); err != nil {
		t.Errorf("expected spectrogram to exist: %v", err)
	}
}

func TestRunRejectsMissingInput(t *testing.T) {
	if code := run([]string{filepath.Join(t.TempDir(), "missing.wav")}); code != 1 {
		t.Errorf("run() = %d, want 1", code)
	}
}
