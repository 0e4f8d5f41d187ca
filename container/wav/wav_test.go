package wav

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
)

// seekBuffer adapts a bytes.Buffer into an io.WriteSeeker backed by an
// in-memory slice, since bytes.Buffer itself cannot seek.
type seekBuffer struct {
	data []byte
	pos  int
}

func (b *seekBuffer) Write(p []byte) (int, error) {
	end := b.pos + len(p)
	if end > len(b.data) {
		grown := make([]byte, end)
		copy(grown, b.data)
		b.data = grown
	}
	copy(b.data[b.pos:end], p)
	b.pos = end
	return len(p), nil
}

func (b *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = int64(b.pos) + offset
	case io.SeekEnd:
		newPos = int64(len(b.data)) + offset
	}
	b.pos = int(newPos)
	return newPos, nil
}

func TestWriterHeaderPatchedOnClose(t *testing.T) {
	var buf seekBuffer
	w, err := NewWriter(&buf, Metadata{Channels: 1, SampleRate: 44100, BitDepth: 16})
	if err != nil {
		t.Fatal(err)
	}

	samples := make([]byte, 100)
	if _, err := w.Write(samples); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	if string(buf.data[0:4]) != "RIFF" {
		t.Fatalf("missing RIFF tag")
	}
	if string(buf.data[8:12]) != "WAVE" {
		t.Fatalf("missing WAVE tag")
	}

	riffSize := binary.LittleEndian.Uint32(buf.data[4:8])
	if riffSize != uint32(len(samples)+36) {
		t.Errorf("riff size = %d, want %d", riffSize, len(samples)+36)
	}
	dataSize := binary.LittleEndian.Uint32(buf.data[40:44])
	if dataSize != uint32(len(samples)) {
		t.Errorf("data size = %d, want %d", dataSize, len(samples))
	}
}

func TestWriterRejectsMissingMetadata(t *testing.T) {
	var buf seekBuffer
	if _, err := NewWriter(&buf, Metadata{}); err == nil {
		t.Fatal("expected error for zeroed metadata")
	}
}

func TestReaderRoundTrip(t *testing.T) {
	var buf seekBuffer
	w, err := NewWriter(&buf, Metadata{Channels: 1, SampleRate: 44100, BitDepth: 16})
	if err != nil {
		t.Fatal(err)
	}

	want := []int16{0, 16384, -16384, 32767, -32768}
	raw := make([]byte, len(want)*2)
	for i, v := range want {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(v))
	}
	if _, err := w.Write(raw); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r := NewReader(bytes.NewReader(buf.data))
	meta, got, err := r.ReadSamples()
	if err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if meta.SampleRate != 44100 || meta.Channels != 1 || meta.BitDepth != 16 {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestReaderRejectsStereo(t *testing.T) {
	var buf seekBuffer
	w, err := NewWriter(&buf, Metadata{Channels: 2, SampleRate: 44100, BitDepth: 16})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(make([]byte, 8)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r := NewReader(bytes.NewReader(buf.data))
	if _, _, err := r.ReadSamples(); err == nil {
		t.Fatal("expected error for stereo file")
	}
}
