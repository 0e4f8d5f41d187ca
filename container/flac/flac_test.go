package flac

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	want := make([]int16, 2000)
	for i := range want {
		want[i] = int16((i%200 - 100) * 100)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, 44100, want); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	sampleRate, got, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if sampleRate != 44100 {
		t.Errorf("sampleRate = %d, want 44100", sampleRate)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestRescale(t *testing.T) {
	tests := []struct {
		v, bps int
		want   int16
	}{
		{100, 16, 100},
		{0x7FFFFF, 24, 32767}, // max 24-bit sample shifted down by 8 bits
		{1, 8, 256},
	}
	for _, tt := range tests {
		got := rescale(tt.v, tt.bps)
		if got != tt.want {
			t.Errorf("rescale(%d, %d) = %d, want %d", tt.v, tt.bps, got, tt.want)
		}
	}
}
