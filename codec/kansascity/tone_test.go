package kansascity

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestToneTableDeterministic(t *testing.T) {
	a := NewToneTable()
	b := NewToneTable()
	if *a != *b {
		t.Fatal("NewToneTable is not deterministic")
	}
}

func TestEmitBitSampleCounts(t *testing.T) {
	table := NewToneTable()
	var buf bytes.Buffer
	e := NewEmitter(&buf, table, Format16)

	if err := e.EmitBit(0); err != nil {
		t.Fatal(err)
	}
	if got := buf.Len(); got != BitSamples*2 {
		t.Fatalf("EmitBit(0) wrote %d bytes, want %d", got, BitSamples*2)
	}
	if e.WrittenSamples() != BitSamples {
		t.Fatalf("WrittenSamples() = %d, want %d", e.WrittenSamples(), BitSamples)
	}
}

// TestBitFrequencyRatio checks that a 1-bit (2400 Hz, 8 cycles in 147
// samples) has roughly twice as many sign changes as a 0-bit (1200 Hz, 4
// cycles), which is the entire basis the analyser relies on to tell them
// apart.
func TestBitFrequencyRatio(t *testing.T) {
	table := NewToneTable()

	countCrossings := func(bit byte) int {
		var buf bytes.Buffer
		e := NewEmitter(&buf, table, Format16)
		if err := e.EmitBit(bit); err != nil {
			t.Fatal(err)
		}
		samples := make([]int16, BitSamples)
		for i := range samples {
			samples[i] = int16(binary.LittleEndian.Uint16(buf.Bytes()[i*2:]))
		}
		crossings := 0
		for i := 1; i < len(samples); i++ {
			if sign(samples[i]) != sign(samples[i-1]) {
				crossings++
			}
		}
		return crossings
	}

	zeroCrossings := countCrossings(0)
	oneCrossings := countCrossings(1)

	if oneCrossings <= zeroCrossings {
		t.Fatalf("1-bit should have more sign changes than 0-bit: got %d vs %d", oneCrossings, zeroCrossings)
	}
}

func TestEmitByteFraming(t *testing.T) {
	table := NewToneTable()
	var buf bytes.Buffer
	e := NewEmitter(&buf, table, Format16)

	if err := e.EmitByte(0xA5); err != nil {
		t.Fatal(err)
	}

	wantSamples := BitSamples * 10 // start + 8 data + stop
	if e.WrittenSamples() != wantSamples {
		t.Fatalf("WrittenSamples() = %d, want %d", e.WrittenSamples(), wantSamples)
	}
}

func TestEmit8BitFormat(t *testing.T) {
	table := NewToneTable()
	var buf bytes.Buffer
	e := NewEmitter(&buf, table, Format8)

	if err := e.EmitBit(1); err != nil {
		t.Fatal(err)
	}
	if got := buf.Len(); got != BitSamples {
		t.Fatalf("8-bit EmitBit wrote %d bytes, want %d", got, BitSamples)
	}
	for _, v := range buf.Bytes() {
		if v != amplitude8Pos && v != amplitude8Neg {
			t.Fatalf("unexpected 8-bit sample value %#02x", v)
		}
	}
}
