package tape

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/charlierobson/atom-tools/codec/atm"
	"github.com/charlierobson/atom-tools/codec/kansascity"
)

func encodePCM(t *testing.T, f atm.File, opts Options) []int16 {
	t.Helper()
	table := kansascity.NewToneTable()
	var buf bytes.Buffer
	enc := NewEncoder(&buf, table, kansascity.Format16)
	if err := enc.Encode(f, opts); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	raw := buf.Bytes()
	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return samples
}

func TestEncodeDecodeSingleBlockRoundTrip(t *testing.T) {
	f := atm.File{
		Header:  atm.Header{Start: 0x2900, Exec: 0xC2B2},
		Payload: []byte{0x0D, 0x00, 0x0A, 'P', 'R', 'I', 'N', 'T'},
	}
	f.Header.SetName("HELLO")

	samples := encodePCM(t, f, Options{ShortHeaders: true})

	dec := NewDecoder(kansascity.NewAnalyser(samples, kansascity.SampleRate))
	got, err := dec.Decode()
	if err != nil {
		t.Fatalf("Decode() error = %v (state %v)", err, dec.State())
	}

	if got.Header.Name() != "HELLO" {
		t.Errorf("Name() = %q, want HELLO", got.Header.Name())
	}
	if got.Header.Start != f.Header.Start {
		t.Errorf("Start = %#04x, want %#04x", got.Header.Start, f.Header.Start)
	}
	if got.Header.Exec != f.Header.Exec {
		t.Errorf("Exec = %#04x, want %#04x", got.Header.Exec, f.Header.Exec)
	}
	if !bytes.Equal(got.Payload, f.Payload) {
		t.Errorf("Payload = %v, want %v", got.Payload, f.Payload)
	}
}

func TestEncodeDecodeMultiBlockRoundTrip(t *testing.T) {
	payload := make([]byte, 600) // spans three blocks: 256 + 256 + 88
	for i := range payload {
		payload[i] = byte(i)
	}
	f := atm.File{
		Header:  atm.Header{Start: 0x8000, Exec: 0x8000},
		Payload: payload,
	}
	f.Header.SetName("BIGPROG")

	samples := encodePCM(t, f, Options{})

	dec := NewDecoder(kansascity.NewAnalyser(samples, kansascity.SampleRate))
	got, err := dec.Decode()
	if err != nil {
		t.Fatalf("Decode() error = %v (state %v)", err, dec.State())
	}

	if !bytes.Equal(got.Payload, payload) {
		t.Errorf("Payload length = %d, want %d; mismatch in decoded multi-block data", len(got.Payload), len(payload))
	}
}

func TestEncodeDecodeUnnamedRoundTrip(t *testing.T) {
	f := atm.WrapBinary([]byte{1, 2, 3, 4, 5}, 0x8000, 0x8000, "")

	samples := encodePCM(t, f, Options{ShortHeaders: true, Unnamed: true})

	dec := NewDecoder(kansascity.NewAnalyser(samples, kansascity.SampleRate))
	got, err := dec.DecodeUnnamed()
	if err != nil {
		t.Fatalf("DecodeUnnamed() error = %v (state %v)", err, dec.State())
	}
	if !bytes.Equal(got.Payload, f.Payload) {
		t.Errorf("Payload = %v, want %v", got.Payload, f.Payload)
	}
	if got.Header.Start != f.Header.Start {
		t.Errorf("Start = %#04x, want %#04x", got.Header.Start, f.Header.Start)
	}
}

func TestDecodeChecksumMismatch(t *testing.T) {
	f := atm.File{Header: atm.Header{Start: 0x2900, Exec: 0x2900}, Payload: []byte{1, 2, 3}}
	f.Header.SetName("X")

	samples := encodePCM(t, f, Options{ShortHeaders: true})

	// Overwrite data bit 2 of the last payload byte (0x03, the framed byte
	// just before the checksum byte) with a 1-bit waveform. The byte then
	// reads as 0x07 with its start and stop bits intact, so only the
	// block checksum can catch the corruption.
	var one bytes.Buffer
	if err := kansascity.NewEmitter(&one, kansascity.NewToneTable(), kansascity.Format16).EmitBit(1); err != nil {
		t.Fatalf("EmitBit() error = %v", err)
	}
	bitStart := len(samples) - 2*10*kansascity.BitSamples + 3*kansascity.BitSamples
	for i := 0; i < kansascity.BitSamples; i++ {
		samples[bitStart+i] = int16(binary.LittleEndian.Uint16(one.Bytes()[i*2:]))
	}

	dec := NewDecoder(kansascity.NewAnalyser(samples, kansascity.SampleRate))
	_, err := dec.Decode()
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("Decode() error = %v, want ErrChecksumMismatch", err)
	}
}
