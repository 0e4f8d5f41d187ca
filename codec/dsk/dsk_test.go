package dsk

import (
	"encoding/binary"
	"testing"
)

// buildImage constructs a minimal disk image with a single catalogue
// entry called name occupying sector 4, holding payload.
func buildImage(name string, start, exec uint16, payload []byte) []byte {
	const totalSectors = 8
	data := make([]byte, totalSectors*sectorSize)

	// First catalogue sector: one entry at base 8.
	data[dirEntCountOffset] = 8 // one entry * 8
	base := 8
	copy(data[base:base+7], []byte(name))
	data[base+7] = existsFlag

	// Second catalogue sector: start/exec/length, then sector hi/lo.
	infoBase := sectorSize + 8
	binary.LittleEndian.PutUint16(data[infoBase:infoBase+2], start)
	binary.LittleEndian.PutUint16(data[infoBase+2:infoBase+4], exec)
	binary.LittleEndian.PutUint16(data[infoBase+4:infoBase+6], uint16(len(payload)))
	sector := 4
	data[infoBase+6] = byte(sector / 256)
	data[infoBase+7] = byte(sector % 256)

	copy(data[sector*sectorSize:], payload)

	return data
}

func TestSplitSingleEntry(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5}
	data := buildImage("PROG1", 0x2900, 0x2900, payload)

	entries, err := Split(data)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Name != "PROG1" {
		t.Errorf("Name = %q, want PROG1", e.Name)
	}
	if e.File.Header.Start != 0x2900 || e.File.Header.Exec != 0x2900 {
		t.Errorf("unexpected start/exec: %+v", e.File.Header)
	}
	if string(e.File.Payload) != string(payload) {
		t.Errorf("payload = %v, want %v", e.File.Payload, payload)
	}
}

func TestSplitSkipsDeletedEntries(t *testing.T) {
	data := buildImage("LIVE", 0x2900, 0x2900, []byte{9})
	// Add a second, deleted entry (flag bit clear) right after the live one.
	data[dirEntCountOffset] = 16 // two entries
	base2 := 8 + 8
	copy(data[base2:base2+7], []byte("DEAD"))
	data[base2+7] = 0 // no existsFlag

	entries, err := Split(data)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1 (deleted entry should be skipped)", len(entries))
	}
	if entries[0].Name != "LIVE" {
		t.Errorf("Name = %q, want LIVE", entries[0].Name)
	}
}

func TestSplitTrimsNameAtSpace(t *testing.T) {
	data := buildImage("AB CDEFG", 0x2900, 0x2900, []byte{1})
	// The 7-byte field truncates "AB CDEFG" to "AB CDEF"; the space then
	// cuts it further down to "AB".
	entries, err := Split(data)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if entries[0].Name != "AB" {
		t.Errorf("Name = %q, want AB", entries[0].Name)
	}
}

func TestSplitRejectsShortImage(t *testing.T) {
	if _, err := Split(make([]byte, 100)); err == nil {
		t.Fatal("expected error for image shorter than two catalogue sectors")
	}
}

func TestSplitRejectsTruncatedPayload(t *testing.T) {
	data := buildImage("PROG1", 0x2900, 0x2900, make([]byte, 10))
	data = data[:3*sectorSize] // chop off the sector holding the payload

	if _, err := Split(data); err == nil {
		t.Fatal("expected error for payload running past end of image")
	}
}
