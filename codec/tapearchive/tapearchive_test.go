package tapearchive

import (
	"testing"

	"github.com/charlierobson/atom-tools/codec/atm"
)

func buildRecord(name string, payload []byte) []byte {
	f := atm.WrapBinary(payload, 0x2900, 0x2900, name)
	return atm.Write(f, atm.SmallForm)
}

func TestSplitSingleRecord(t *testing.T) {
	data := buildRecord("HELLO", []byte{1, 2, 3, 4})

	entries, err := Split(data)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].CleanName != "HELLO" {
		t.Errorf("CleanName = %q, want HELLO", entries[0].CleanName)
	}
	if len(entries[0].File.Payload) != 4 {
		t.Errorf("payload length = %d, want 4", len(entries[0].File.Payload))
	}
}

func TestSplitMultipleRecords(t *testing.T) {
	var data []byte
	data = append(data, buildRecord("FIRST", []byte{1, 2, 3})...)
	data = append(data, buildRecord("SECOND", make([]byte, 200))...)
	data = append(data, buildRecord("THIRD", nil)...)

	entries, err := Split(data)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	wantNames := []string{"FIRST", "SECOND", "THIRD"}
	for i, want := range wantNames {
		if entries[i].CleanName != want {
			t.Errorf("entry %d name = %q, want %q", i, entries[i].CleanName, want)
		}
	}
}

func TestSplitReplacesControlCharsInName(t *testing.T) {
	data := buildRecord("A\x01B\x02C", []byte{0xAA})

	entries, err := Split(data)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if entries[0].CleanName != "A-B-C" {
		t.Errorf("CleanName = %q, want A-B-C", entries[0].CleanName)
	}
}

func TestSplitTruncated(t *testing.T) {
	data := buildRecord("X", []byte{1, 2, 3, 4, 5})
	data = data[:len(data)-2] // chop off the tail of the payload

	if _, err := Split(data); err == nil {
		t.Fatal("expected error for truncated tap image")
	}
}

func TestSplitEmptyInput(t *testing.T) {
	entries, err := Split(nil)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}
