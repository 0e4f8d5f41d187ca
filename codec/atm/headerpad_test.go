package atm

import "testing"

func TestPadInflateAndDeflate(t *testing.T) {
	f := File{Header: Header{Start: 0x2900, Exec: 0x2900, Length: 4}, Payload: []byte{1, 2, 3, 4}}
	f.Header.SetName("PROG")
	small := Write(f, SmallForm)

	large, err := Pad(small, Inflate)
	if err != nil {
		t.Fatalf("Pad(Inflate) error = %v", err)
	}
	if !IsLarge(large) {
		t.Fatal("Pad(Inflate) output not detected as large form")
	}
	if len(large) != LargeHeaderSize+4 {
		t.Errorf("inflated length = %d, want %d", len(large), LargeHeaderSize+4)
	}

	backToSmall, err := Pad(large, Deflate)
	if err != nil {
		t.Fatalf("Pad(Deflate) error = %v", err)
	}
	if IsLarge(backToSmall) {
		t.Fatal("Pad(Deflate) output still detected as large form")
	}
	if len(backToSmall) != HeaderSize+4 {
		t.Errorf("deflated length = %d, want %d", len(backToSmall), HeaderSize+4)
	}
}

func TestPadRemove(t *testing.T) {
	f := File{Header: Header{Length: 3}, Payload: []byte{9, 8, 7}}
	f.Header.SetName("X")
	small := Write(f, SmallForm)

	payload, err := Pad(small, Remove)
	if err != nil {
		t.Fatalf("Pad(Remove) error = %v", err)
	}
	if len(payload) != 3 || payload[0] != 9 || payload[1] != 8 || payload[2] != 7 {
		t.Errorf("Pad(Remove) = %v, want [9 8 7]", payload)
	}
}

func TestPadRejectsBadContainer(t *testing.T) {
	if _, err := Pad([]byte{1, 2}, Inflate); err == nil {
		t.Fatal("expected error for short container")
	}
}
