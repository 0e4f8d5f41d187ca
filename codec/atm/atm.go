/*
NAME
  atm.go

DESCRIPTION
  atm.go provides the ATM container codec: the fixed 22-byte header record
  (filename, load address, execution address, payload length) used to wrap
  Acorn Atom programs on disk, plus its optional 512-byte "large" form used
  by the AtoMMC MMC card system.

AUTHOR
  Charlie Robson <charlie_robson@hotmail.com>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package atm provides the ATM container codec used for Acorn Atom program
// files: a short fixed-layout header followed by a raw payload.
package atm

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// HeaderSize is the size in bytes of the small-form ATM header.
const HeaderSize = 22

// LargeHeaderSize is the size in bytes of the zero-padded large-form header
// block; the payload begins immediately after it.
const LargeHeaderSize = 512

// nameSize is the width of the filename field within the header.
const nameSize = 16

// sentinelOffset is the offset within the header at which the large-form
// sentinel bytes are stamped.
const sentinelOffset = 24

// sentinel marks a header as having been padded to the large form. Written
// out in hex, the two bytes read "512B", after the 512-byte header size.
var sentinel = [2]byte{0x51, 0x2B}

// Form selects whether a header is emitted in its small (22-byte) or large
// (512-byte, AtoMMC-padded) form.
type Form int

const (
	SmallForm Form = iota
	LargeForm
)

// ErrBadContainer indicates a malformed ATM container: too short to hold a
// header, or a length field claiming more payload than is present.
var ErrBadContainer = errors.New("malformed ATM container")

// Header is the fixed-layout record at the start of an ATM file.
type Header struct {
	// Filename is the program name, zero-padded ASCII. Only the first 13
	// bytes are meaningful to the tape protocol; bytes 13 and 14 are
	// conventionally unused and byte 15 is always zero, but both are
	// preserved on read since some archived files use them.
	Filename [nameSize]byte

	Start  uint16 // Load address.
	Exec   uint16 // Execution address.
	Length uint16 // Payload length in bytes.
}

// File is a parsed ATM container: its header plus the raw payload bytes.
type File struct {
	Header  Header
	Payload []byte
}

// Name returns the filename field as a Go string, stopping at the first
// zero byte.
func (h Header) Name() string {
	for i, b := range h.Filename {
		if b == 0 {
			return string(h.Filename[:i])
		}
	}
	return string(h.Filename[:])
}

// SetName copies name into the filename field, truncating to nameSize-1
// bytes and zero-padding the remainder.
func (h *Header) SetName(name string) {
	h.Filename = [nameSize]byte{}
	n := len(name)
	if n > nameSize-1 {
		n = nameSize - 1
	}
	copy(h.Filename[:n], name[:n])
}

// Read parses an ATM container from data, returning the header and a
// payload slice referencing data's backing array (no copy is made).
//
// The large form is detected by testing the sentinel bytes at offset 24-25;
// when present, the payload is taken to start at LargeHeaderSize rather
// than immediately after the 22-byte header.
func Read(data []byte) (File, error) {
	if len(data) < HeaderSize {
		return File{}, errors.Wrap(ErrBadContainer, "short header")
	}

	h := Header{
		Start:  binary.LittleEndian.Uint16(data[16:18]),
		Exec:   binary.LittleEndian.Uint16(data[18:20]),
		Length: binary.LittleEndian.Uint16(data[20:22]),
	}
	copy(h.Filename[:], data[0:nameSize])

	payloadStart := HeaderSize
	if len(data) >= sentinelOffset+2 &&
		data[sentinelOffset] == sentinel[0] && data[sentinelOffset+1] == sentinel[1] {
		payloadStart = LargeHeaderSize
	}

	end := payloadStart + int(h.Length)
	if len(data) < end {
		return File{}, errors.Wrapf(ErrBadContainer, "payload truncated: want %d bytes from %d, have %d", h.Length, payloadStart, len(data))
	}

	return File{Header: h, Payload: data[payloadStart:end]}, nil
}

// Write serialises f into the requested form. In LargeForm, the header is
// embedded at offset 0 of a 512-byte zero-padded block stamped with the
// sentinel at offset 24-25; the payload follows at offset 512. In
// SmallForm, the 22-byte header is immediately followed by the payload.
func Write(f File, form Form) []byte {
	headerLen := HeaderSize
	if form == LargeForm {
		headerLen = LargeHeaderSize
	}

	out := make([]byte, headerLen+len(f.Payload))
	copy(out[0:nameSize], f.Header.Filename[:])
	binary.LittleEndian.PutUint16(out[16:18], f.Header.Start)
	binary.LittleEndian.PutUint16(out[18:20], f.Header.Exec)
	binary.LittleEndian.PutUint16(out[20:22], uint16(len(f.Payload)))

	if form == LargeForm {
		out[sentinelOffset] = sentinel[0]
		out[sentinelOffset+1] = sentinel[1]
	}

	copy(out[headerLen:], f.Payload)
	return out
}

// IsLarge reports whether data carries the large-form sentinel.
func IsLarge(data []byte) bool {
	return len(data) >= sentinelOffset+2 &&
		data[sentinelOffset] == sentinel[0] && data[sentinelOffset+1] == sentinel[1]
}

// ToLarge re-wraps f's header and payload into the 512-byte padded form.
// This is a pure re-wrap: payload bytes are unchanged.
func ToLarge(f File) []byte { return Write(f, LargeForm) }

// ToSmall re-wraps f's header and payload into the 22-byte form.
func ToSmall(f File) []byte { return Write(f, SmallForm) }

// RequiredSize returns the number of bytes a correctly-sized ATM file
// should occupy, given the form its header was read in: the header size
// (small or large, as reported by the data that produced h) plus the
// declared payload length. Used to truncate files that have been
// over-allocated (e.g. padded with stale trailing bytes).
func RequiredSize(data []byte, h Header) int {
	headerLen := HeaderSize
	if IsLarge(data) {
		headerLen = LargeHeaderSize
	}
	return headerLen + int(h.Length)
}

// WrapBinary builds a File from raw binary data with an explicit load and
// execution address and program name, with no further interpretation of
// the payload. Grounded in bin2atm's behaviour of wrapping an arbitrary
// binary blob with a caller-supplied name and addresses.
func WrapBinary(data []byte, load, exec uint16, name string) File {
	var h Header
	h.SetName(name)
	h.Start = load
	h.Exec = exec
	h.Length = uint16(len(data))
	payload := make([]byte, len(data))
	copy(payload, data)
	return File{Header: h, Payload: payload}
}
