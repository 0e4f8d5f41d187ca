/*
NAME
  dsk.go

DESCRIPTION
  dsk.go walks an Atom 40-track .dsk disk image's two-sector catalogue and
  recovers each cataloged program as an ATM file.

AUTHOR
  Charlie Robson <charlie_robson@hotmail.com>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package dsk reads Atom 40-track disk images and extracts their
// cataloged programs as ATM files.
package dsk

import (
	"encoding/binary"
	"strings"

	"github.com/pkg/errors"

	"github.com/charlierobson/atom-tools/codec/atm"
)

// sectorSize is the fixed sector size of an Atom disk image.
const sectorSize = 0x100

// dirEntCountOffset is the byte within the first catalogue sector that
// holds 8 times the number of directory entries.
const dirEntCountOffset = 0x105

// existsFlag marks a first-sector directory entry byte 7 as belonging to
// a live (non-deleted) catalogue entry. The bit's origin is the Acorn DFS
// catalogue format; it is not otherwise explained here, matching the
// original tool.
const existsFlag = 0x20

// ErrBadImage indicates a disk image too small to hold its own catalogue.
var ErrBadImage = errors.New("disk image too small to hold a catalogue")

// Entry is one program recovered from a disk image's catalogue.
type Entry struct {
	File atm.File
	// Name is the raw (unmangled) catalogue entry name: up to 7
	// characters, trimmed at the first space and any trailing ".".
	Name string
}

// Split reads every live entry from data's two catalogue sectors and
// returns the corresponding ATM files, in catalogue order.
func Split(data []byte) ([]Entry, error) {
	if len(data) < 2*sectorSize {
		return nil, ErrBadImage
	}

	numDirEnts := int(data[dirEntCountOffset]) / 8

	var entries []Entry
	for i := 0; i < numDirEnts; i++ {
		base := i*8 + 8
		if base+8 > sectorSize {
			break
		}
		flags := data[base+7]
		if flags&existsFlag != existsFlag {
			continue
		}

		infoBase := sectorSize + i*8 + 8
		if infoBase+8 > len(data) {
			return nil, errors.Wrapf(ErrBadImage, "catalogue entry %d info truncated", i)
		}

		start := binary.LittleEndian.Uint16(data[infoBase : infoBase+2])
		exec := binary.LittleEndian.Uint16(data[infoBase+2 : infoBase+4])
		length := binary.LittleEndian.Uint16(data[infoBase+4 : infoBase+6])
		sector := int(data[infoBase+6])*256 + int(data[infoBase+7])

		name := catalogueName(data[base : base+7])

		payloadStart := sector * sectorSize
		payloadEnd := payloadStart + int(length)
		if payloadEnd > len(data) {
			return nil, errors.Wrapf(ErrBadImage, "entry %q: payload runs past end of image", name)
		}

		var h atm.Header
		h.SetName(name)
		h.Start = start
		h.Exec = exec
		h.Length = length

		payload := make([]byte, length)
		copy(payload, data[payloadStart:payloadEnd])

		entries = append(entries, Entry{
			File: atm.File{Header: h, Payload: payload},
			Name: name,
		})
	}

	return entries, nil
}

// catalogueName extracts a catalogue entry's name from its raw 7-byte
// field: stops at the first NUL or space, then drops a trailing ".".
func catalogueName(raw []byte) string {
	end := len(raw)
	for i, b := range raw {
		if b == 0 {
			end = i
			break
		}
	}
	name := string(raw[:end])
	if idx := strings.IndexByte(name, ' '); idx != -1 {
		name = name[:idx]
	}
	name = strings.TrimSuffix(name, ".")
	return name
}
