/*
NAME
  tapearchive.go

DESCRIPTION
  tapearchive.go splits a monolithic .tap image - a sequence of
  back-to-back small-form ATM records with no separators - into its
  constituent ATM files.

AUTHOR
  Charlie Robson <charlie_robson@hotmail.com>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package tapearchive splits a .tap archive - concatenated small-form ATM
// records - into its individual files.
package tapearchive

import (
	"github.com/pkg/errors"

	"github.com/charlierobson/atom-tools/codec/atm"
)

// ErrTruncated indicates a .tap image ends partway through a record: its
// declared header or payload length runs past the end of the buffer.
var ErrTruncated = errors.New("tap image truncated mid-record")

// Entry is one file recovered from a .tap image.
type Entry struct {
	File atm.File
	// CleanName is File.Header.Name() with any control characters (bytes
	// below 32) replaced by '-', since archived Atom filenames sometimes
	// carry them and they're unsafe to use verbatim as PC filenames.
	CleanName string
}

// Split walks data as a sequence of concatenated small-form ATM records,
// each being a 22-byte header immediately followed by Length payload
// bytes, with the next record starting immediately after. It returns one
// Entry per record found.
func Split(data []byte) ([]Entry, error) {
	var entries []Entry
	index := 0
	size := len(data)

	for index < size {
		if index+atm.HeaderSize > size {
			return nil, errors.Wrapf(ErrTruncated, "record %d: short header at offset %d", len(entries), index)
		}

		f, err := atm.Read(data[index:])
		if err != nil {
			return nil, errors.Wrapf(err, "record %d at offset %d", len(entries), index)
		}

		entries = append(entries, Entry{
			File:      f,
			CleanName: cleanName(f.Header.Name()),
		})

		index += atm.HeaderSize + len(f.Payload)
	}

	return entries, nil
}

// cleanName replaces control characters in name with '-', matching
// tap2atm's handling of Atom filenames that carry them.
func cleanName(name string) string {
	b := []byte(name)
	for i, c := range b {
		if c < 32 {
			b[i] = '-'
		}
	}
	return string(b)
}
