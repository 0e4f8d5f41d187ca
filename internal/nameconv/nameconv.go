/*
NAME
  nameconv.go

DESCRIPTION
  nameconv.go mangles a PC-style filename into the upper-case,
  space/underscore-free, 11-character form the Atom's BASIC SAVE/LOAD
  commands expect.

AUTHOR
  Charlie Robson <charlie_robson@hotmail.com>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package nameconv converts PC filenames to Atom tape/disk names.
package nameconv

import (
	"strings"
	"unicode"
)

// maxNameLen is the longest name the tape protocol's filename field can
// usefully carry.
const maxNameLen = 11

// PCToAtom mangles pcName into an Atom-style name: its last "." extension
// is dropped, spaces and underscores are removed, the remainder is
// upper-cased, and the result is truncated to maxNameLen characters.
func PCToAtom(pcName string) string {
	if i := strings.LastIndex(pcName, "."); i != -1 {
		pcName = pcName[:i]
	}

	var b strings.Builder
	for _, r := range pcName {
		if b.Len() >= maxNameLen {
			break
		}
		if r == ' ' || r == '_' {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
