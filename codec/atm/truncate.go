/*
NAME
  truncate.go

DESCRIPTION
  truncate.go trims an over-allocated ATM file down to the size its own
  header declares, discarding any stale trailing bytes.

AUTHOR
  Charlie Robson <charlie_robson@hotmail.com>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package atm

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Truncate returns the leading slice of data that makes up a
// correctly-sized ATM file, per the header's own declared payload
// length and form. Trailing bytes beyond that are discarded.
func Truncate(data []byte) ([]byte, error) {
	if len(data) < HeaderSize {
		return nil, errors.Wrap(ErrBadContainer, "short header")
	}

	h := Header{Length: binary.LittleEndian.Uint16(data[20:22])}
	required := RequiredSize(data, h)
	if required > len(data) {
		return nil, errors.Wrapf(ErrBadContainer, "declared size %d exceeds actual file size %d", required, len(data))
	}

	return data[:required], nil
}
