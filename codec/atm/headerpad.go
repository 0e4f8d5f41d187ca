/*
NAME
  headerpad.go

DESCRIPTION
  headerpad.go converts an ATM file between its small (22-byte) header
  form, its large (512-byte, AtoMMC-padded) form, and headerless raw
  payload.

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

// PadMode selects how Pad rewrites an ATM file's header.
type PadMode int

const (
	// Inflate pads the header up to its 512-byte large form.
	Inflate PadMode = iota
	// Deflate shrinks the header down to its 22-byte small form.
	Deflate
	// Remove strips the header entirely, leaving just the payload.
	Remove
)

// Pad re-reads data as an ATM container (detecting whichever form it's
// currently in) and re-serialises it according to mode. Remove returns
// only the raw payload bytes, with no header at all.
func Pad(data []byte, mode PadMode) ([]byte, error) {
	f, err := Read(data)
	if err != nil {
		return nil, err
	}

	switch mode {
	case Inflate:
		return Write(f, LargeForm), nil
	case Deflate:
		return Write(f, SmallForm), nil
	case Remove:
		out := make([]byte, len(f.Payload))
		copy(out, f.Payload)
		return out, nil
	default:
		return Write(f, LargeForm), nil
	}
}
