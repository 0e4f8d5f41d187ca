/*
NAME
  tape.go

DESCRIPTION
  tape.go implements the Acorn Atom cassette block protocol: framing an
  ATM container into a sequence of leader/preamble/header/data/checksum
  blocks for encoding, and the matching state machine for decoding a
  demodulated bitstream back into one.

AUTHOR
  Charlie Robson <charlie_robson@hotmail.com>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package tape implements the Atom cassette block protocol on top of the
// kansascity PCM codec: turning an atm.File into a framed bitstream and
// back.
package tape

import (
	"io"

	"github.com/pkg/errors"

	"github.com/charlierobson/atom-tools/codec/atm"
	"github.com/charlierobson/atom-tools/codec/kansascity"
)

// Block header flag bits, ordered as they appear on tape.
const (
	flagFirstBlockClear = 1 << 5 // clear on the first block of a file
	flagDoLoad          = 1 << 6 // set to request the receiving Atom load the block
	flagLastBlockClear  = 1 << 7 // clear on the last block of a file
)

// maxBlockLen is the largest payload a single tape block can carry.
const maxBlockLen = 256

// Errors specific to the tape block protocol. kansascity.Err* errors
// (leader/start-bit/timing) also surface unwrapped from Decode.
var (
	ErrPreambleMismatch  = errors.New("preamble mismatch")
	ErrChecksumMismatch  = errors.New("checksum mismatch")
	ErrBadExecAddress    = errors.New("implausible execution address")
)

// State identifies the decoder's position in the per-block state machine:
// SeekingLeader -> SeekingStart -> ReadPreamble -> ReadName -> ReadHeader
// -> ReadData -> ReadChecksum, repeating per block until the last-block
// flag is seen clear.
type State int

const (
	StateSeekingLeader State = iota
	StateSeekingStart
	StateReadPreamble
	StateReadName
	StateReadHeader
	StateReadData
	StateReadChecksum
)

// BlockHeader is the 8-byte header that follows a block's filename on
// tape, in the order the bytes are transmitted.
type BlockHeader struct {
	Flags              byte
	BlockNumHi         byte
	BlockNumLo         byte
	BytesInBlockMinus1 byte
	ExecHi             byte
	ExecLo             byte
	LoadHi             byte
	LoadLo             byte
}

func (h BlockHeader) firstBlock() bool { return h.Flags&flagFirstBlockClear == 0 }
func (h BlockHeader) lastBlock() bool  { return h.Flags&flagLastBlockClear == 0 }

// Options controls how Encode frames a file's blocks.
type Options struct {
	// ShortHeaders shortens the leader tone durations used by real Atom
	// software for quicker, more reliable re-recording.
	ShortHeaders bool
	// Unnamed encodes/decodes the file with the unnamed tape format: no
	// filename, preamble, per-block header, or checksum, just a 4-byte
	// address header followed by the raw payload.
	Unnamed bool
}

func (o Options) leaderMs() float64 {
	if o.ShortHeaders {
		return 2500.0
	}
	return 4550.0
}

func (o Options) interBlockMs() float64 {
	if o.ShortHeaders {
		return 500.0
	}
	return 1000.0
}

// blockChecksum is the running sum threaded explicitly through a single
// block's bytes: every byte transmitted within a block, including the
// preamble, filename, and header, contributes to it, not just the
// payload.
type blockChecksum struct{ sum byte }

func (c *blockChecksum) add(v byte) { c.sum += v }

// Encoder frames atm.Files as Kansas City bitstreams.
type Encoder struct {
	e *kansascity.Emitter
}

// NewEncoder returns an Encoder that writes format-encoded PCM to w.
func NewEncoder(w io.Writer, table *kansascity.ToneTable, format kansascity.SampleFormat) *Encoder {
	return &Encoder{e: kansascity.NewEmitter(w, table, format)}
}

// Encode writes f as one or more tape blocks per opts.
func (enc *Encoder) Encode(f atm.File, opts Options) error {
	if opts.Unnamed {
		return enc.encodeUnnamed(f, opts)
	}
	return enc.encodeNamed(f, opts)
}

func (enc *Encoder) emitByte(ck *blockChecksum, v byte) error {
	if err := enc.e.EmitByte(v); err != nil {
		return err
	}
	ck.add(v)
	return nil
}

func (enc *Encoder) encodeNamed(f atm.File, opts Options) error {
	data := f.Payload
	name := f.Header.Name()
	if len(name) > 13 {
		name = name[:13]
	}

	blockNum := 0
	blockLoadAddr := f.Header.Start
	flags := byte(0)
	headerMs := opts.leaderMs()

	for {
		if err := enc.e.EmitLeader(headerMs); err != nil {
			return err
		}

		ck := &blockChecksum{}
		for _, c := range []byte("****") {
			if err := enc.emitByte(ck, c); err != nil {
				return err
			}
		}
		for _, c := range []byte(name) {
			if err := enc.emitByte(ck, c); err != nil {
				return err
			}
		}
		if err := enc.emitByte(ck, 0x0D); err != nil {
			return err
		}

		blockLen := len(data)
		if blockLen < 257 {
			flags &^= flagLastBlockClear
		} else {
			flags |= flagLastBlockClear
			if blockLen > maxBlockLen {
				blockLen = maxBlockLen
			}
		}
		flags |= flagDoLoad

		if err := enc.emitByte(ck, flags); err != nil {
			return err
		}
		if err := enc.emitByte(ck, 0); err != nil {
			return err
		}
		if err := enc.emitByte(ck, byte(blockNum&0xff)); err != nil {
			return err
		}
		if err := enc.emitByte(ck, byte(blockLen-1)); err != nil {
			return err
		}
		if err := enc.emitByte(ck, byte((f.Header.Exec>>8)&0xff)); err != nil {
			return err
		}
		if err := enc.emitByte(ck, byte(f.Header.Exec&0xff)); err != nil {
			return err
		}
		if err := enc.emitByte(ck, byte((blockLoadAddr>>8)&0xff)); err != nil {
			return err
		}
		if err := enc.emitByte(ck, byte(blockLoadAddr&0xff)); err != nil {
			return err
		}

		if err := enc.e.EmitLeader(opts.interBlockMs()); err != nil {
			return err
		}

		for i := 0; i < blockLen; i++ {
			if err := enc.emitByte(ck, data[i]); err != nil {
				return err
			}
		}
		if err := enc.emitByte(ck, ck.sum); err != nil {
			return err
		}

		blockLoadAddr += 0x100
		data = data[blockLen:]
		blockNum++
		flags |= flagFirstBlockClear
		headerMs = opts.interBlockMs()

		if flags&flagLastBlockClear == 0 {
			break
		}
	}
	return nil
}

func (enc *Encoder) encodeUnnamed(f atm.File, opts Options) error {
	if err := enc.e.EmitLeader(opts.leaderMs()); err != nil {
		return err
	}

	blockLoadAddr := int(f.Header.Start)
	blockEndAddr := blockLoadAddr + len(f.Payload)

	ck := &blockChecksum{}
	if err := enc.emitByte(ck, byte(blockEndAddr/256)); err != nil {
		return err
	}
	if err := enc.emitByte(ck, byte(blockEndAddr%256)); err != nil {
		return err
	}
	if err := enc.emitByte(ck, byte(blockLoadAddr/256)); err != nil {
		return err
	}
	if err := enc.emitByte(ck, byte(blockLoadAddr%256)); err != nil {
		return err
	}

	for _, b := range f.Payload {
		if err := enc.emitByte(ck, b); err != nil {
			return err
		}
	}
	return nil
}

// Decoder demodulates a Kansas City bitstream back into an atm.File,
// tracking its position in the block state machine as it goes.
type Decoder struct {
	a     *kansascity.Analyser
	state State
}

// NewDecoder returns a Decoder reading from a.
func NewDecoder(a *kansascity.Analyser) *Decoder {
	return &Decoder{a: a}
}

// State reports the decoder's current position in the block state
// machine, useful for diagnostics when Decode fails partway through.
func (d *Decoder) State() State { return d.state }

func (d *Decoder) getByte(ck *blockChecksum) (byte, error) {
	b, err := d.a.GetByte()
	if err != nil {
		return 0, err
	}
	if ck != nil {
		ck.add(b)
	}
	return b, nil
}

// Decode reads one named-format file, spanning as many blocks as the
// stream's flags bytes indicate.
func (d *Decoder) Decode() (atm.File, error) {
	var out atm.File
	var payload []byte

	for {
		d.state = StateSeekingLeader
		if err := d.a.FindLeader(); err != nil {
			return atm.File{}, err
		}

		d.state = StateSeekingStart
		if err := d.a.FindStartBit(); err != nil {
			return atm.File{}, err
		}

		d.state = StateReadPreamble
		ck := &blockChecksum{}
		for i := 0; i < 4; i++ {
			b, err := d.getByte(ck)
			if err != nil {
				return atm.File{}, err
			}
			if b != '*' {
				return atm.File{}, errors.Wrapf(ErrPreambleMismatch, "byte %d = %#02x", i, b)
			}
		}

		d.state = StateReadName
		var nameBuf [14]byte
		n := 0
		for {
			b, err := d.getByte(ck)
			if err != nil {
				return atm.File{}, err
			}
			nameBuf[n] = b
			if b == 0x0D || n == 13 {
				break
			}
			n++
		}
		name := string(nameBuf[:n])

		d.state = StateReadHeader
		var hdr BlockHeader
		hdrBytes := make([]byte, 8)
		for i := range hdrBytes {
			b, err := d.getByte(ck)
			if err != nil {
				return atm.File{}, err
			}
			hdrBytes[i] = b
		}
		hdr.Flags = hdrBytes[0]
		hdr.BlockNumHi = hdrBytes[1]
		hdr.BlockNumLo = hdrBytes[2]
		hdr.BytesInBlockMinus1 = hdrBytes[3]
		hdr.ExecHi = hdrBytes[4]
		hdr.ExecLo = hdrBytes[5]
		hdr.LoadHi = hdrBytes[6]
		hdr.LoadLo = hdrBytes[7]

		if hdr.firstBlock() {
			out.Header.SetName(name)
			out.Header.Exec = uint16(hdr.ExecLo) | uint16(hdr.ExecHi)<<8
			out.Header.Start = uint16(hdr.LoadLo) | uint16(hdr.LoadHi)<<8
			payload = payload[:0]
		}

		d.state = StateReadData
		blockLen := int(hdr.BytesInBlockMinus1) + 1
		data := make([]byte, blockLen)
		for i := range data {
			b, err := d.getByte(ck)
			if err != nil {
				return atm.File{}, err
			}
			data[i] = b
		}
		payload = append(payload, data...)

		d.state = StateReadChecksum
		sum, err := d.getByte(nil)
		if err != nil {
			return atm.File{}, err
		}
		if sum != ck.sum {
			return atm.File{}, errors.Wrapf(ErrChecksumMismatch, "got %#02x want %#02x", sum, ck.sum)
		}

		if hdr.lastBlock() {
			break
		}
	}

	out.Header.Length = uint16(len(payload))
	out.Payload = payload
	return out, nil
}

// DecodeUnnamed reads one unnamed-format file: a 4-byte end/load address
// header followed immediately by its raw payload, with no preamble,
// per-block framing, or checksum.
func (d *Decoder) DecodeUnnamed() (atm.File, error) {
	d.state = StateSeekingLeader
	if err := d.a.FindLeader(); err != nil {
		return atm.File{}, err
	}
	d.state = StateSeekingStart
	if err := d.a.FindStartBit(); err != nil {
		return atm.File{}, err
	}

	d.state = StateReadHeader
	hdrBytes := make([]byte, 4)
	for i := range hdrBytes {
		b, err := d.getByte(nil)
		if err != nil {
			return atm.File{}, err
		}
		hdrBytes[i] = b
	}
	endAddr := int(hdrBytes[0])*256 + int(hdrBytes[1])
	loadAddr := int(hdrBytes[2])*256 + int(hdrBytes[3])

	d.state = StateReadData
	length := endAddr - loadAddr
	if length < 0 {
		return atm.File{}, errors.Wrap(ErrBadExecAddress, "end address precedes load address")
	}
	payload := make([]byte, length)
	for i := range payload {
		b, err := d.getByte(nil)
		if err != nil {
			return atm.File{}, err
		}
		payload[i] = b
	}

	return atm.WrapBinary(payload, uint16(loadAddr), uint16(loadAddr), ""), nil
}
