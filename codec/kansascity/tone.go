/*
NAME
  tone.go

DESCRIPTION
  tone.go implements the Kansas-City-style FSK tone emitter: the PCM half
  of the cassette codec that turns framed bits into 1.2 kHz / 2.4 kHz
  square-wave audio.

AUTHOR
  Charlie Robson <charlie_robson@hotmail.com>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package kansascity implements the Kansas-City FSK audio codec used for
// Acorn Atom cassette recordings: encoding framed bits to PCM, and
// demodulating PCM back to bits via zero-crossing period analysis.
package kansascity

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

// SampleRate is the only sample rate this codec supports.
const SampleRate = 44100

// BitSamples is the number of PCM samples occupied by exactly one bit,
// at either frequency.
const BitSamples = 147

// Amplitude16 is the peak sample value used for 16-bit signed output.
const Amplitude16 = 16384

// the two sample values used for 8-bit unsigned output: positive and
// negative half of the square wave.
const (
	amplitude8Pos = 0xC0
	amplitude8Neg = 0x40
)

// SampleFormat selects the PCM sample encoding the emitter writes and the
// analyser expects.
type SampleFormat int

const (
	Format16 SampleFormat = iota
	Format8
)

// ToneTable is the immutable square-wave lookup table shared by both bit
// frequencies: one 0-bit (4 cycles of 1200 Hz) occupies the table read at
// stride 1; one 1-bit (8 cycles of 2400 Hz) occupies the same 147 samples
// read at stride 2 modulo 147. The table stores +1/-1 signs rather than
// amplitudes so it can back both 8-bit and 16-bit emitters.
//
// The underlying waveform is a sinusoid that is immediately clamped to a
// square wave; this reproduces the original encoder's output byte-exactly
// rather than emitting a smoothed tone.
type ToneTable [BitSamples]int8

// NewToneTable builds the immutable tone table once; it may be shared
// read-only across any number of concurrent conversions.
func NewToneTable() *ToneTable {
	var t ToneTable
	var val float64
	step := (math.Pi * 8.0) / float64(BitSamples)
	for i := 0; i < BitSamples; i++ {
		s := math.Sin(val)
		if s >= 0.0 {
			t[i] = 1
		} else {
			t[i] = -1
		}
		val += step
	}
	return &t
}

// Emitter writes framed bits as PCM samples to an underlying writer. It
// carries no state beyond the shared tone table, the output format, and a
// running count of samples written, so it emits in strict forward order
// with no buffering beyond one bit (147 samples) at a time.
type Emitter struct {
	table  *ToneTable
	format SampleFormat
	w      io.Writer

	written int
	buf     [BitSamples * 2]byte // reused scratch space for one bit's worth of samples
}

// NewEmitter returns an Emitter that writes format-encoded PCM to w using
// table. Pass a shared NewToneTable() result to avoid rebuilding it per
// conversion.
func NewEmitter(w io.Writer, table *ToneTable, format SampleFormat) *Emitter {
	return &Emitter{w: w, table: table, format: format}
}

// WrittenSamples returns the number of PCM samples emitted so far.
func (e *Emitter) WrittenSamples() int { return e.written }

// EmitBit writes the 147-sample waveform for a single 0 or 1 bit.
func (e *Emitter) EmitBit(bit byte) error {
	var n int
	switch e.format {
	case Format16:
		n = e.render16(bit)
	case Format8:
		n = e.render8(bit)
	default:
		return errors.Errorf("unknown sample format %v", e.format)
	}
	if _, err := e.w.Write(e.buf[:n]); err != nil {
		return errors.Wrap(err, "writing PCM samples")
	}
	e.written += BitSamples
	return nil
}

func (e *Emitter) render16(bit byte) int {
	for i := 0; i < BitSamples; i++ {
		sign := e.tableSign(i, bit)
		binary.LittleEndian.PutUint16(e.buf[i*2:], uint16(int16(sign)*Amplitude16))
	}
	return BitSamples * 2
}

func (e *Emitter) render8(bit byte) int {
	for i := 0; i < BitSamples; i++ {
		sign := e.tableSign(i, bit)
		if sign > 0 {
			e.buf[i] = amplitude8Pos
		} else {
			e.buf[i] = amplitude8Neg
		}
	}
	return BitSamples
}

// tableSign returns the sign of table entry i for the given bit: direct
// indexing for a 0-bit (4 cycles of 1200 Hz), stride-2 indexing for a
// 1-bit (8 cycles of 2400 Hz read from the same 147-sample table).
func (e *Emitter) tableSign(i int, bit byte) int8 {
	if bit == 0 {
		return e.table[i]
	}
	return e.table[(i*2)%BitSamples]
}

// EmitByte frames value as one 0 start bit, eight data bits LSB first, and
// one 1 stop bit.
func (e *Emitter) EmitByte(value byte) error {
	if err := e.EmitBit(0); err != nil {
		return err
	}
	for i := 0; i < 8; i++ {
		bit := byte(0)
		if value&(1<<uint(i)) != 0 {
			bit = 1
		}
		if err := e.EmitBit(bit); err != nil {
			return err
		}
	}
	return e.EmitBit(1)
}

// EmitLeader writes 1-bits (continuous 2400 Hz tone) until at least ms
// milliseconds of audio has elapsed, matching the original's accounting of
// ~3.33ms per bit rather than an exact sample-based duration.
func (e *Emitter) EmitLeader(ms float64) error {
	const msPerBit = 3.33
	for remaining := ms; remaining > 0.0; remaining -= msPerBit {
		if err := e.EmitBit(1); err != nil {
			return err
		}
	}
	return nil
}
