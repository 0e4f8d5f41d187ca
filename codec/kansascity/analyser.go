/*
NAME
  analyser.go

DESCRIPTION
  analyser.go implements blind FSK demodulation of Kansas-City cassette
  audio: no filtering, just zero-crossing period measurement against a
  reference period derived from the sample rate.

AUTHOR
  Charlie Robson <charlie_robson@hotmail.com>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package kansascity

import "github.com/pkg/errors"

// Errors returned while demodulating a PCM stream. These correspond
// directly to the points of failure a cassette recording analyser can
// hit: a leader tone that never arrives, a start bit that never arrives,
// and a cycle whose length is neither a 0-bit nor a 1-bit period.
var (
	ErrLeaderNotFound    = errors.New("leader tone not found")
	ErrStartBitNotFound  = errors.New("start bit not found")
	ErrBitTimingViolation = errors.New("cycle length violates bit timing")
	ErrPrematureEnd      = errors.New("unexpected end of sample data")
)

// leaderCycles is the number of consecutive 2400 Hz half-cycles (runs of
// same-signed samples) required before a leader tone is considered
// acquired.
const leaderCycles = 4096

// leaderTolerancePercent is the maximum percentage deviation from the
// reference period a cycle may show and still count towards the leader.
const leaderTolerancePercent = 6

// Analyser demodulates a slice of signed PCM samples into bits and bytes
// by counting zero-crossing intervals. It holds no lookahead buffer: each
// method call advances a single cursor forward through the sample slice,
// mirroring a single streaming pass over the tape.
type Analyser struct {
	samples []int16
	pos     int

	// aspc is the average number of samples per cycle at 2400 Hz: the
	// reference period against which every measured cycle is judged.
	aspc int
}

// NewAnalyser returns an Analyser over samples captured at sampleRate.
func NewAnalyser(samples []int16, sampleRate int) *Analyser {
	return &Analyser{samples: samples, aspc: sampleRate / 2400}
}

// Pos returns the analyser's current sample cursor.
func (a *Analyser) Pos() int { return a.pos }

func sign(v int16) int {
	if v < 0 {
		return -1
	}
	return 1
}

// countSimilarSamples counts samples from the cursor that share the sign
// of the sample under the cursor, advancing the cursor to the first
// sample of a different sign, or to the end of the buffer when the run
// reaches it. It assumes the cursor already sits at the first sample of a
// new run, and returns ErrPrematureEnd only when no sample is left.
func (a *Analyser) countSimilarSamples() (int, error) {
	if a.pos >= len(a.samples) {
		return 0, ErrPrematureEnd
	}
	hilo := sign(a.samples[a.pos])
	count := 0
	for a.pos < len(a.samples) && sign(a.samples[a.pos]) == hilo {
		a.pos++
		count++
	}
	return count, nil
}

// getCycleCount measures one full cycle (one low-going run plus one
// high-going run) from the cursor, advancing it to the start of the next
// cycle.
func (a *Analyser) getCycleCount() (int, error) {
	lo, err := a.countSimilarSamples()
	if err != nil {
		return 0, err
	}
	hi, err := a.countSimilarSamples()
	if err != nil {
		return 0, err
	}
	return lo + hi, nil
}

// isHighTone reports whether a cycle of the given length is a 2400 Hz
// (high tone / 1-bit) cycle, as opposed to a 1200 Hz (low tone / 0-bit)
// cycle. The discriminator sits midway between the two reference periods:
// anything shorter than 1.5 times the 2400 Hz reference period is high
// tone, anything longer is low tone.
func (a *Analyser) isHighTone(cycleLen int) bool {
	return cycleLen < a.aspc*3/2
}

// FindLeader scans forward until it has seen leaderCycles consecutive
// half-cycles (same-sign runs) whose length is within
// leaderTolerancePercent of the reference period of half the 2400 Hz
// reference period, leaving the cursor at the first sample of the run
// immediately following the acquired leader.
func (a *Analyser) FindLeader() error {
	cycles := 0
	for cycles < leaderCycles {
		count, err := a.countSimilarSamples()
		if err != nil {
			return errors.Wrap(ErrLeaderNotFound, err.Error())
		}
		diff := (abs(count-a.aspc/2) * 100) / a.aspc
		if diff < leaderTolerancePercent {
			cycles++
		} else {
			cycles = 0
		}
	}
	return nil
}

// FindStartBit scans forward from the cursor until it finds a cycle
// longer than the 1.5x-reference-period threshold: the first low (1200
// Hz) cycle following a run of high (2400 Hz) leader tone, which is the
// first half of a start bit. It leaves the cursor at the start of that
// cycle.
func (a *Analyser) FindStartBit() error {
	for {
		mark := a.pos
		count, err := a.getCycleCount()
		if err != nil {
			return errors.Wrap(ErrStartBitNotFound, err.Error())
		}
		if !a.isHighTone(count) {
			a.pos = mark
			return nil
		}
	}
}

// GetBit reads a single bit's worth of cycles (4 of 1200 Hz for a 0-bit,
// 8 of 2400 Hz for a 1-bit) starting at the cursor, and returns the bit
// value. It returns ErrBitTimingViolation if the cycles making up the bit
// are not all consistently one tone or the other.
func (a *Analyser) GetBit() (byte, error) {
	count, err := a.getCycleCount()
	if err != nil {
		return 0, err
	}

	if a.isHighTone(count) {
		for i := 0; i < 7; i++ {
			count, err = a.getCycleCount()
			if err != nil {
				return 0, err
			}
			if !a.isHighTone(count) {
				return 0, ErrBitTimingViolation
			}
		}
		return 1, nil
	}

	for i := 0; i < 3; i++ {
		count, err = a.getCycleCount()
		if err != nil {
			return 0, err
		}
		if a.isHighTone(count) {
			return 0, ErrBitTimingViolation
		}
	}
	return 0, nil
}

// GetByte reads one UART-framed byte: a start bit, eight data bits LSB
// first, and a stop bit, returning ErrBitTimingViolation if the framing
// bits are wrong. Between bytes there may be any amount of leftover
// leader tone (a "micro-leader" as short as a single cycle), so GetByte
// re-locates the start bit itself rather than assuming the cursor sits
// exactly on one.
func (a *Analyser) GetByte() (byte, error) {
	if err := a.FindStartBit(); err != nil {
		return 0, err
	}

	bit, err := a.GetBit()
	if err != nil {
		return 0, err
	}
	if bit != 0 {
		return 0, errors.Wrap(ErrBitTimingViolation, "missing start bit")
	}

	var value byte
	for i := 0; i < 8; i++ {
		bit, err = a.GetBit()
		if err != nil {
			return 0, err
		}
		if bit != 0 {
			value |= 1 << uint(i)
		}
	}

	bit, err = a.GetBit()
	if err != nil {
		return 0, err
	}
	if bit != 1 {
		return 0, errors.Wrap(ErrBitTimingViolation, "missing stop bit")
	}

	return value, nil
}

// AverageSamplesPerCycle returns the reference period (in samples) a
// 2400 Hz cycle is expected to occupy: the same value GetBit and
// FindLeader judge every measured cycle against.
func (a *Analyser) AverageSamplesPerCycle() int { return a.aspc }

// CycleLengths walks the remainder of the sample buffer from the current
// cursor, recording the length of every full cycle it passes, without
// requiring a leader or any bit/byte framing. It is purely diagnostic:
// unlike GetBit/GetByte it never errors on a cycle that fails the bit
// timing discriminator, it simply records whatever length it measured,
// stopping only when the buffer runs out.
func (a *Analyser) CycleLengths() []int {
	var lengths []int
	for {
		n, err := a.getCycleCount()
		if n > 0 {
			lengths = append(lengths, n)
		}
		if err != nil {
			break
		}
	}
	return lengths
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
