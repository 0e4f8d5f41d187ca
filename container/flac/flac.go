/*
NAME
  flac.go

DESCRIPTION
  flac.go provides an optional, more compact container for cassette audio:
  encoding to FLAC for archival storage, and decoding a FLAC file back to
  the mono 16-bit PCM the kansascity codec operates on.

AUTHOR
  Charlie Robson <charlie_robson@hotmail.com>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package flac provides FLAC encode/decode for cassette audio, as a
// compact alternative to the uncompressed WAV container.
package flac

import (
	"bytes"
	"io"

	"github.com/mewkiz/flac"
	"github.com/pkg/errors"
	"github.com/schollz/goflac"
)

// ErrUnsupportedFormat is returned by Decode when a FLAC stream isn't
// mono, which is all the cassette codec ever produces or consumes.
var ErrUnsupportedFormat = errors.New("flac: unsupported format, expected mono")

const bitsPerSample = 16

// Encode compresses mono 16-bit samples to a FLAC stream written to w.
func Encode(w io.Writer, sampleRate int, samples []int16) error {
	enc, err := goflac.NewEncoder(w, uint32(sampleRate), 1, bitsPerSample)
	if err != nil {
		return errors.Wrap(err, "creating flac encoder")
	}

	wide := make([]int32, len(samples))
	for i, s := range samples {
		wide[i] = int32(s)
	}

	if err := enc.Encode([][]int32{wide}); err != nil {
		return errors.Wrap(err, "encoding flac stream")
	}
	return nil
}

// Decode parses a FLAC stream and returns its sample rate and mono 16-bit
// samples, clamping and rescaling to 16 bits if the source used a
// different bit depth.
func Decode(data []byte) (int, []int16, error) {
	stream, err := flac.Parse(bytes.NewReader(data))
	if err != nil {
		return 0, nil, errors.Wrap(err, "parsing flac stream")
	}

	if stream.Info.NChannels != 1 {
		return 0, nil, errors.Wrapf(ErrUnsupportedFormat, "channels=%d", stream.Info.NChannels)
	}

	sampleRate := int(stream.Info.SampleRate)
	bps := int(stream.Info.BitsPerSample)

	var samples []int16
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, nil, errors.Wrap(err, "decoding flac frame")
		}

		sub := frame.Subframes[0]
		for i := 0; i < sub.NSamples; i++ {
			samples = append(samples, rescale(int(sub.Samples[i]), bps))
		}
	}

	return sampleRate, samples, nil
}

// rescale maps a sample from its source bit depth into the 16-bit signed
// range the cassette codec expects.
func rescale(v, bps int) int16 {
	switch {
	case bps == 16:
		return int16(v)
	case bps > 16:
		v >>= uint(bps - 16)
	case bps < 16:
		v <<= uint(16 - bps)
	}
	if v > 32767 {
		v = 32767
	} else if v < -32768 {
		v = -32768
	}
	return int16(v)
}
