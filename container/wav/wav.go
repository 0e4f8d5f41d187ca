/*
NAME
  wav.go

DESCRIPTION
  wav.go provides WAV container encoding and decoding for cassette audio:
  a streaming, seek-and-patch writer for the encode path (the container
  doesn't know its total size until the last PCM sample has been written)
  and a reader built on go-audio/wav for the decode path.

AUTHOR
  Charlie Robson <charlie_robson@hotmail.com>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package wav provides the RIFF/WAVE container used to carry Kansas City
// cassette audio.
package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"
	"github.com/pkg/errors"
)

const (
	headerSize   = 44
	fmtChunkSize = 16
	pcmFormat    = 1
)

var (
	errInvalidChannels = fmt.Errorf("invalid or no number of channels defined")
	errInvalidRate     = fmt.Errorf("invalid or no sample rate defined")
	errInvalidBitDepth = fmt.Errorf("invalid or no bit depth defined")

	// ErrUnsupportedFormat is returned by Reader when a WAV file's format
	// doesn't match what the cassette codec requires: mono PCM.
	ErrUnsupportedFormat = errors.New("wav: unsupported format, expected mono PCM")
)

// Metadata describes a WAV file's format chunk.
type Metadata struct {
	Channels   int
	SampleRate int
	BitDepth   int
}

func (m Metadata) validate() error {
	if m.Channels == 0 {
		return errInvalidChannels
	}
	if m.SampleRate == 0 {
		return errInvalidRate
	}
	if m.BitDepth == 0 {
		return errInvalidBitDepth
	}
	return nil
}

// Writer streams PCM samples into a RIFF/WAVE container on an
// io.WriteSeeker. A zeroed header is written immediately so sample data
// can begin streaming right away; Close seeks back and patches the two
// size fields once the final length is known.
type Writer struct {
	w        io.WriteSeeker
	meta     Metadata
	dataLen  int
	finished bool
}

// NewWriter writes a placeholder WAV header to w and returns a Writer
// ready to stream PCM sample bytes.
func NewWriter(w io.WriteSeeker, meta Metadata) (*Writer, error) {
	if err := meta.validate(); err != nil {
		return nil, err
	}

	header := make([]byte, headerSize)
	copy(header[0:4], "RIFF")
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], fmtChunkSize)
	binary.LittleEndian.PutUint16(header[20:22], pcmFormat)
	binary.LittleEndian.PutUint16(header[22:24], uint16(meta.Channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(meta.SampleRate))

	byteRate := meta.SampleRate * meta.Channels * meta.BitDepth / 8
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))

	blockAlign := meta.Channels * meta.BitDepth / 8
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], uint16(meta.BitDepth))

	copy(header[36:40], "data")
	// header[40:44] (data chunk size) and header[4:8] (RIFF chunk size)
	// are left zero and patched by Close.

	if _, err := w.Write(header); err != nil {
		return nil, errors.Wrap(err, "writing wav header")
	}

	return &Writer{w: w, meta: meta}, nil
}

// Write appends raw PCM sample bytes to the data chunk.
func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.dataLen += n
	if err != nil {
		return n, errors.Wrap(err, "writing wav sample data")
	}
	return n, nil
}

// Close seeks back to patch the RIFF chunk size and data chunk size now
// that the total sample byte count is known. It does not close the
// underlying writer.
func (w *Writer) Close() error {
	if w.finished {
		return nil
	}
	w.finished = true

	if _, err := w.w.Seek(40, io.SeekStart); err != nil {
		return errors.Wrap(err, "seeking to data size field")
	}
	if err := binary.Write(w.w, binary.LittleEndian, uint32(w.dataLen)); err != nil {
		return errors.Wrap(err, "patching data size field")
	}

	if _, err := w.w.Seek(4, io.SeekStart); err != nil {
		return errors.Wrap(err, "seeking to riff size field")
	}
	if err := binary.Write(w.w, binary.LittleEndian, uint32(w.dataLen+36)); err != nil {
		return errors.Wrap(err, "patching riff size field")
	}

	_, err := w.w.Seek(0, io.SeekEnd)
	return err
}

// Reader decodes a WAV file into its metadata and signed 16-bit mono
// samples, the form the kansascity analyser consumes. It rejects anything
// that isn't mono PCM, matching the original tool's "WAVs should be 16
// bit, mono" requirement.
type Reader struct {
	r io.ReadSeeker
}

// NewReader returns a Reader over r.
func NewReader(r io.ReadSeeker) *Reader {
	return &Reader{r: r}
}

// ReadSamples decodes the entire WAV file and returns its metadata and
// samples as signed 16-bit values (narrowed from whatever bit depth the
// file actually carries).
func (rd *Reader) ReadSamples() (Metadata, []int16, error) {
	dec := gowav.NewDecoder(rd.r)
	if !dec.IsValidFile() {
		return Metadata{}, nil, errors.Wrap(ErrUnsupportedFormat, "not a valid wav file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return Metadata{}, nil, errors.Wrap(err, "locating wav pcm data")
	}

	meta := Metadata{
		Channels:   int(dec.NumChans),
		SampleRate: int(dec.SampleRate),
		BitDepth:   int(dec.BitDepth),
	}
	if meta.Channels != 1 {
		return Metadata{}, nil, errors.Wrapf(ErrUnsupportedFormat, "channels=%d", meta.Channels)
	}

	raw := make([]byte, dec.PCMLen())
	if _, err := io.ReadFull(rd.r, raw); err != nil {
		return Metadata{}, nil, errors.Wrap(err, "reading wav pcm data")
	}

	bytesPerSample := meta.BitDepth / 8
	samples := make([]int16, len(raw)/bytesPerSample)
	for i := range samples {
		off := i * bytesPerSample
		var v int
		switch meta.BitDepth {
		case 8:
			v = int(raw[off])
		case 16:
			v = int(int16(binary.LittleEndian.Uint16(raw[off:])))
		case 24:
			s := int32(raw[off]) | int32(raw[off+1])<<8 | int32(raw[off+2])<<16
			if s&0x800000 != 0 {
				s |= ^int32(0xFFFFFF)
			}
			v = int(s >> 8)
		case 32:
			v = int(int32(binary.LittleEndian.Uint32(raw[off:])) >> 16)
		default:
			return Metadata{}, nil, errors.Wrapf(ErrUnsupportedFormat, "bit depth=%d", meta.BitDepth)
		}
		samples[i] = narrow(v, meta.BitDepth)
	}
	return meta, samples, nil
}

// narrow maps a go-audio sample (always delivered as a widened int) down
// to a signed 16-bit value appropriate for its original bit depth.
func narrow(v int, bitDepth int) int16 {
	switch bitDepth {
	case 8:
		// 8-bit WAV samples are unsigned, centred on 128.
		return int16((v - 128) * 256)
	default:
		return int16(v)
	}
}
