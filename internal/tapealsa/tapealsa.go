/*
NAME
  tapealsa.go

DESCRIPTION
  tapealsa.go captures audio from an ALSA input device into a fully
  buffered mono 16-bit sample slice, suitable as an alternate source for
  the offline tape decode pipeline alongside a decoded WAV file.

AUTHOR
  Charlie Robson <charlie_robson@hotmail.com>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package tapealsa captures a fixed-length clip of audio from an ALSA
// capture device for offline tape decoding.
package tapealsa

import (
	"encoding/binary"
	"time"

	"github.com/pkg/errors"
	yalsa "github.com/yobert/alsa"

	"github.com/ausocean/utils/logging"

	"github.com/charlierobson/atom-tools/codec/kansascity"
)

const (
	pkg = "tapealsa: "

	// wantChannels is the number of capture channels we negotiate for;
	// cassette audio is always mono.
	wantChannels = 1
)

// errNoDevice indicates no capture-capable ALSA device could be found.
var errNoDevice = errors.New("no ALSA capture device found")

// errUnsupportedFormat indicates the device could not be negotiated into
// 16-bit signed little-endian samples.
var errUnsupportedFormat = errors.New("device does not support 16-bit PCM capture")

// Record opens the first ALSA device capable of recording, negotiates a
// mono 16-bit capture stream as close to kansascity.SampleRate as the
// device will allow, captures seconds worth of audio, and returns it as
// []int16 PCM samples plus the sample rate actually negotiated.
func Record(seconds float64, l logging.Logger) ([]int16, int, error) {
	cards, err := yalsa.OpenCards()
	if err != nil {
		return nil, 0, err
	}
	defer yalsa.CloseCards(cards)

	l.Debug(pkg + "finding capture device")
	var dev *yalsa.Device
	for _, card := range cards {
		devices, err := card.Devices()
		if err != nil {
			continue
		}
		for _, d := range devices {
			if d.Type == yalsa.PCM && d.Record {
				dev = d
				break
			}
		}
		if dev != nil {
			break
		}
	}
	if dev == nil {
		return nil, 0, errNoDevice
	}

	l.Debug(pkg+"opening device", "title", dev.Title)
	if err := dev.Open(); err != nil {
		return nil, 0, err
	}
	defer dev.Close()

	channels, err := dev.NegotiateChannels(wantChannels)
	if err != nil {
		return nil, 0, err
	}
	l.Debug(pkg+"negotiated channels", "channels", channels)

	rate, err := dev.NegotiateRate(kansascity.SampleRate)
	if err != nil {
		return nil, 0, err
	}
	l.Debug(pkg+"negotiated rate", "rate", rate)

	format, err := dev.NegotiateFormat(yalsa.S16_LE)
	if err != nil {
		return nil, 0, err
	}
	if format != yalsa.S16_LE {
		return nil, 0, errUnsupportedFormat
	}

	periodSize, err := dev.NegotiatePeriodSize(int(float64(rate) * 0.05))
	if err != nil {
		return nil, 0, err
	}
	l.Debug(pkg+"negotiated period size", "periodsize", periodSize)

	if _, err := dev.NegotiateBufferSize(periodSize * 4); err != nil {
		return nil, 0, err
	}

	if err := dev.Prepare(); err != nil {
		return nil, 0, err
	}

	buf := dev.NewBufferDuration(time.Duration(seconds * float64(time.Second)))
	l.Debug(pkg+"reading audio", "duration", seconds)
	if err := dev.Read(buf.Data); err != nil {
		return nil, 0, err
	}

	samples := make([]int16, len(buf.Data)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(buf.Data[i*2 : i*2+2]))
	}

	return samples, rate, nil
}
