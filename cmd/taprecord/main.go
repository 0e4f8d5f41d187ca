/*
NAME
  taprecord

DESCRIPTION
  taprecord captures cassette audio from the default ALSA input device
  and decodes it straight to an ATM program file, without the
  intermediate WAV/FLAC round trip atm2wav/wav2atm normally take.

AUTHOR
  Charlie Robson <charlie_robson@hotmail.com>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ausocean/utils/logging"

	"github.com/charlierobson/atom-tools/codec/atm"
	"github.com/charlierobson/atom-tools/codec/kansascity"
	"github.com/charlierobson/atom-tools/codec/tape"
	"github.com/charlierobson/atom-tools/internal/argcrack"
	"github.com/charlierobson/atom-tools/internal/tapealsa"
)

const version = "1.0.0"

func usage() {
	fmt.Println("TAPRECORD V" + version)
	fmt.Println()
	fmt.Println("Records cassette audio from the default ALSA input device and decodes")
	fmt.Println("it directly to an ATM program file.")
	fmt.Println()
	fmt.Println("Usage: taprecord seconds [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println()
	fmt.Println("out=     Output filename. Optional, defaults to capture.atm")
	fmt.Println("unnamed  Input is an unnamed file (no preamble/checksum framing).")
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	c := argcrack.New(args)
	if len(args) < 1 || c.Present("/?") || c.Present("-?") || c.Present("?") {
		usage()
		return 1
	}

	seconds, err := strconv.ParseFloat(args[0], 64)
	if err != nil || seconds <= 0 {
		fmt.Printf("Invalid duration %s.\n", args[0])
		return 1
	}

	outName, ok := c.String("out")
	if !ok {
		outName = "capture.atm"
	}

	l := logging.New(logging.Info, io.Writer(os.Stderr), false)

	samples, sampleRate, err := tapealsa.Record(seconds, l)
	if err != nil {
		fmt.Println("Recording failed:", err)
		return 1
	}

	a := kansascity.NewAnalyser(samples, sampleRate)
	dec := tape.NewDecoder(a)

	var f atm.File
	if c.Present("unnamed") {
		f, err = dec.DecodeUnnamed()
	} else {
		f, err = dec.Decode()
	}
	if err != nil {
		fmt.Println("Failed to decode tape audio:", err)
		return 1
	}

	if err := os.WriteFile(outName, atm.Write(f, atm.SmallForm), 0o644); err != nil {
		fmt.Println(err)
		return 1
	}

	fmt.Printf("Wrote %s (%q, %d bytes)\n", outName, f.Header.Name(), len(f.Payload))
	return 0
}
