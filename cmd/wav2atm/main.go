/*
NAME
  wav2atm

DESCRIPTION
  wav2atm demodulates a WAV recording of cassette audio back into an
  ATM program file. WAVs must be mono, 16-bit.

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
	"os"

	"github.com/charlierobson/atom-tools/codec/atm"
	"github.com/charlierobson/atom-tools/codec/kansascity"
	"github.com/charlierobson/atom-tools/codec/tape"
	"github.com/charlierobson/atom-tools/container/wav"
	"github.com/charlierobson/atom-tools/internal/argcrack"
)

const version = "1.1.0"

func usage() {
	fmt.Println("WAV2ATM V" + version)
	fmt.Println()
	fmt.Println("Produces an .ATM file image of an atom program in WAV form.")
	fmt.Println("WAVs should be 16 bit, mono. Programs should be BASIC, SAVEd")
	fmt.Println()
	fmt.Println("Usage: wav2atm wavfile[.wav] [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println()
	fmt.Println("out=     Specify output name. Optional, defaults to <infile>.atm")
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

	inName := args[0]
	in, err := os.Open(inName)
	if err != nil {
		in, err = os.Open(inName + ".wav")
		if err != nil {
			fmt.Printf("Invalid input file %s.\n", args[0])
			return 1
		}
		inName += ".wav"
	}
	defer in.Close()

	outName, ok := c.String("out")
	if !ok {
		outName = inName + ".atm"
	}

	meta, samples, err := wav.NewReader(in).ReadSamples()
	if err != nil {
		fmt.Println(err)
		return 1
	}
	if meta.BitDepth != 16 || meta.Channels != 1 {
		fmt.Println("Wav should be mono, 16 bit please.")
		return 1
	}

	a := kansascity.NewAnalyser(samples, meta.SampleRate)
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
