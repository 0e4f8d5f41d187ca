/*
NAME
  atm2flac

DESCRIPTION
  atm2flac converts an ATM program file to a FLAC file holding its
  cassette audio encoding: a smaller archival alternative to atm2wav's
  uncompressed WAV output.

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
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/charlierobson/atom-tools/codec/atm"
	"github.com/charlierobson/atom-tools/codec/kansascity"
	"github.com/charlierobson/atom-tools/codec/tape"
	"github.com/charlierobson/atom-tools/container/flac"
	"github.com/charlierobson/atom-tools/internal/argcrack"
)

const version = "1.0.0"

func usage() {
	fmt.Println("ATM2FLAC V" + version)
	fmt.Println()
	fmt.Println("Produces a FLAC file representing a cassette image of the supplied ATM.")
	fmt.Println()
	fmt.Println("Usage: atm2flac atmfile[.atm] [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println()
	fmt.Println("out=     Output filename. Optional, defaults to <infile>.flac")
	fmt.Println("unnamed  Save as unnamed file.")
	fmt.Println("short    Short headers - 3 sec. instead of 5, reduced inter-block gap.")
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
	data, err := os.ReadFile(inName)
	if err != nil {
		data, err = os.ReadFile(inName + ".atm")
		if err != nil {
			fmt.Printf("Invalid input file %s.\n", args[0])
			return 1
		}
		inName += ".atm"
	}

	outName, ok := c.String("out")
	if !ok {
		outName = inName + ".flac"
	}

	f, err := atm.Read(data)
	if err != nil {
		fmt.Println(err)
		return 1
	}

	var pcm bytes.Buffer
	enc := tape.NewEncoder(&pcm, kansascity.NewToneTable(), kansascity.Format16)
	opts := tape.Options{ShortHeaders: c.Present("short"), Unnamed: c.Present("unnamed")}
	if err := enc.Encode(f, opts); err != nil {
		fmt.Println("Failed to encode tape audio:", err)
		return 1
	}

	samples := make([]int16, pcm.Len()/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(pcm.Bytes()[i*2:]))
	}

	out, err := os.Create(outName)
	if err != nil {
		fmt.Printf("Invalid output file %s\n", outName)
		return 1
	}
	defer out.Close()

	if err := flac.Encode(out, kansascity.SampleRate, samples); err != nil {
		fmt.Println(err)
		os.Remove(outName)
		return 1
	}

	fmt.Printf("Wrote %s (%d samples)\n", outName, len(samples))
	return 0
}
