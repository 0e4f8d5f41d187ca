/*
NAME
  atm2wav

DESCRIPTION
  atm2wav converts an ATM program file to a WAV file representing its
  cassette audio encoding: 44.1kHz, 16-bit, mono.

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
	fmt.Println("ATM2WAV V" + version)
	fmt.Println()
	fmt.Println("Produces a WAV representing a cassette image of the supplied ATM.")
	fmt.Println("WAV will be 44.1kHz, 16 bit, mono.")
	fmt.Println()
	fmt.Println("Usage: atm2wav atmfile[.atm] [options]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr, "out=     Output filename. Optional, defaults to <infile>.wav")
	fmt.Fprintln(os.Stderr, "unnamed  Save as unnamed file.")
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
		outName = inName + ".wav"
	}

	f, err := atm.Read(data)
	if err != nil {
		fmt.Println(err)
		return 1
	}

	out, err := os.Create(outName)
	if err != nil {
		fmt.Printf("Invalid output file %s\n", outName)
		return 1
	}
	defer out.Close()

	writer, err := wav.NewWriter(out, wav.Metadata{Channels: 1, SampleRate: kansascity.SampleRate, BitDepth: 16})
	if err != nil {
		fmt.Println(err)
		os.Remove(outName)
		return 1
	}

	enc := tape.NewEncoder(writer, kansascity.NewToneTable(), kansascity.Format16)
	opts := tape.Options{ShortHeaders: c.Present("short"), Unnamed: c.Present("unnamed")}

	if err := enc.Encode(f, opts); err != nil {
		fmt.Println("Failed to write WAV:", err)
		out.Close()
		os.Remove(outName)
		return 1
	}

	if err := writer.Close(); err != nil {
		fmt.Println(err)
		return 1
	}

	fmt.Printf("Wrote %s (%s form)\n", outName, formName(opts))
	return 0
}

func formName(opts tape.Options) string {
	if opts.Unnamed {
		return "unnamed"
	}
	return "named"
}
