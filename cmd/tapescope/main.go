/*
NAME
  tapescope

DESCRIPTION
  tapescope renders diagnostic plots of a captured cassette WAV: its
  zero-crossing cycle-period trace, and optionally a spectrogram, to
  help diagnose a recording that wav2atm fails to decode. It is
  read-only against its input and never fails the usual conversion-tool
  exit-code contract.

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
	"strings"

	"github.com/charlierobson/atom-tools/codec/kansascity"
	"github.com/charlierobson/atom-tools/container/wav"
	"github.com/charlierobson/atom-tools/internal/argcrack"
	"github.com/charlierobson/atom-tools/internal/tapescope"
)

const version = "1.0.0"

func usage() {
	fmt.Println("TAPESCOPE V" + version)
	fmt.Println()
	fmt.Println("Plots the cycle-period trace of a cassette recording, for diagnosing")
	fmt.Println("a WAV that wav2atm fails to decode.")
	fmt.Println()
	fmt.Println("Usage: tapescope wavfile[.wav] [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println()
	fmt.Println("out=  Output image path. Optional, defaults to plot.png")
	fmt.Println("fft   Also render a spectrogram, saved alongside out= as -fft.png")
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
		outName = "plot.png"
	}

	meta, samples, err := wav.NewReader(in).ReadSamples()
	if err != nil {
		fmt.Println(err)
		return 1
	}

	a := kansascity.NewAnalyser(samples, meta.SampleRate)
	cycles := a.CycleLengths()

	if err := tapescope.PeriodTrace(cycles, a.AverageSamplesPerCycle(), outName); err != nil {
		fmt.Println("Could not render period trace:", err)
	} else {
		fmt.Println("Wrote", outName)
	}

	if c.Present("fft") {
		fftName := strings.TrimSuffix(outName, ".png") + "-fft.png"
		if err := tapescope.Spectrogram(samples, meta.SampleRate, fftName); err != nil {
			fmt.Println("Could not render spectrogram:", err)
		} else {
			fmt.Println("Wrote", fftName)
		}
	}

	return 0
}
