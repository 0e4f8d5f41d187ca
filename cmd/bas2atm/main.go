/*
NAME
  bas2atm

DESCRIPTION
  bas2atm tokenises a plain text Atom BASIC listing into an ATM-wrapped
  program file.

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
	"path/filepath"

	"github.com/charlierobson/atom-tools/codec/atm"
	"github.com/charlierobson/atom-tools/codec/basic"
	"github.com/charlierobson/atom-tools/internal/argcrack"
	"github.com/charlierobson/atom-tools/internal/nameconv"
)

const version = "1.0.0"

const (
	defaultLoad = 0x2900
	defaultExec = 0xC2B2
)

func usage() {
	fmt.Println("BAS2ATM V" + version)
	fmt.Println()
	fmt.Println("Tokenises a text BASIC listing into an ATM-wrapped program file.")
	fmt.Println()
	fmt.Println("Usage: bas2atm basfile[.bas] [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println()
	fmt.Println("out=   Output filename. Optional, defaults to <infile>.atm")
	fmt.Println("name=  Program name stored in the ATM header. Optional, defaults to")
	fmt.Println("       the input filename stem.")
	fmt.Println("auto   Ignore line numbers in the listing and auto-number instead.")
	fmt.Println("upper  Force tokens to upper-case (except ^-escaped characters).")
	fmt.Println("load=  Load address override. Optional, defaults to #2900")
	fmt.Println("exec=  Exec address override. Optional, defaults to #C2B2")
	fmt.Println("pad    Write a 512-byte (AtoMMC) large-form header instead of small.")
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
	text, err := os.ReadFile(inName)
	if err != nil {
		text, err = os.ReadFile(inName + ".bas")
		if err != nil {
			fmt.Printf("Invalid input file %s.\n", args[0])
			return 1
		}
		inName += ".bas"
	}

	outName, ok := c.String("out")
	if !ok {
		outName = inName + ".atm"
	}

	name, ok := c.String("name")
	if !ok {
		name = nameconv.PCToAtom(filepath.Base(inName))
	}

	load := defaultLoad
	if v, ok := c.Int("load"); ok {
		load = v
	}
	exec := defaultExec
	if v, ok := c.Int("exec"); ok {
		exec = v
	}

	payload, err := basic.Encode(string(text), basic.EncodeOptions{
		AutoNumber: c.Present("auto"),
		AutoUpper:  c.Present("upper"),
	})
	if err != nil {
		fmt.Println(err)
		return 1
	}

	f := atm.WrapBinary(payload, uint16(load), uint16(exec), name)
	out := atm.Write(f, atm.SmallForm)
	if c.Present("pad") {
		out, err = atm.Pad(out, atm.Inflate)
		if err != nil {
			fmt.Println(err)
			return 1
		}
	}

	if err := os.WriteFile(outName, out, 0o644); err != nil {
		fmt.Println(err)
		return 1
	}

	fmt.Printf("Wrote %s (%q, %d bytes)\n", outName, name, len(payload))
	return 0
}
