/*
NAME
  bin2atm

DESCRIPTION
  bin2atm wraps a raw binary/machine-code file in an ATM container.

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
	"strings"

	"github.com/charlierobson/atom-tools/codec/atm"
	"github.com/charlierobson/atom-tools/internal/argcrack"
)

const version = "1.1.0"

func usage() {
	fmt.Println("BIN2ATM V" + version)
	fmt.Println()
	fmt.Println("Produces an ATM format file from a binary file containing data.")
	fmt.Println()
	fmt.Println("Usage: bin2atm binaryfile[.bin] load=<address> [options]")
	fmt.Println()
	fmt.Println("out=   Output file name. Optional, defaults to <infile>.atm.")
	fmt.Println("load=  Load address. Mandatory.")
	fmt.Println("exec=  Execution address. Optional, defaults to load address.")
	fmt.Println("name=  Specify atom format name. Optional, built from <infile>.")
	fmt.Println("pad    Create a file with 512 byte header, ready for ATOMMC.")
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// pc2atom derives an Atom-style program name from a PC filename: the
// stem, upper-cased and capped at 13 characters.
func pc2atom(name string) string {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if len(stem) > 13 {
		stem = stem[:13]
	}
	return strings.ToUpper(stem)
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
		data, err = os.ReadFile(inName + ".bin")
		if err != nil {
			fmt.Printf("Invalid input file %s.\n", args[0])
			return 1
		}
		inName += ".bin"
	}

	outName, ok := c.String("out")
	if !ok {
		outName = inName + ".atm"
	}

	load, ok := c.Int("load")
	if !ok {
		fmt.Println("Mandatory option not set: Load address.")
		return 1
	}

	exec, ok := c.Int("exec")
	if !ok {
		exec = load
		fmt.Println("Defaulting execution address to load address.")
	}

	name, ok := c.String("name")
	if !ok {
		name = pc2atom(inName)
	}

	f := atm.WrapBinary(data, uint16(load), uint16(exec), name)
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

	fmt.Printf("Written Atom program '%s' as %s.\n", name, outName)
	return 0
}
