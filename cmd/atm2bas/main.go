/*
NAME
  atm2bas

DESCRIPTION
  atm2bas converts an ATM-wrapped Atom BASIC program into a plain text
  listing.

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
	"github.com/charlierobson/atom-tools/codec/basic"
	"github.com/charlierobson/atom-tools/internal/argcrack"
)

const version = "1.0.0"

func usage() {
	fmt.Println("ATM2BAS V" + version)
	fmt.Println()
	fmt.Println("Converts an ATM-wrapped Atom BASIC program to a text listing.")
	fmt.Println()
	fmt.Println("Usage: atm2bas atmfile[.atm] [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println()
	fmt.Println("out=        Output filename. Optional, defaults to <infile>.bas")
	fmt.Println("nocheckex   Don't validate the exec address is a known BASIC entry point.")
	fmt.Println("nodumpex    Don't dump trailing bytes found after the program terminator.")
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
		outName = inName + ".bas"
	}

	f, err := atm.Read(data)
	if err != nil {
		fmt.Println(err)
		return 1
	}

	prog, err := basic.Decode(f.Payload, f.Header.Exec, !c.Present("nocheckex"))
	if err != nil {
		fmt.Println(err)
		return 1
	}

	listing := basic.Format(prog, !c.Present("nodumpex"))
	if err := os.WriteFile(outName, []byte(listing), 0o644); err != nil {
		fmt.Println(err)
		return 1
	}

	fmt.Printf("Wrote %s (%d lines)\n", outName, len(prog.Lines))
	return 0
}
