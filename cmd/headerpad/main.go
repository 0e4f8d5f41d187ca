/*
NAME
  headerpad

DESCRIPTION
  headerpad inflates, deflates or strips the header of an ATM format
  file.

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
	"github.com/charlierobson/atom-tools/internal/argcrack"
)

const version = "1.1.0"

func usage() {
	fmt.Println("HEADERPAD V" + version)
	fmt.Println()
	fmt.Println("Inflate, deflate or remove a header from an ATM format file.")
	fmt.Println()
	fmt.Println("Usage: headerpad infile outfile [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println()
	fmt.Println("I  Inflate a small header (default)")
	fmt.Println("D  Deflate a large header")
	fmt.Println("R  Remove header completely")
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	c := argcrack.New(args)
	if len(args) < 2 || c.Present("/?") || c.Present("-?") || c.Present("?") {
		usage()
		return 1
	}

	action := 0
	if c.Present("I") {
		action++
	}
	if c.Present("D") {
		action++
	}
	if c.Present("R") {
		action++
	}
	if action > 1 {
		fmt.Println("Make your mind up!")
		return 1
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Printf("Invalid input file %s.\n", args[0])
		return 1
	}

	mode := atm.Inflate
	switch {
	case c.Present("D"):
		mode = atm.Deflate
	case c.Present("R"):
		mode = atm.Remove
	}

	out, err := atm.Pad(data, mode)
	if err != nil {
		fmt.Println(err)
		return 1
	}

	if err := os.WriteFile(args[1], out, 0o644); err != nil {
		fmt.Printf("Invalid output file %s.\n", args[1])
		return 1
	}

	return 0
}
