/*
NAME
  tap2atm

DESCRIPTION
  tap2atm splits a .TAP file - concatenated small-form ATM records -
  into its constituent .ATM files.

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
	"github.com/charlierobson/atom-tools/codec/tapearchive"
	"github.com/charlierobson/atom-tools/internal/argcrack"
)

const version = "1.0.0"

func usage() {
	fmt.Println("TAP2ATM V" + version)
	fmt.Println()
	fmt.Println("Splits a .TAP file into its constituent .ATM files.")
	fmt.Println()
	fmt.Println("Usage: tap2atm tapfile[.tap] [options]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "mkdir     - Place .atm files in a directory named after the tap file.")
	fmt.Fprintln(os.Stderr, "detailed  - Prefix output names with the source file and record index.")
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
		data, err = os.ReadFile(inName + ".tap")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid input file %s.\n", args[0])
			return 1
		}
		inName += ".tap"
	}

	outDir := "."
	if c.Present("mkdir") {
		outDir = inName
		if pos := strings.LastIndexByte(outDir, '.'); pos != -1 {
			outDir = outDir[:pos]
		}
		outDir = strings.ToLower(outDir)
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			fmt.Println(err)
			return 1
		}
	}

	entries, err := tapearchive.Split(data)
	if err != nil {
		fmt.Println(err)
		return 1
	}

	detailed := c.Present("detailed")
	for n, e := range entries {
		destName := e.CleanName
		if detailed {
			destName = fmt.Sprintf("%s.%d.%s", args[0], n, e.CleanName)
		}

		outPath := filepath.Join(outDir, destName)
		if err := os.WriteFile(outPath, atm.Write(e.File, atm.SmallForm), 0o644); err != nil {
			fmt.Printf("Invalid output file: %s\n", destName)
			continue
		}
		fmt.Println("Written", destName)
	}

	return 0
}
