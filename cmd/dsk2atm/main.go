/*
NAME
  dsk2atm

DESCRIPTION
  dsk2atm splits an Atom 40-track disk image into its constituent
  programs, written out as ATM format files.

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
	"github.com/charlierobson/atom-tools/codec/dsk"
	"github.com/charlierobson/atom-tools/internal/argcrack"
)

const version = "1.0.0"

func usage() {
	fmt.Println("DSK2ATM V" + version)
	fmt.Println()
	fmt.Println("Produces ATM format files from an atom 40 track disk image.")
	fmt.Println()
	fmt.Println("Usage: dsk2atm diskfile[.dsk] [options]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "mkdir  - put the disk content in a directory named after .dsk file")
	fmt.Fprintln(os.Stderr)
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
		data, err = os.ReadFile(inName + ".dsk")
		if err != nil {
			fmt.Printf("Invalid input file %s.\n", args[0])
			return 1
		}
		inName += ".dsk"
	}

	outDir := "."
	if c.Present("mkdir") {
		outDir = inName
		if pos := strings.IndexByte(outDir, '.'); pos != -1 {
			outDir = outDir[:pos]
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			fmt.Println(err)
			return 1
		}
	}

	entries, err := dsk.Split(data)
	if err != nil {
		fmt.Println(err)
		return 1
	}

	for _, e := range entries {
		outPath := filepath.Join(outDir, e.Name)
		if err := os.WriteFile(outPath, atm.Write(e.File, atm.SmallForm), 0o644); err != nil {
			fmt.Printf("Couldn't write output file: %s.\n", outPath)
			continue
		}
		fmt.Printf("Written Atom program '%s'.\n", e.Name)
		fmt.Printf("%x  %x  %x\n", e.File.Header.Start, e.File.Header.Exec, e.File.Header.Length)
	}

	return 0
}
