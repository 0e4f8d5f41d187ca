/*
NAME
  atmtrunc

DESCRIPTION
  atmtrunc trims an ATM file in place, discarding any stale bytes past
  the size declared by its own header.

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
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		fmt.Println("Usage: atmtrunc [filename]")
		return 1
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Println("Couldn't open file.")
		return 1
	}

	truncated, err := atm.Truncate(data)
	if err != nil {
		fmt.Println(err)
		return 1
	}

	if err := os.WriteFile(args[0], truncated, 0o644); err != nil {
		fmt.Println("Truncation failed.")
		return 1
	}

	fmt.Printf("Truncated to %d (#%04x) bytes.\n", len(truncated), len(truncated))
	return 0
}
