/*
NAME
  argcrack.go

DESCRIPTION
  argcrack.go implements the command-line argument convention used by
  every conversion tool in this module: a leading positional input file
  followed by an unordered mix of bare flags ("short", "unnamed") and
  key=value options ("out=prog.wav", "load=%1010"), matched by
  case-insensitive name prefix rather than Go's stdlib flag package,
  which cannot express this interleaved positional/bare/keyed shape.

AUTHOR
  Charlie Robson <charlie_robson@hotmail.com>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package argcrack parses the key=value / bare-flag command lines shared
// by the atom-tools conversion utilities.
package argcrack

import (
	"strconv"
	"strings"
)

// Cracker scans a flat argument list for named options, matching each
// name against a case-insensitive prefix of each argument - the same
// matching rule the original C++ tools used.
type Cracker struct {
	args []string
}

// New returns a Cracker over args (typically os.Args[1:], including the
// positional input filename - it simply never matches a named lookup).
func New(args []string) *Cracker {
	return &Cracker{args: args}
}

// find returns the argument matching name as a prefix, and the value
// text following it (skipping the assumed '=' separator), or ok=false if
// no argument starts with name.
func (c *Cracker) find(name string) (value string, ok bool) {
	for _, a := range c.args {
		if len(a) < len(name) {
			continue
		}
		if !strings.EqualFold(a[:len(name)], name) {
			continue
		}
		if len(a) == len(name) {
			return "", true
		}
		return a[len(name)+1:], true
	}
	return "", false
}

// Present reports whether any argument starts with name - used for bare
// flags like "short" or "unnamed".
func (c *Cracker) Present(name string) bool {
	_, ok := c.find(name)
	return ok
}

// String returns the value following name= if present. A bare name with
// no value after it reports ok=false.
func (c *Cracker) String(name string) (string, bool) {
	v, ok := c.find(name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Int returns the integer value following name=, parsed with multi-base
// sniffing: a leading '%' selects binary, otherwise Go's base-0 parsing
// applies (0x.. hex, 0.. octal, decimal otherwise) matching the original
// tools' strtol(val, NULL, base) behaviour.
func (c *Cracker) Int(name string) (int, bool) {
	v, ok := c.find(name)
	if !ok || v == "" {
		return 0, false
	}

	base := 0
	if v[0] == '%' {
		base = 2
		v = v[1:]
	}

	n, err := strconv.ParseInt(v, base, 64)
	if err != nil {
		return 0, false
	}
	return int(n), true
}
