/*
NAME
  basic.go

DESCRIPTION
  basic.go converts between an ATM payload holding a tokenised-but-ASCII
  Atom BASIC program and plain text: each line is stored as 0x0D,
  big-endian line number, line text, with the program terminated by
  0x0D followed by a byte greater than 127.

AUTHOR
  Charlie Robson <charlie_robson@hotmail.com>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package basic converts Acorn Atom BASIC programs between their ATM
// payload encoding and plain listing text.
package basic

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// Execution addresses a genuine BASIC program is expected to carry; these
// are the Atom's two known BASIC interpreter entry points.
const (
	ExecAddrStandard = 0xC2B2
	ExecAddrAlternate = 0xCE86
)

var (
	ErrBadExecAddress  = errors.New("execution address is not a recognised BASIC entry point")
	ErrMissingEOL      = errors.New("missing line terminator")
	ErrTruncatedLine   = errors.New("line truncated before its terminator")
	ErrBadLineNumber   = errors.New("could not parse line number")
)

// Line is one decoded BASIC program line.
type Line struct {
	Number int
	Text   string
}

// Program is a fully decoded BASIC payload: its lines, plus any trailing
// bytes found after the program's terminator (many archived programs
// carry extra data there).
type Program struct {
	Lines []Line
	Extra []byte
}

// Decode parses an ATM payload as a BASIC program. If checkExec is true,
// exec is validated against the known BASIC entry points first.
func Decode(payload []byte, exec uint16, checkExec bool) (Program, error) {
	if checkExec && exec != ExecAddrStandard && exec != ExecAddrAlternate {
		return Program{}, errors.Wrapf(ErrBadExecAddress, "exec=%#04x", exec)
	}

	pos := 0
	end := len(payload)
	var lines []Line

	for {
		if pos >= end || payload[pos] != 0x0D {
			return Program{}, errors.Wrapf(ErrMissingEOL, "at offset %d", pos)
		}
		pos++

		if pos >= end {
			return Program{}, errors.Wrap(ErrTruncatedLine, "end of payload after terminator")
		}
		if payload[pos] > 127 {
			pos++
			break
		}
		if pos+1 >= end {
			return Program{}, errors.Wrap(ErrTruncatedLine, "truncated line number")
		}

		lineNum := int(payload[pos])*256 + int(payload[pos+1])
		pos += 2

		start := pos
		for pos < end && payload[pos] != 0x0D {
			pos++
		}
		if pos == end {
			return Program{}, errors.Wrap(ErrTruncatedLine, "no terminator before end of payload")
		}

		lines = append(lines, Line{Number: lineNum, Text: string(payload[start:pos])})
	}

	return Program{Lines: lines, Extra: payload[pos:]}, nil
}

// Format renders p as a plain-text listing, one line per program line. If
// dumpExtra is set and p has trailing bytes, they're appended as a
// "~~ Extra bytes" hex dump, 16 bytes per line.
func Format(p Program, dumpExtra bool) string {
	var b strings.Builder
	for _, l := range p.Lines {
		fmt.Fprintf(&b, "%d%s\n", l.Number, l.Text)
	}

	if dumpExtra && len(p.Extra) > 0 {
		b.WriteString("~~ Extra bytes")
		for i, by := range p.Extra {
			if i%16 == 0 {
				b.WriteString("\n~~")
			}
			fmt.Fprintf(&b, "%02X", by)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// EncodeOptions controls how Encode turns listing text back into a BASIC
// payload.
type EncodeOptions struct {
	// AutoNumber ignores any line numbers present in the text and
	// generates them instead, starting at StartLine and counting by Step.
	AutoNumber bool
	// AutoUpper upper-cases every character as it's encoded, except
	// characters escaped with '^' (which are instead forced lower-case -
	// the Atom's convention for inverse-video label characters).
	AutoUpper bool
	// StartLine is the first generated line number; zero means 10.
	StartLine int
	// Step is the increment between generated line numbers; zero means
	// 10.
	Step int
}

// Encode converts listing text back into an ATM-ready BASIC payload.
// Soft comments introduced by "~~" are discarded, as is surrounding
// whitespace on each line; blank lines are skipped entirely.
func Encode(text string, opts EncodeOptions) ([]byte, error) {
	startLine := opts.StartLine
	if startLine == 0 {
		startLine = 10
	}
	step := opts.Step
	if step == 0 {
		step = 10
	}
	lineNum := startLine

	var out bytes.Buffer
	scanner := bufio.NewScanner(strings.NewReader(text))
	srcLineNum := 0

	for scanner.Scan() {
		srcLineNum++
		line := scanner.Text()

		if idx := strings.Index(line, "~~"); idx != -1 {
			line = line[:idx]
		}
		line = strings.TrimFunc(line, func(r rune) bool {
			return r == ' ' || r == '\t' || r == '\r' || r == '\n'
		})
		if line == "" {
			continue
		}

		chars := line
		if !opts.AutoNumber {
			n, rest, ok := parseLeadingInt(chars)
			if !ok {
				return nil, errors.Wrapf(ErrBadLineNumber, "source line %d: %q", srcLineNum, line)
			}
			lineNum = n
			chars = rest
		}

		out.WriteByte(0x0D)
		out.WriteByte(byte((lineNum >> 8) & 0xff))
		out.WriteByte(byte(lineNum & 0xff))
		lineNum += step

		runes := []rune(chars)
		for i := 0; i < len(runes); i++ {
			c := runes[i]
			if opts.AutoUpper {
				c = unicode.ToUpper(c)
			}
			if c == '^' {
				i++
				if i < len(runes) {
					c = unicode.ToLower(runes[i])
				}
			}
			out.WriteByte(byte(c))
		}
	}

	out.WriteByte(0x0D)
	out.WriteByte(0xFF)
	return out.Bytes(), nil
}

// parseLeadingInt reads an optional sign and a run of decimal digits from
// the start of s (after skipping leading spaces/tabs), returning the
// parsed value, the remainder of s, and whether a number was found at
// all.
func parseLeadingInt(s string) (int, string, bool) {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digitsStart := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == digitsStart {
		return 0, s, false
	}
	n, err := strconv.Atoi(s[start:i])
	if err != nil {
		return 0, s, false
	}
	return n, s[i:], true
}
