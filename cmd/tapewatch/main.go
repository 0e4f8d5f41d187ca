/*
NAME
  tapewatch

DESCRIPTION
  tapewatch is a long-running daemon that watches a directory for
  dropped .atm files and converts each to a sibling .wav file, for use
  alongside a tape deck or other unattended capture feed.

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
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ausocean/utils/logging"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/charlierobson/atom-tools/internal/argcrack"
	"github.com/charlierobson/atom-tools/internal/statuspin"
	"github.com/charlierobson/atom-tools/internal/tapewatch"
)

const version = "1.0.0"

const (
	pkg          = "tapewatch: "
	defaultLog   = "/var/log/tapewatch/tapewatch.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = true
)

func usage() {
	fmt.Println("TAPEWATCH V" + version)
	fmt.Println()
	fmt.Println("Watches a directory for dropped .atm files and converts each to a")
	fmt.Println("sibling .wav file. Runs until interrupted.")
	fmt.Println()
	fmt.Println("Usage: tapewatch dir=PATH [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println()
	fmt.Println("logfile=  Log file path. Optional, defaults to " + defaultLog)
	fmt.Println("gpio=     GPIO pin number to flash on each conversion's success/failure.")
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	c := argcrack.New(args)
	if c.Present("/?") || c.Present("-?") || c.Present("?") {
		usage()
		return 1
	}

	dir, ok := c.String("dir")
	if !ok {
		usage()
		return 1
	}
	if _, err := os.Stat(dir); err != nil {
		fmt.Printf("Invalid watch directory %s.\n", dir)
		return 1
	}

	logPath := defaultLog
	if v, ok := c.String("logfile"); ok {
		logPath = v
	}
	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	l := logging.New(logVerbosity, io.MultiWriter(os.Stderr, fileLog), logSuppress)

	var pin tapewatch.StatusPin
	if gpio, ok := c.Int("gpio"); ok {
		p, err := statuspin.Open(gpio)
		if err != nil {
			l.Warning(pkg+"could not open status pin, continuing without one", "error", err)
		} else {
			pin = p
			defer p.Close()
		}
	}

	w := tapewatch.New(l, dir, pin)

	stop := make(chan struct{})
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		close(stop)
	}()

	if err := w.Run(stop); err != nil {
		l.Error(pkg+"watcher exited", "error", err)
		return 1
	}

	l.Info(pkg+"stopped", "processed", w.Processed())
	return 0
}
