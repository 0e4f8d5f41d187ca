/*
NAME
  tapewatch.go

DESCRIPTION
  tapewatch.go implements an inbox-watching daemon: it watches a
  directory for newly-created .atm files and converts each to a sibling
  .wav file using the same codec pipeline atm2wav's CLI drives, so a tape
  deck or real-hardware feed can simply drop files into a folder.

AUTHOR
  Charlie Robson <charlie_robson@hotmail.com>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package tapewatch watches a directory for dropped ATM files and
// converts each to WAV as it arrives.
package tapewatch

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/coreos/go-systemd/daemon"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/ausocean/utils/logging"

	"github.com/charlierobson/atom-tools/codec/atm"
	"github.com/charlierobson/atom-tools/codec/kansascity"
	"github.com/charlierobson/atom-tools/codec/tape"
	"github.com/charlierobson/atom-tools/container/wav"
)

const pkg = "tapewatch: "

// StatusPin is satisfied by *statuspin.Pin; a separate interface keeps
// tapewatch usable in tests and on hosts with no GPIO hardware.
type StatusPin interface {
	Success() error
	Failure() error
}

// Watcher watches a directory and converts each .atm file dropped into
// it to a sibling .wav file.
type Watcher struct {
	l     logging.Logger
	dir   string
	pin   StatusPin
	table *kansascity.ToneTable

	mu        sync.Mutex
	processed int
}

// New returns a Watcher over dir, logging via l. pin may be nil, in
// which case no GPIO status indication is given.
func New(l logging.Logger, dir string, pin StatusPin) *Watcher {
	return &Watcher{l: l, dir: dir, pin: pin, table: kansascity.NewToneTable()}
}

// Run watches w.dir until stop is closed, converting every .atm file
// that's created inside it. It notifies systemd of readiness once the
// watch is established, and pings the watchdog after every .atm file it
// handles, whether or not that file's conversion succeeded.
func (w *Watcher) Run(stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating fsnotify watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return errors.Wrapf(err, "watching %s", w.dir)
	}

	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		w.l.Debug(pkg + "systemd notification unavailable")
	}
	w.l.Info(pkg+"watching directory", "dir", w.dir)

	for {
		select {
		case <-stop:
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.l.Error(pkg+"watcher error", "error", err.Error())
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".atm") {
				continue
			}
			w.convert(event.Name)
			daemon.SdNotify(false, daemon.SdNotifyWatchdog)
		}
	}
}

// convert reads path, encodes it to a sibling .wav file, and logs/
// flashes status accordingly. Errors are logged, not returned, since a
// single bad file must not take the daemon down.
func (w *Watcher) convert(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		w.fail(path, errors.Wrap(err, "reading file"))
		return
	}

	f, err := atm.Read(data)
	if err != nil {
		w.fail(path, errors.Wrap(err, "parsing ATM container"))
		return
	}

	outPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".wav"
	out, err := os.Create(outPath)
	if err != nil {
		w.fail(path, errors.Wrap(err, "creating output file"))
		return
	}
	defer out.Close()

	writer, err := wav.NewWriter(out, wav.Metadata{Channels: 1, SampleRate: kansascity.SampleRate, BitDepth: 16})
	if err != nil {
		w.fail(path, errors.Wrap(err, "opening WAV writer"))
		return
	}

	enc := tape.NewEncoder(writer, w.table, kansascity.Format16)
	if err := enc.Encode(f, tape.Options{}); err != nil {
		w.fail(path, errors.Wrap(err, "encoding tape audio"))
		return
	}
	if err := writer.Close(); err != nil {
		w.fail(path, errors.Wrap(err, "closing WAV writer"))
		return
	}

	w.mu.Lock()
	w.processed++
	w.mu.Unlock()

	w.l.Info(pkg+"converted file", "in", path, "out", outPath)
	if w.pin != nil {
		if err := w.pin.Success(); err != nil {
			w.l.Warning(pkg+"status pin error", "error", err.Error())
		}
	}
}

func (w *Watcher) fail(path string, err error) {
	w.l.Error(pkg+"conversion failed", "file", path, "error", err.Error())
	if w.pin != nil {
		if perr := w.pin.Failure(); perr != nil {
			w.l.Warning(pkg+"status pin error", "error", perr.Error())
		}
	}
}

// Processed returns the number of files successfully converted so far.
func (w *Watcher) Processed() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.processed
}
