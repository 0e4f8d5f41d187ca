/*
NAME
  tapescope.go

DESCRIPTION
  tapescope.go renders diagnostic plots of a captured cassette recording:
  the zero-crossing cycle-period trace against the bit-timing
  discriminator, and an optional FFT-based spectrogram, to help diagnose
  a recording that wav2atm fails to decode.

AUTHOR
  Charlie Robson <charlie_robson@hotmail.com>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package tapescope produces diagnostic plots of captured cassette audio,
// re-using the kansascity analyser's period measurement without altering
// its decode semantics.
package tapescope

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PeriodTrace plots cycleLengths (as produced by
// kansascity.Analyser.CycleLengths) as a scatter of cycle index against
// cycle length, with the 1.5x reference-period discriminator drawn as a
// horizontal reference line, and saves it to path.
func PeriodTrace(cycleLengths []int, aspc int, path string) error {
	if len(cycleLengths) == 0 {
		return errors.New("no cycles to plot")
	}

	p := plot.New()
	p.Title.Text = "cassette cycle periods"
	p.X.Label.Text = "cycle index"
	p.Y.Label.Text = "cycle length (samples)"

	pts := make(plotter.XYs, len(cycleLengths))
	for i, n := range cycleLengths {
		pts[i].X = float64(i)
		pts[i].Y = float64(n)
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "creating scatter plot")
	}
	p.Add(scatter)

	threshold := plotter.XYs{
		{X: 0, Y: float64(aspc) * 1.5},
		{X: float64(len(cycleLengths) - 1), Y: float64(aspc) * 1.5},
	}
	line, err := plotter.NewLine(threshold)
	if err != nil {
		return errors.Wrap(err, "creating discriminator line")
	}
	p.Add(line)
	p.Legend.Add("1.5x discriminator", line)

	return p.Save(10*vg.Inch, 6*vg.Inch, path)
}

// Spectrogram computes a windowed FFT magnitude plot of samples and
// saves it to path, purely as a visualisation aid - it plays no part in
// the decode pipeline itself.
func Spectrogram(samples []int16, sampleRate int, path string) error {
	if len(samples) == 0 {
		return errors.New("no samples to plot")
	}

	floats := make([]float64, len(samples))
	for i, s := range samples {
		floats[i] = float64(s) / 32768
	}
	windowed := window.Hamming(floats)
	spectrum := fft.FFTReal(windowed)

	n := len(spectrum) / 2
	p := plot.New()
	p.Title.Text = "spectrum"
	p.X.Label.Text = "frequency (Hz)"
	p.Y.Label.Text = "magnitude"

	pts := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		freq := float64(i) * float64(sampleRate) / float64(len(spectrum))
		mag := cmplxAbs(spectrum[i])
		pts[i].X = freq
		pts[i].Y = mag
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "creating spectrum line")
	}
	p.Add(line)

	return p.Save(10*vg.Inch, 6*vg.Inch, path)
}

func cmplxAbs(c complex128) float64 {
	re, im := real(c), imag(c)
	return math.Sqrt(re*re + im*im)
}

// ReferencePeriod returns the reference samples-per-2400Hz-cycle value
// for sampleRate, the same quantity kansascity.NewAnalyser derives
// internally, exposed here so callers building a plot don't need to
// construct a full Analyser just to read it.
func ReferencePeriod(sampleRate int) int {
	return sampleRate / 2400
}
