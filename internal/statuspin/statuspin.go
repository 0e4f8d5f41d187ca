/*
NAME
  statuspin.go

DESCRIPTION
  statuspin.go drives a single GPIO output pin as a pass/fail indicator
  for unattended conversions, for use on a Raspberry Pi running
  tapewatch headless.

AUTHOR
  Charlie Robson <charlie_robson@hotmail.com>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package statuspin drives a GPIO pin as a simple success/failure
// indicator light, the way cmd/speaker drives its amplifier over I2C.
package statuspin

import (
	"github.com/kidoman/embd"
	_ "github.com/kidoman/embd/host/rpi"
)

// Pin wraps a single embd digital output pin.
type Pin struct {
	pin embd.DigitalPin
}

// Open initialises the embd GPIO subsystem and acquires pin number num
// as a digital output, driven low initially.
func Open(num int) (*Pin, error) {
	if err := embd.InitGPIO(); err != nil {
		return nil, err
	}

	dp, err := embd.NewDigitalPin(num)
	if err != nil {
		embd.CloseGPIO()
		return nil, err
	}
	if err := dp.SetDirection(embd.Out); err != nil {
		embd.CloseGPIO()
		return nil, err
	}
	if err := dp.Write(embd.Low); err != nil {
		embd.CloseGPIO()
		return nil, err
	}

	return &Pin{pin: dp}, nil
}

// Success drives the pin high to indicate a successful conversion. It
// only sets the level; the pin stays high until the next call.
func (p *Pin) Success() error { return p.pin.Write(embd.High) }

// Failure drives the pin low, the idle/failure state.
func (p *Pin) Failure() error { return p.pin.Write(embd.Low) }

// Close releases the pin and shuts down the GPIO subsystem.
func (p *Pin) Close() error {
	err := p.pin.Write(embd.Low)
	embd.CloseGPIO()
	return err
}
