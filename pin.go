// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"machine"
	"time"

	"github.com/kortschak/ledwave/ledctl"
)

// pwmGroup is the subset of a machine PWM peripheral used for the
// output pin. machine's PWM slice types are unexported.
type pwmGroup interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// pinDriver is the ledctl.Driver for a GPIO pin on a PWM slice.
type pinDriver struct {
	pin machine.Pin
	pwm pwmGroup

	ch  uint8
	max uint32
}

func (d *pinDriver) ConfigureDigital() error {
	// Configuring as an output returns the pin to the SIO function,
	// releasing it from the PWM slice.
	d.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return nil
}

func (d *pinDriver) Set(high bool) { d.pin.Set(high) }

func (d *pinDriver) AttachPWM(cfg ledctl.PWMConfig) error {
	if cfg.Frequency == 0 {
		return errors.New("invalid pwm frequency")
	}
	err := d.pwm.Configure(machine.PWMConfig{
		Period: uint64(time.Second) / uint64(cfg.Frequency),
	})
	if err != nil {
		return err
	}
	// The hardware channel is fixed by the pin on the RP2040,
	// so cfg.Channel is not used.
	d.ch, err = d.pwm.Channel(d.pin)
	if err != nil {
		return err
	}
	d.max = cfg.Max()
	return nil
}

func (d *pinDriver) DetachPWM() error {
	d.pwm.Set(d.ch, 0)
	return nil
}

func (d *pinDriver) SetDuty(duty uint32) {
	d.pwm.Set(d.ch, uint32(uint64(d.pwm.Top())*uint64(duty)/uint64(d.max)))
}
