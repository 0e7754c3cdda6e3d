// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ledctl

import "fmt"

// Drive is the configuration an output pin is driven with.
type Drive uint8

const (
	DigitalDrive Drive = iota
	PWMDrive
)

func (d Drive) String() string {
	switch d {
	case DigitalDrive:
		return "digital"
	case PWMDrive:
		return "pwm"
	default:
		return fmt.Sprintf("Drive(%d)", d)
	}
}

// PWMConfig is a PWM channel configuration.
type PWMConfig struct {
	Channel    uint8
	Frequency  uint32 // Carrier frequency in Hz.
	Resolution uint8  // Duty resolution in bits.
}

// Max returns the largest duty value for the configured resolution.
func (c PWMConfig) Max() uint32 { return 1<<c.Resolution - 1 }

// Driver is the hardware behind an Output. Digital and PWM drive are
// exclusive owners of the pin; Output guarantees a PWM attachment is
// detached before the pin is reconfigured as a digital output.
type Driver interface {
	// ConfigureDigital configures the pin as a digital output.
	ConfigureDigital() error
	// Set sets the digital output level.
	Set(high bool)

	// AttachPWM configures the PWM channel and attaches it to the pin.
	AttachPWM(PWMConfig) error
	// DetachPWM detaches the PWM channel from the pin.
	DetachPWM() error
	// SetDuty sets the PWM duty.
	SetDuty(duty uint32)
}

// Output is a single pin driven either as a digital level or as a PWM
// channel. It tracks the current drive so that repeated requests for the
// same drive do not touch the hardware configuration.
type Output struct {
	drv   Driver
	pwm   PWMConfig
	drive Drive
}

// NewOutput returns an Output using drv, configured as a digital output
// held low. The PWM configuration is used whenever duty is written.
func NewOutput(drv Driver, pwm PWMConfig) (*Output, error) {
	err := drv.ConfigureDigital()
	if err != nil {
		return nil, fmt.Errorf("configure digital output: %w", err)
	}
	drv.Set(false)
	return &Output{drv: drv, pwm: pwm, drive: DigitalDrive}, nil
}

// Drive returns the current drive configuration.
func (o *Output) Drive() Drive { return o.drive }

// SetLevel drives the pin to the given digital level, detaching PWM
// first if it is attached.
func (o *Output) SetLevel(high bool) error {
	if o.drive != DigitalDrive {
		err := o.drv.DetachPWM()
		if err != nil {
			return fmt.Errorf("detach pwm: %w", err)
		}
		// The pin no longer has an owner until it is reconfigured.
		err = o.drv.ConfigureDigital()
		if err != nil {
			return fmt.Errorf("configure digital output: %w", err)
		}
		o.drive = DigitalDrive
	}
	o.drv.Set(high)
	return nil
}

// SetDuty writes duty to the PWM channel, attaching it first if the pin
// is in digital drive. Duty values above the resolution are clamped.
func (o *Output) SetDuty(duty uint32) error {
	if o.drive != PWMDrive {
		err := o.drv.AttachPWM(o.pwm)
		if err != nil {
			return fmt.Errorf("attach pwm: %w", err)
		}
		o.drive = PWMDrive
	}
	o.drv.SetDuty(min(duty, o.pwm.Max()))
	return nil
}
