// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ledctl

import (
	"math"
	"time"
)

const (
	// SquarePeriod is the period of the square wave.
	SquarePeriod = time.Second
	// SineFrequency is the frequency of the sine wave in Hz.
	SineFrequency = 1.0

	// PWMFrequency is the PWM carrier frequency in Hz.
	PWMFrequency = 5000
	// PWMResolution is the PWM duty resolution in bits.
	PWMResolution = 8
)

// DefaultPWM is the PWM configuration used for the sine wave.
var DefaultPWM = PWMConfig{Channel: 0, Frequency: PWMFrequency, Resolution: PWMResolution}

// SquareLevel returns the square wave level at t since boot. The wave is
// high for the first half of each period.
func SquareLevel(t time.Duration) bool {
	return t%SquarePeriod < SquarePeriod/2
}

// sinePeriod is the period of the sine wave.
var sinePeriod = time.Duration(float64(time.Second) / SineFrequency)

// SineLevel returns the 8-bit sine wave duty at t since boot. The level
// is rounded half away from zero, so the zero crossings at the start of
// each period give 128.
func SineLevel(t time.Duration) uint8 {
	// Reduce to the phase in integer time so that every period
	// starts at exactly zero however long the device has run.
	angle := (t % sinePeriod).Seconds() * 2 * math.Pi
	return uint8(math.Round((math.Sin(angle) + 1) * 127.5))
}

// Generator computes the output for the active mode on each tick.
type Generator struct {
	out *Output
}

// NewGenerator returns a Generator driving out.
func NewGenerator(out *Output) *Generator {
	return &Generator{out: out}
}

// Tick applies the output for mode at t since boot. manual is the
// manual toggle used in Manual mode. Waveforms are functions of t alone,
// so their phase does not depend on time spent in other modes.
func (g *Generator) Tick(t time.Duration, mode Mode, manual bool) error {
	switch mode {
	case Manual:
		return g.out.SetLevel(manual)
	case SquareWave:
		return g.out.SetLevel(SquareLevel(t))
	case SineWave:
		return g.out.SetDuty(uint32(SineLevel(t)))
	default:
		return nil
	}
}
