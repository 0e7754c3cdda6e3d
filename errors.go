// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"math/bits"
	"time"

	"github.com/soypat/cyw43439"
)

// ledError is a boot error with an associated on-board LED flash
// sequence. Codes are:
//
//	1 radio initialisation
//	2 bluetooth service or advertising
//	3 output pin
//	4 watchdog
type ledError struct {
	error
	seq ledSequence
}

// newLedError returns a ledError flashing code n, which should be
// program-unique. Uniqueness is not checked.
func newLedError(n byte, err error) ledError {
	return ledError{error: err, seq: errorSequence(n)}
}

func (e ledError) Unwrap() error            { return e.error }
func (e ledError) ledSequence() ledSequence { return e.seq }

type ledSequencer interface {
	ledSequence() ledSequence
}

// uncaughtPanic is flashed after a panic without a code.
var uncaughtPanic = ledSequence{
	{on: true, duration: 990 * time.Millisecond},
	{on: false, duration: 10 * time.Millisecond},
}

// errorSequence returns the flash sequence for n. Each two-bit group of n,
// most significant first and without leading zero groups, is shown as one
// to four flashes, with a longer gap between groups and a pause at the end.
func errorSequence(n byte) ledSequence {
	const (
		on    = 300 * time.Millisecond
		off   = 250 * time.Millisecond
		group = 500 * time.Millisecond
		pause = 2 * time.Second
	)
	if n == 0 {
		return ledSequence{{on: true, duration: on}, {on: false, duration: pause}}
	}
	skip := bits.LeadingZeros8(n) / 2
	seq := make(ledSequence, 0, 32)
	for i := 3 - skip; i >= 0; i-- {
		count := int(n>>(2*i)&0b11) + 1
		for range count {
			seq = append(seq, ledState{on: true, duration: on}, ledState{on: false, duration: off})
		}
		seq[len(seq)-1].duration = group
	}
	seq[len(seq)-1].duration = pause
	return seq
}

// flash shows seq on the CYW43439 LED.
func flash(dev *cyw43439.Device, seq ledSequence) error {
	for _, state := range seq {
		err := dev.GPIOSet(0, state.on)
		if err != nil {
			return err
		}
		time.Sleep(state.duration)
	}
	return nil
}

// ledSequence is a sequence of LED states.
type ledSequence []ledState

// ledState represents an LED state over a duration.
type ledState struct {
	on       bool
	duration time.Duration
}
