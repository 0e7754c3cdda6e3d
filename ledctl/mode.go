// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ledctl implements the mode-driven output control for a single
// LED bank pin commanded over a wireless link.
package ledctl

import "strconv"

// Mode is an output generation mode.
type Mode uint32

const (
	Manual     Mode = iota // Output follows the manual toggle.
	SquareWave             // 1 Hz digital square wave.
	SineWave               // 1 Hz PWM sine wave.
)

func (m Mode) String() string {
	switch m {
	case Manual:
		return "manual"
	case SquareWave:
		return "square"
	case SineWave:
		return "sine"
	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// Command is a remote command.
type Command byte

const (
	None Command = iota
	ToggleManual
	SelectSquareWave
	SelectSineWave
)

// Decode returns the command encoded in the first byte of p. Any further
// bytes are ignored. Unknown and empty payloads decode to None.
func Decode(p []byte) Command {
	if len(p) == 0 {
		return None
	}
	switch p[0] {
	case '1':
		return ToggleManual
	case '2':
		return SelectSquareWave
	case '3':
		return SelectSineWave
	default:
		return None
	}
}

func (c Command) String() string {
	switch c {
	case None:
		return "none"
	case ToggleManual:
		return "toggle"
	case SelectSquareWave:
		return "square"
	case SelectSineWave:
		return "sine"
	default:
		return "Command(" + strconv.Itoa(int(c)) + ")"
	}
}
