// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ledctl

import (
	"log/slog"
	"strings"
	"sync/atomic"
)

// State holds the mode, manual toggle and link state of the device.
// It is written only by the control loop and may be read from any
// goroutine.
type State struct {
	// mode holds the Mode in the low byte and the
	// manual toggle in manualBit so that both are
	// read together.
	mode      atomic.Uint32
	connected atomic.Bool
}

const manualBit = 1 << 8

// Mode returns the active mode.
func (s *State) Mode() Mode { return Mode(s.mode.Load() &^ manualBit) }

// Manual returns the manual toggle. It is retained while other modes
// are active.
func (s *State) Manual() bool { return s.mode.Load()&manualBit != 0 }

// Connected returns whether a peer is connected.
func (s *State) Connected() bool { return s.connected.Load() }

func (s *State) setConnected(ok bool) { s.connected.Store(ok) }

// Apply applies c to the state and reports whether c was a
// recognised command.
func (s *State) Apply(c Command) bool {
	manual := s.mode.Load() & manualBit
	switch c {
	case ToggleManual:
		s.mode.Store(uint32(Manual) | (manual ^ manualBit))
	case SelectSquareWave:
		s.mode.Store(uint32(SquareWave) | manual)
	case SelectSineWave:
		s.mode.Store(uint32(SineWave) | manual)
	default:
		return false
	}
	return true
}

// Snapshot returns the current state. Mode and manual toggle are read
// together, but the link state is read separately and may be from a
// different tick.
func (s *State) Snapshot() Status {
	m := s.mode.Load()
	return Status{
		Connected: s.Connected(),
		Mode:      Mode(m &^ manualBit),
		Manual:    m&manualBit != 0,
	}
}

// Status is a snapshot of the device state.
type Status struct {
	Connected bool
	Mode      Mode
	Manual    bool
}

func (s Status) String() string {
	var buf strings.Builder
	if s.Connected {
		buf.WriteString("connected")
	} else {
		buf.WriteString("disconnected")
	}
	buf.WriteString(" mode=")
	buf.WriteString(s.Mode.String())
	if s.Mode == Manual {
		if s.Manual {
			buf.WriteString(" (on)")
		} else {
			buf.WriteString(" (off)")
		}
	}
	return buf.String()
}

func (s Status) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Bool("connected", s.Connected),
		slog.String("mode", s.Mode.String()),
	}
	if s.Mode == Manual {
		attrs = append(attrs, slog.Bool("on", s.Manual))
	}
	return slog.GroupValue(attrs...)
}
