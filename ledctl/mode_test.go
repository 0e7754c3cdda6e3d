// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ledctl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	for _, test := range []struct {
		in   []byte
		want Command
	}{
		{in: nil, want: None},
		{in: []byte{}, want: None},
		{in: []byte("1"), want: ToggleManual},
		{in: []byte("2"), want: SelectSquareWave},
		{in: []byte("3"), want: SelectSineWave},
		{in: []byte("0"), want: None},
		{in: []byte("4"), want: None},
		{in: []byte{1}, want: None},
		{in: []byte("31"), want: SelectSineWave},
		{in: []byte("x2"), want: None},
	} {
		assert.Equal(t, test.want, Decode(test.in), "Decode(%q)", test.in)
	}
}

func TestUnknownBytesAreNoOp(t *testing.T) {
	for b := range 256 {
		switch b {
		case '1', '2', '3':
			continue
		}
		for _, cmd := range []Command{ToggleManual, SelectSquareWave, SelectSineWave} {
			var s State
			s.Apply(cmd)
			before := s.Snapshot()
			assert.False(t, s.Apply(Decode([]byte{byte(b)})), "byte %#x", b)
			assert.Equal(t, before, s.Snapshot(), "byte %#x", b)
		}
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "manual", Manual.String())
	assert.Equal(t, "square", SquareWave.String())
	assert.Equal(t, "sine", SineWave.String())
	assert.Equal(t, "Mode(7)", Mode(7).String())
}
