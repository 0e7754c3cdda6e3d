// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ledctl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputDetachFailure(t *testing.T) {
	drv := &fakeDriver{}
	out, err := NewOutput(drv, DefaultPWM)
	require.NoError(t, err)
	require.NoError(t, out.SetDuty(10))
	drv.ops = nil

	drv.detachErr = errors.New("busy")
	err = out.SetLevel(true)
	require.ErrorIs(t, err, drv.detachErr)
	assert.Equal(t, PWMDrive, out.Drive(), "drive changed despite failed detach")
	assert.Zero(t, drv.count("digital"), "pin reconfigured while pwm attached")

	drv.detachErr = nil
	require.NoError(t, out.SetLevel(true))
	assert.Equal(t, []string{"detach", "digital", "set true"}, drv.ops)
	assert.Equal(t, DigitalDrive, out.Drive())
	assert.True(t, drv.level)
}

func TestOutputDutyClamped(t *testing.T) {
	drv := &fakeDriver{}
	out, err := NewOutput(drv, PWMConfig{Frequency: 1000, Resolution: 4})
	require.NoError(t, err)
	require.NoError(t, out.SetDuty(255))
	assert.EqualValues(t, 15, drv.duty)
}

func TestDriveString(t *testing.T) {
	assert.Equal(t, "digital", DigitalDrive.String())
	assert.Equal(t, "pwm", PWMDrive.String())
}
