// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ledctl

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const ms = time.Millisecond

func TestLinkRestartAfterSettle(t *testing.T) {
	ctx := context.Background()
	var (
		state State
		adv   fakeAdvertiser
	)
	l := NewLink(&state, &adv, newLogger(nil))

	l.Changed(ctx, true)
	assert.True(t, state.Connected())
	for d := 0 * ms; d < 100*ms; d += 5 * ms {
		l.Tick(ctx, d)
	}
	assert.Zero(t, adv.starts, "advertising restarted while connected")

	l.Changed(ctx, false)
	assert.False(t, state.Connected())
	for d := 100 * ms; d < 600*ms; d += 5 * ms {
		l.Tick(ctx, d)
	}
	assert.Zero(t, adv.starts, "advertising restarted before settle delay")
	l.Tick(ctx, 600*ms)
	assert.Equal(t, 1, adv.starts)

	for d := 605 * ms; d < 5*time.Second; d += 5 * ms {
		l.Tick(ctx, d)
	}
	assert.Equal(t, 1, adv.starts, "advertising restarted more than once")

	// A second cycle re-arms the restart.
	l.Changed(ctx, true)
	l.Tick(ctx, 5*time.Second)
	l.Changed(ctx, false)
	l.Tick(ctx, 6*time.Second)
	l.Tick(ctx, 6*time.Second+499*ms)
	assert.Equal(t, 1, adv.starts)
	l.Tick(ctx, 6*time.Second+500*ms)
	assert.Equal(t, 2, adv.starts)
}

func TestLinkRestartFailureNotRetried(t *testing.T) {
	ctx := context.Background()
	var state State
	adv := fakeAdvertiser{err: errors.New("hci busy")}
	var buf logBuffer
	l := NewLink(&state, &adv, newLogger(&buf))

	l.Changed(ctx, true)
	l.Tick(ctx, 0)
	l.Changed(ctx, false)
	for d := 0 * ms; d < 10*time.Second; d += 5 * ms {
		l.Tick(ctx, d)
	}
	assert.Equal(t, 1, adv.starts)
	assert.Contains(t, buf.String(), "hci busy")
}

func TestLinkReconnectDuringSettle(t *testing.T) {
	ctx := context.Background()
	var (
		state State
		adv   fakeAdvertiser
	)
	l := NewLink(&state, &adv, newLogger(nil))

	l.Changed(ctx, true)
	l.Tick(ctx, 0)
	l.Changed(ctx, false)
	l.Tick(ctx, 100*ms)
	l.Changed(ctx, true)
	for d := 105 * ms; d < 2*time.Second; d += 5 * ms {
		l.Tick(ctx, d)
	}
	assert.Zero(t, adv.starts, "restart while connected")

	l.Changed(ctx, false)
	l.Tick(ctx, 2*time.Second)
	l.Tick(ctx, 2*time.Second+500*ms)
	assert.Equal(t, 1, adv.starts)
}

func TestLinkDroppedBetweenTicks(t *testing.T) {
	ctx := context.Background()
	var (
		state State
		adv   fakeAdvertiser
	)
	l := NewLink(&state, &adv, newLogger(nil))

	l.Changed(ctx, true)
	l.Changed(ctx, false)
	l.Tick(ctx, 0)
	l.Tick(ctx, 500*ms)
	assert.Equal(t, 1, adv.starts)
}

func TestLinkNoRestartWithoutConnection(t *testing.T) {
	ctx := context.Background()
	var (
		state State
		adv   fakeAdvertiser
	)
	l := NewLink(&state, &adv, newLogger(nil))

	l.Changed(ctx, false)
	for d := 0 * ms; d < 2*time.Second; d += 5 * ms {
		l.Tick(ctx, d)
	}
	assert.Zero(t, adv.starts)
}
