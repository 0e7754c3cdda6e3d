// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ledctl

import (
	"context"
	"log/slog"
	"time"
)

// SettleDelay is the time between losing a link and restarting
// advertising.
const SettleDelay = 500 * time.Millisecond

// Advertiser starts wireless advertising.
type Advertiser interface {
	Start() error
}

// Link tracks the link state and re-arms advertising after a peer
// disconnects.
type Link struct {
	state *State
	adv   Advertiser
	log   *slog.Logger

	settle time.Duration

	// was is the link state last acted on.
	was bool
	// pending is whether a restart is waiting for deadline.
	pending  bool
	deadline time.Duration
}

// NewLink returns a Link recording link state in state and restarting
// advertising with adv.
func NewLink(state *State, adv Advertiser, log *slog.Logger) *Link {
	return &Link{state: state, adv: adv, log: log, settle: SettleDelay}
}

// Changed records a link state notification. Advertising is not touched
// here; a lost link is handled by a later Tick.
func (l *Link) Changed(ctx context.Context, connected bool) {
	if l.state.Connected() == connected {
		return
	}
	l.state.setConnected(connected)
	if connected {
		// Mark here so that a link dropped before the next
		// tick still re-arms advertising.
		l.was = true
		l.log.LogAttrs(ctx, slog.LevelInfo, "device connected")
	} else {
		l.log.LogAttrs(ctx, slog.LevelInfo, "device disconnected")
	}
}

// Tick checks for a lost link at t since boot. A link lost since the
// last restart causes exactly one advertising restart once the settle
// delay has passed. Restart failures are logged and not retried.
func (l *Link) Tick(ctx context.Context, t time.Duration) {
	connected := l.state.Connected()
	switch {
	case connected:
		// A reconnect within the settle delay cancels the restart.
		l.pending = false
		l.was = true
	case l.was && !l.pending:
		l.pending = true
		l.deadline = t + l.settle
	case l.was && t >= l.deadline:
		l.pending = false
		l.was = false
		l.log.LogAttrs(ctx, slog.LevelInfo, "restart advertising")
		err := l.adv.Start()
		if err != nil {
			l.log.LogAttrs(ctx, slog.LevelError, "restart advertising", slog.Any("err", err))
		}
	}
}
