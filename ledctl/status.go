// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ledctl

import (
	"context"
	"log/slog"
	"time"
)

// StatusPeriod is the interval between status reports.
const StatusPeriod = 2 * time.Second

// Reporter periodically logs the device status.
type Reporter struct {
	state  *State
	log    *slog.Logger
	period time.Duration
	last   time.Duration
}

// NewReporter returns a Reporter logging state to log.
func NewReporter(state *State, log *slog.Logger) *Reporter {
	return &Reporter{state: state, log: log, period: StatusPeriod}
}

// Tick logs the status if a full period has elapsed since the last
// report, and reports whether it did.
func (r *Reporter) Tick(ctx context.Context, t time.Duration) bool {
	if t-r.last < r.period {
		return false
	}
	r.last = t
	r.log.LogAttrs(ctx, slog.LevelInfo, "status", slog.Any("status", r.state.Snapshot()))
	return true
}
