// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ledctl

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"
)

// TickPeriod is the control loop period.
const TickPeriod = 5 * time.Millisecond

// DefaultQueueLen is the event queue length used when none is given.
const DefaultQueueLen = 16

// Config is a Controller configuration.
type Config struct {
	// Driver is the output pin hardware. It is required.
	Driver Driver
	// Advertiser restarts advertising after a lost link. It is required.
	Advertiser Advertiser

	// Queue carries radio notifications to the control loop. If nil
	// a queue of DefaultQueueLen is created.
	Queue *Queue

	// PWM is the sine wave PWM configuration. DefaultPWM is used if
	// it is the zero value.
	PWM PWMConfig

	// Now returns the monotonic time since boot. If nil the time since
	// New was called is used.
	Now func() time.Duration

	// AfterTick is called by Run after each tick with the current
	// status.
	AfterTick func(Status)

	Log *slog.Logger
}

// Controller runs the control loop.
type Controller struct {
	State State

	queue  *Queue
	out    *Output
	gen    *Generator
	link   *Link
	status *Reporter

	now       func() time.Duration
	afterTick func(Status)

	log *slog.Logger
}

// New returns a Controller. The output is configured as a digital output
// held low.
func New(cfg Config) (*Controller, error) {
	if cfg.Driver == nil {
		return nil, errors.New("missing output driver")
	}
	if cfg.Advertiser == nil {
		return nil, errors.New("missing advertiser")
	}
	if cfg.Queue == nil {
		cfg.Queue = NewQueue(DefaultQueueLen)
	}
	if cfg.PWM == (PWMConfig{}) {
		cfg.PWM = DefaultPWM
	}
	if cfg.Now == nil {
		boot := time.Now()
		cfg.Now = func() time.Duration { return time.Since(boot) }
	}
	if cfg.Log == nil {
		cfg.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	out, err := NewOutput(cfg.Driver, cfg.PWM)
	if err != nil {
		return nil, err
	}
	c := &Controller{
		queue:     cfg.Queue,
		out:       out,
		gen:       NewGenerator(out),
		now:       cfg.Now,
		afterTick: cfg.AfterTick,
		log:       cfg.Log,
	}
	c.link = NewLink(&c.State, cfg.Advertiser, cfg.Log)
	c.status = NewReporter(&c.State, cfg.Log)
	return c, nil
}

// Handler returns the notification handler for the radio layer.
func (c *Controller) Handler() Handler { return NewHandler(c.queue) }

// Run ticks the controller every TickPeriod until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		c.Tick(ctx, c.now())
		if c.afterTick != nil {
			c.afterTick(c.State.Snapshot())
		}
		time.Sleep(TickPeriod)
	}
}

// Tick performs one control loop iteration at t since boot. Pending
// notifications are applied first, then the output is updated, the link
// is checked and the status is reported.
func (c *Controller) Tick(ctx context.Context, t time.Duration) {
	dropped := c.queue.Drain(func(e Event) {
		switch e.Kind {
		case LinkChange:
			c.link.Changed(ctx, e.Connected)
		case DataReceived:
			c.command(ctx, e.Payload())
		}
	})
	if dropped != 0 {
		c.log.LogAttrs(ctx, slog.LevelWarn, "dropped events", slog.Uint64("n", uint64(dropped)))
	}

	err := c.gen.Tick(t, c.State.Mode(), c.State.Manual())
	if err != nil {
		c.log.LogAttrs(ctx, slog.LevelError, "output", slog.Any("err", err))
	}
	c.link.Tick(ctx, t)
	c.status.Tick(ctx, t)
}

func (c *Controller) command(ctx context.Context, p []byte) {
	c.log.LogAttrs(ctx, slog.LevelInfo, "received", slog.Any("data", textAttr(p)))
	cmd := Decode(p)
	if !c.State.Apply(cmd) {
		return
	}
	c.log.LogAttrs(ctx, slog.LevelInfo, "command", slog.String("cmd", cmd.String()), slog.Any("status", c.State.Snapshot()))
}

// Drive returns the current output drive configuration.
func (c *Controller) Drive() Drive { return c.out.Drive() }
