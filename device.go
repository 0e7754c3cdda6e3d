// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"log/slog"
	"machine"
	"time"

	"github.com/soypat/cyw43439"

	"github.com/kortschak/ledwave/ledctl"
)

type device struct {
	dev *cyw43439.Device

	out machine.Pin
	pwm pwmGroup

	ctrl *ledctl.Controller
	// linkLED is the last link state shown on the
	// on-board LED. Only used by the control loop.
	linkLED bool

	log   *slog.Logger
	sw    switchedWriter
	level slog.LevelVar
}

func (d *device) init(ctx context.Context) error {
	d.log.LogAttrs(ctx, slog.LevelInfo, "configure pico W device")
	start := time.Now()
	err := d.dev.Init(cyw43439Config)
	if err != nil {
		return newLedError(1, err)
	}
	d.log.LogAttrs(ctx, slog.LevelInfo, "cyw43439 initialised", slog.Duration("duration", time.Since(start)))

	d.log.LogAttrs(ctx, slog.LevelInfo, "configure bluetooth")
	queue := ledctl.NewQueue(ledctl.DefaultQueueLen)
	adv, err := d.bluetoothServer(ctx, ledctl.NewHandler(queue))
	if err != nil {
		return newLedError(2, err)
	}

	d.log.LogAttrs(ctx, slog.LevelInfo, "configure output pin")
	d.ctrl, err = ledctl.New(ledctl.Config{
		Driver:     &pinDriver{pin: d.out, pwm: d.pwm},
		Advertiser: adv,
		Queue:      queue,
		AfterTick:  d.afterTick,
		Log:        d.log,
	})
	if err != nil {
		return newLedError(3, err)
	}

	d.log.LogAttrs(ctx, slog.LevelInfo, "set up watchdog")
	machine.Watchdog.Configure(machine.WatchdogConfig{
		TimeoutMillis: 10000,
	})
	err = machine.Watchdog.Start()
	if err != nil {
		return newLedError(4, err)
	}

	return nil
}

// afterTick feeds the watchdog and mirrors the link state on the
// on-board LED.
func (d *device) afterTick(s ledctl.Status) {
	machine.Watchdog.Update()
	if s.Connected == d.linkLED {
		return
	}
	err := d.dev.GPIOSet(0, s.Connected)
	if err != nil {
		d.log.LogAttrs(context.Background(), slog.LevelError, "link led", slog.Any("err", err))
		return
	}
	d.linkLED = s.Connected
}
