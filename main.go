// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The ledwave command is Pico W firmware that drives an LED bank on GP15
// in a manual, square wave or sine wave mode selected over Bluetooth LE.
package main

import (
	"context"
	"io"
	"log/slog"
	"machine"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/soypat/cyw43439"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Let serial port stabilise.
	time.Sleep(time.Second)

	d := device{
		dev: cyw43439.NewPicoWDevice(),
		out: machine.GP15,
		pwm: machine.PWM7, // GP14/GP15 are on PWM slice 7.
	}
	d.level.Set(slog.LevelInfo)
	d.log = slog.New(slog.NewTextHandler(
		io.MultiWriter(machine.Serial, &d.sw),
		&slog.HandlerOptions{
			Level: &d.level,
		},
	))
	d.log.LogAttrs(ctx, slog.LevelInfo, "initialise pico W device")

	defer func() {
		cancel()
		r := recover()
		var seq ledSequence
		switch r := r.(type) {
		case nil:
			return
		case ledSequencer:
			seq = r.ledSequence()
		default:
			seq = uncaughtPanic
		}
		d.log.LogAttrs(ctx, slog.LevelError, "flatline", slog.Any("err", r))
		for {
			machine.Watchdog.Update()
			err := flash(d.dev, seq)
			if err != nil {
				d.log.LogAttrs(ctx, slog.LevelError, "flatline flash", slog.Any("err", err))
			}
		}
	}()

	err := d.init(ctx)
	if err != nil {
		panic(err)
	}

	if useHTTP {
		d.log.LogAttrs(ctx, slog.LevelInfo, "start http server")
		go func() {
			err := d.httpServer(ctx)
			if err != nil {
				d.log.LogAttrs(ctx, slog.LevelError, "http server", slog.Any("err", err))
			}
		}()
	}

	d.log.LogAttrs(ctx, slog.LevelInfo, "start control loop")
	err = d.ctrl.Run(ctx)
	if err != nil && err != context.Canceled {
		panic(err)
	}
}

type switchedWriter struct {
	cw atomic.Pointer[io.Writer]
}

func (w *switchedWriter) Write(p []byte) (int, error) {
	cw := w.cw.Load()
	if cw == nil {
		return len(p), nil
	}
	n, err := (*cw).Write(p)
	if w, ok := (*cw).(http.Flusher); ok {
		w.Flush()
	}
	return n, err
}

func (w *switchedWriter) use(val io.Writer) {
	w.cw.Store(&val)
}

func (w *switchedWriter) close() {
	w.cw.Store(nil)
}
