// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ledctl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// fakeDriver records hardware operations.
type fakeDriver struct {
	ops []string

	level    bool
	duty     uint32
	attached bool

	detachErr error
}

func (d *fakeDriver) ConfigureDigital() error {
	if d.attached {
		return errors.New("pin owned by pwm")
	}
	d.ops = append(d.ops, "digital")
	return nil
}

func (d *fakeDriver) Set(high bool) {
	d.level = high
	d.ops = append(d.ops, fmt.Sprintf("set %t", high))
}

func (d *fakeDriver) AttachPWM(cfg PWMConfig) error {
	d.attached = true
	d.ops = append(d.ops, fmt.Sprintf("attach ch=%d f=%d bits=%d", cfg.Channel, cfg.Frequency, cfg.Resolution))
	return nil
}

func (d *fakeDriver) DetachPWM() error {
	if d.detachErr != nil {
		return d.detachErr
	}
	d.attached = false
	d.ops = append(d.ops, "detach")
	return nil
}

func (d *fakeDriver) SetDuty(duty uint32) {
	d.duty = duty
	d.ops = append(d.ops, fmt.Sprintf("duty %d", duty))
}

// count returns the number of recorded operations with the given prefix.
func (d *fakeDriver) count(prefix string) int {
	var n int
	for _, op := range d.ops {
		if strings.HasPrefix(op, prefix) {
			n++
		}
	}
	return n
}

// fakeAdvertiser counts advertising starts.
type fakeAdvertiser struct {
	starts int
	err    error
}

func (a *fakeAdvertiser) Start() error {
	a.starts++
	return a.err
}

// logBuffer is a concurrency safe log sink.
type logBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *logBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newLogger(w io.Writer) *slog.Logger {
	if w == nil {
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
