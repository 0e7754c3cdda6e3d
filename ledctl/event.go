// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ledctl

import (
	"log/slog"
	"sync/atomic"
)

// EventKind is the kind of a radio notification.
type EventKind uint8

const (
	LinkChange EventKind = iota + 1
	DataReceived
)

// maxPayload is the largest retained write payload. It is the ATT
// payload size at the default MTU.
const maxPayload = 20

// Event is a notification from the radio context.
type Event struct {
	Kind EventKind

	// Connected is the new link state for LinkChange.
	Connected bool

	payload [maxPayload]byte
	n       int
}

// Payload returns the retained written payload for DataReceived.
func (e *Event) Payload() []byte { return e.payload[:e.n] }

// Queue is a bounded FIFO carrying events from the radio context to the
// control loop. It has a single producer and a single consumer.
type Queue struct {
	c       chan Event
	dropped atomic.Uint32
}

// NewQueue returns a queue holding up to n events.
func NewQueue(n int) *Queue {
	return &Queue{c: make(chan Event, n)}
}

// Push adds e to the queue without blocking. If the queue is full the
// event is counted as dropped and Push returns false.
func (q *Queue) Push(e Event) bool {
	select {
	case q.c <- e:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Drain calls fn for each event queued at the time of the call, in
// arrival order, and returns the number of events dropped since the
// last call.
func (q *Queue) Drain(fn func(Event)) (dropped uint32) {
	for range len(q.c) {
		fn(<-q.c)
	}
	return q.dropped.Swap(0)
}

// Handler is the notification sink given to the radio layer. Its methods
// only enqueue and are safe to call from the radio context.
type Handler struct {
	q *Queue
}

// NewHandler returns a Handler feeding q.
func NewHandler(q *Queue) Handler { return Handler{q: q} }

// LinkChanged notifies a link state change.
func (h Handler) LinkChanged(connected bool) {
	h.q.Push(Event{Kind: LinkChange, Connected: connected})
}

// DataReceived notifies a write to the command characteristic. Payload
// bytes beyond the retained size are discarded.
func (h Handler) DataReceived(p []byte) {
	e := Event{Kind: DataReceived}
	e.n = copy(e.payload[:], p)
	h.q.Push(e)
}

// textAttr logs a payload as text.
type textAttr []byte

func (b textAttr) LogValue() slog.Value {
	return slog.StringValue(string(b))
}
