// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 R. Calloway, Quadrature

package xbee

import (
	"sync"
	"time"
)

// FrameQueue is the bounded inbound frame queue shared between the
// reader loop and consumer code. When the queue is full the oldest
// frame is dropped to make room; the reader loop never blocks on a
// slow consumer.
type FrameQueue struct {
	mu     sync.Mutex
	frames []Frame
	max    int
	notify chan struct{}
}

// NewFrameQueue builds a queue holding at most max frames.
func NewFrameQueue(max int) *FrameQueue {
	if max <= 0 {
		max = 1
	}
	return &FrameQueue{
		max:    max,
		notify: make(chan struct{}, 1),
	}
}

// Put appends a frame, dropping the oldest when the queue is full.
func (q *FrameQueue) Put(f Frame) {
	q.mu.Lock()
	if len(q.frames) >= q.max {
		q.frames = q.frames[1:]
	}
	q.frames = append(q.frames, f)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Poll removes and returns the oldest frame, waiting up to timeout for
// one to arrive. Returns nil when the queue stays empty.
func (q *FrameQueue) Poll(timeout time.Duration) Frame {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		q.mu.Lock()
		if len(q.frames) > 0 {
			f := q.frames[0]
			q.frames = q.frames[1:]
			q.mu.Unlock()
			return f
		}
		q.mu.Unlock()

		select {
		case <-q.notify:
		case <-deadline.C:
			return nil
		}
	}
}

// TryPoll removes and returns the oldest frame without waiting.
func (q *FrameQueue) TryPoll() Frame {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.frames) == 0 {
		return nil
	}
	f := q.frames[0]
	q.frames = q.frames[1:]
	return f
}

// Clear discards all queued frames.
func (q *FrameQueue) Clear() {
	q.mu.Lock()
	q.frames = nil
	q.mu.Unlock()
}

// Len returns the number of queued frames.
func (q *FrameQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.frames)
}
