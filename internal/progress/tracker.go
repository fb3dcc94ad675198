// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package progress

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrCanceled is returned by operations that stopped because cancellation
// was requested by a listener or by the context.
var ErrCanceled = errors.New("operation canceled")

const percentMax = 100

// Tracker holds the progress state of a single operation and dispatches
// events to its [Listener].
//
// The done counter never decreases and the cancel flag is never cleared once
// set. A Tracker is created per operation and must not be reused.
type Tracker struct {
	listener Listener
	items    int
	total    int64

	done    int64
	percent uint8

	canceled atomic.Bool
}

// NewTracker creates a new [Tracker] for an operation with the given number
// of items and total number of bytes. Both may be 0 if unknown. A nil
// listener is replaced by [Nop].
func NewTracker(listener Listener, items int, total int64) *Tracker {
	if listener == nil {
		listener = Nop
	}

	return &Tracker{
		listener: listener,
		items:    items,
		total:    max(total, 0),
	}
}

// Done returns the number of bytes processed so far.
func (t *Tracker) Done() int64 {
	return t.done
}

// Item emits an [ItemEvent] for the item with the given index.
func (t *Tracker) Item(index int, name string) {
	t.listener.ItemStarted(&ItemEvent{
		Index:       index,
		Name:        name,
		PercentDone: percentOf(int64(index)+1, int64(t.items)),
		canceled:    &t.canceled,
	})
}

// Update sets the number of bytes processed so far and emits a
// [ProgressEvent]. Values that do not advance the counter are ignored.
func (t *Tracker) Update(done int64) {
	if done <= t.done {
		return
	}

	percent := percentOf(done, t.total)

	event := &ProgressEvent{
		Done:        done,
		Delta:       done - t.done,
		Total:       t.total,
		PercentDone: percent,
		canceled:    &t.canceled,
	}

	if percent > t.percent {
		event.PercentDelta = percent - t.percent
	}

	t.done = done
	t.percent = max(t.percent, percent)

	t.listener.Progress(event)
}

// Canceled returns true if cancellation has been requested.
func (t *Tracker) Canceled() bool {
	return t.canceled.Load()
}

// Checkpoint returns [ErrCanceled] if cancellation has been requested or the
// context is done. The context's cancellation also sets the cancel flag.
func (t *Tracker) Checkpoint(ctx context.Context) error {
	if t.canceled.Load() {
		return ErrCanceled
	}

	if ctx.Err() != nil {
		t.canceled.Store(true)
		return ErrCanceled
	}

	return nil
}

func percentOf(done, total int64) uint8 {
	if total <= 0 || done <= 0 {
		return 0
	}

	if done >= total {
		return percentMax
	}

	return uint8(done * percentMax / total)
}
