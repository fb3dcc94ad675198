// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package progress

import "sync/atomic"

// ItemEvent is emitted when an archive engine starts with the next item.
type ItemEvent struct {
	// Index of the item in the file table.
	Index int
	// Name of the item relative to the archive root.
	Name string
	// PercentDone is the share of items started so far, including this one.
	PercentDone uint8

	canceled *atomic.Bool
}

// Cancel requests cancellation of the operation. It takes effect at the next
// checkpoint.
func (e *ItemEvent) Cancel() {
	if e.canceled != nil {
		e.canceled.Store(true)
	}
}

// ProgressEvent is emitted when the number of bytes processed advanced.
type ProgressEvent struct {
	// Done is the number of bytes processed so far.
	Done int64
	// Delta is the number of bytes processed since the last event.
	Delta int64
	// Total is the number of bytes to process. It is 0 if unknown.
	Total int64
	// PercentDone is Done relative to Total, clamped to [0, 100]. It is 0
	// if Total is unknown.
	PercentDone uint8
	// PercentDelta is the change of PercentDone since the last event.
	PercentDelta uint8

	canceled *atomic.Bool
}

// Cancel requests cancellation of the operation. It takes effect at the next
// checkpoint.
func (e *ProgressEvent) Cancel() {
	if e.canceled != nil {
		e.canceled.Store(true)
	}
}
