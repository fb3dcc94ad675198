// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package progress

// Listener receives the events of a single operation.
//
// Events are delivered synchronously on the goroutine running the operation
// and never overlap. Handlers must not block for long, as the operation waits
// for them.
type Listener interface {
	ItemStarted(event *ItemEvent)
	Progress(event *ProgressEvent)
}

// Funcs is a [Listener] built from plain functions. Nil functions are
// skipped.
type Funcs struct {
	OnItemStarted func(event *ItemEvent)
	OnProgress    func(event *ProgressEvent)
}

var _ Listener = Funcs{}

// ItemStarted implements [Listener].
func (f Funcs) ItemStarted(event *ItemEvent) {
	if f.OnItemStarted != nil {
		f.OnItemStarted(event)
	}
}

// Progress implements [Listener].
func (f Funcs) Progress(event *ProgressEvent) {
	if f.OnProgress != nil {
		f.OnProgress(event)
	}
}

// Nop is a [Listener] that ignores all events.
var Nop Listener = Funcs{}
