// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package progress provides the progress and cancellation channel between
// long running operations and their callers.
//
// An operation creates a [Tracker] and reports items and processed bytes to
// it. The tracker forwards them as events to the caller's [Listener]. Any
// event handler may call Cancel on the event, which the operation observes at
// its next [Tracker.Checkpoint].
package progress
