// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package stream compresses single data streams with the LZMA codec while
// reporting progress and honoring cancellation.
package stream
