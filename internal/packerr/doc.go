// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package packerr provides the tagged error type shared by all packstream
// packages. Each error carries a [Kind] and a human readable detail. Use
// [errors.Is] with the Err* targets to check for a kind.
package packerr
