// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package walk enumerates the files of a directory tree that should be added
// to an archive.
package walk
