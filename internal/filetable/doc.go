// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package filetable builds the file table of an archive: the ordered list of
// all files to add together with the directories leading to them.
package filetable
