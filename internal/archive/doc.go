// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package archive builds archives from sets of files or directory trees.
//
// The inputs are resolved into a file table first. The archive is then
// written by the [Engine] of the requested [Format], which pulls the items
// and their content through an [UpdateCallback]. Engines are shared by all
// concurrent builds and held in a reference counted registry.
package archive
