// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package pathset resolves the common root directory of a set of absolute
// paths and validates caller supplied roots against such a set.
package pathset
