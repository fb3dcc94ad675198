// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package codec defines the boundary to stream encoders and provides an LZMA
// implementation of it.
package codec
