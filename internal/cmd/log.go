// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"io"
	"log/slog"
)

func setupLogging(writer io.Writer, debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(
		writer,
		&slog.HandlerOptions{
			Level: level,
		},
	)))
}

// progressLogger returns the logger progress is printed with. It logs at info
// level, independent of the default logger's level.
func progressLogger(writer io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(
		writer,
		&slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	))
}
