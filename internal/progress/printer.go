// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package progress

import (
	"fmt"
	"log/slog"
	"time"
)

// DefaultStep is the default percentage step [Printer] logs progress in.
const DefaultStep = 10

// Printer is a [Listener] that logs events with [slog].
//
// Progress is only logged if the percentage advanced by at least Step since
// the last logged event, or if it reached 100. With unknown total, every
// event is logged.
type Printer struct {
	Logger *slog.Logger
	Step   uint8

	start       time.Time
	lastPercent uint8
	logged      bool
}

var _ Listener = (*Printer)(nil)

// NewPrinter creates a new [Printer] logging with the given logger. If the
// logger is nil, [slog.Default] is used.
func NewPrinter(logger *slog.Logger) *Printer {
	if logger == nil {
		logger = slog.Default()
	}

	return &Printer{
		Logger: logger,
		Step:   DefaultStep,
		start:  time.Now(),
	}
}

// ItemStarted implements [Listener].
func (p *Printer) ItemStarted(event *ItemEvent) {
	p.Logger.Info("Adding",
		slog.Int("index", event.Index),
		slog.String("name", event.Name),
		slog.String("items", fmt.Sprintf("%d%%", event.PercentDone)),
	)
}

// Progress implements [Listener].
func (p *Printer) Progress(event *ProgressEvent) {
	if event.Total > 0 && !p.due(event.PercentDone) {
		return
	}

	p.lastPercent = event.PercentDone
	p.logged = true

	attrs := []any{
		slog.String("done", formatSize(event.Done)),
		slog.String("rate", formatRate(p.rate(event.Done))),
	}

	if event.Total > 0 {
		attrs = append(attrs,
			slog.String("total", formatSize(event.Total)),
			slog.String("percent", fmt.Sprintf("%d%%", event.PercentDone)),
		)
	}

	p.Logger.Info("Progress", attrs...)
}

func (p *Printer) due(percent uint8) bool {
	if !p.logged {
		return true
	}

	if percent >= percentMax && p.lastPercent < percentMax {
		return true
	}

	step := max(p.Step, 1)

	return percent >= p.lastPercent+step
}

func (p *Printer) rate(done int64) int64 {
	if p.start.IsZero() {
		p.start = time.Now()
	}

	elapsed := time.Since(p.start).Seconds()
	if elapsed < 0.001 {
		elapsed = 0.001
	}

	return int64(float64(done) / elapsed)
}

// formatSize returns a human-readable size string.
func formatSize(bytes int64) string {
	const unit = 1024

	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// formatRate returns a human-readable rate string.
func formatRate(bytesPerSec int64) string {
	return formatSize(bytesPerSec) + "/s"
}
