// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/aibor/packstream/internal/pathset"
	"github.com/aibor/packstream/internal/progress"
)

// updateCallback is the [UpdateCallback] of a single build. It serves the
// items of the file table and forwards progress to the tracker.
type updateCallback struct {
	ctx     context.Context //nolint:containedctx
	fsys    fs.FS
	items   []Item
	paths   []string
	tracker *progress.Tracker
	err     error
}

var _ UpdateCallback = (*updateCallback)(nil)

func (c *updateCallback) Next(index int) (Item, error) {
	err := c.tracker.Checkpoint(c.ctx)
	if err != nil {
		return Item{}, err //nolint:wrapcheck
	}

	if index < 0 || index >= len(c.items) {
		return Item{}, fmt.Errorf("%w: index %d", ErrNoSuchItem, index)
	}

	item := c.items[index]
	c.tracker.Item(index, item.Name)

	return item, nil
}

func (c *updateCallback) Open(index int) (io.ReadCloser, error) {
	if index < 0 || index >= len(c.paths) {
		return nil, fmt.Errorf("%w: index %d", ErrNoSuchItem, index)
	}

	file, err := c.fsys.Open(pathset.FSName(c.paths[index]))
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}

	return file, nil
}

func (c *updateCallback) SetCompleted(done int64) error {
	c.tracker.Update(done)
	return c.tracker.Checkpoint(c.ctx) //nolint:wrapcheck
}

// ReportError keeps the first reported error as cause of the failure.
func (c *updateCallback) ReportError(index int, err error) {
	slog.Debug("Engine reported error",
		slog.Int("index", index),
		slog.Any("error", err))

	if c.err == nil {
		c.err = err
	}
}
