// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aibor/packstream/internal/progress"
)

var (
	ErrDuplicateName = errors.New("duplicate item name")
	ErrEncryption    = errors.New("encryption not supported")
)

// containerEngine is the [Engine] for all container formats. It differs
// only in the [Writer] it creates.
type containerEngine struct {
	format    Format
	newWriter newWriterFunc
}

var _ Engine = (*containerEngine)(nil)

// UpdateItems implements [Engine].
func (e *containerEngine) UpdateItems(
	out io.Writer,
	count int,
	settings Settings,
	cb UpdateCallback,
) Status {
	if settings.Password != "" {
		cb.ReportError(-1, fmt.Errorf("%w: %s", ErrEncryption, e.format))
		return StatusUnsupported
	}

	method := settings.Method
	if method == "" {
		method = e.format.DefaultMethod()
	}

	if !e.format.Supports(method) {
		cb.ReportError(-1, fmt.Errorf("%w for %s: %s", ErrMethodInvalid, e.format, method))
		return StatusUnsupported
	}

	writer, err := e.newWriter(out, method)
	if err != nil {
		cb.ReportError(-1, err)
		return StatusUnsupported
	}

	status := e.writeItems(writer, count, cb)

	// The writer is closed on every path to release compressor resources.
	// Only on success the closing error matters.
	err = writer.Close()
	if err != nil && status == StatusOK {
		cb.ReportError(-1, err)
		return StatusFailed
	}

	return status
}

func (e *containerEngine) writeItems(
	writer Writer,
	count int,
	cb UpdateCallback,
) Status {
	names := make(map[string]struct{}, count)
	tracked := &completionReader{cb: cb}

	for idx := range count {
		item, err := cb.Next(idx)
		if err != nil {
			if errors.Is(err, progress.ErrCanceled) {
				return StatusAborted
			}

			cb.ReportError(idx, err)

			return StatusFailed
		}

		if _, exists := names[item.Name]; exists {
			cb.ReportError(idx, fmt.Errorf("%w: %s", ErrDuplicateName, item.Name))
			return ItemStatus(idx, SubAlreadyExists)
		}

		names[item.Name] = struct{}{}

		status := e.writeItem(writer, item, tracked, cb)
		if status != StatusOK {
			return status
		}
	}

	return StatusOK
}

func (e *containerEngine) writeItem(
	writer Writer,
	item Item,
	tracked *completionReader,
	cb UpdateCallback,
) Status {
	if item.IsDir {
		err := writer.WriteDirectory(item)
		if err != nil {
			cb.ReportError(item.Index, err)
			return StatusFailed
		}

		return StatusOK
	}

	source, err := cb.Open(item.Index)
	if err != nil {
		cb.ReportError(item.Index, err)
		return ItemStatus(item.Index, SubCreateFailed)
	}
	defer source.Close()

	tracked.r = source

	err = writer.WriteRegular(item, tracked)
	if err != nil {
		if errors.Is(err, progress.ErrCanceled) {
			return StatusAborted
		}

		cb.ReportError(item.Index, err)

		return ItemStatus(item.Index, SubReadFailed)
	}

	slog.Debug("Item written",
		slog.String("format", e.format.String()),
		slog.String("name", item.Name))

	return StatusOK
}

// completionReader reports the bytes consumed over all items to the
// [UpdateCallback] and fails reading once cancellation has been requested.
type completionReader struct {
	r    io.Reader
	cb   UpdateCallback
	done int64
}

func (c *completionReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.done += int64(n)

		cbErr := c.cb.SetCompleted(c.done)
		if cbErr != nil {
			return n, cbErr
		}
	}

	return n, err //nolint:wrapcheck
}
