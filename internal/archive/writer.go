// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"errors"
	"fmt"
	"io"
)

var ErrNotRegularFile = errors.New("not a regular file")

// Writer defines the archive container writer interface engines write items
// with.
type Writer interface {
	WriteRegular(item Item, source io.Reader) error
	WriteDirectory(item Item) error
	// Close finishes the archive. It must be called on every path, also after
	// failures, to release resources of the compressor.
	Close() error
}

// newWriterFunc creates a [Writer] writing to w.
type newWriterFunc func(w io.Writer, method Method) (Writer, error)

// streamWriter is a [Writer] whose output is compressed as a single stream.
type streamWriter struct {
	Writer

	compressor io.WriteCloser
}

// Close closes the container writer first and then the compressor, so the
// container trailer is compressed as well.
func (s *streamWriter) Close() error {
	err := s.Writer.Close()

	compressorErr := s.compressor.Close()
	if compressorErr != nil {
		compressorErr = fmt.Errorf("close compressor: %w", compressorErr)
	}

	return errors.Join(err, compressorErr)
}

// compressedStream wraps a container writer constructor so the container's
// output is compressed with the given method.
func compressedStream(
	newContainer func(w io.Writer) Writer,
) newWriterFunc {
	return func(w io.Writer, method Method) (Writer, error) {
		compressor, err := newCompressor(w, method)
		if err != nil {
			return nil, err
		}

		return &streamWriter{
			Writer:     newContainer(compressor),
			compressor: compressor,
		}, nil
	}
}
