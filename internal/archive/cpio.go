// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"fmt"
	"io"

	"github.com/cavaliergopher/cpio"
)

const numLinks = 2

// CPIOWriter implements [Writer] for [cpio.Writer].
type CPIOWriter struct {
	cpioWriter *cpio.Writer
}

var _ Writer = (*CPIOWriter)(nil)

// NewCPIOWriter creates a new archive writer.
func NewCPIOWriter(w io.Writer) *CPIOWriter {
	return &CPIOWriter{cpio.NewWriter(w)}
}

// Close closes the [Writer]. Flush is called by the underlying closer.
func (w *CPIOWriter) Close() error {
	err := w.cpioWriter.Close()
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return nil
}

func (w *CPIOWriter) writeHeader(hdr *cpio.Header) error {
	err := w.cpioWriter.WriteHeader(hdr)
	if err != nil {
		return fmt.Errorf("write header for %s: %w", hdr.Name, err)
	}

	return nil
}

// WriteDirectory adds a directory entry for the given item.
func (w *CPIOWriter) WriteDirectory(item Item) error {
	header := &cpio.Header{
		Name:    item.Name,
		Mode:    cpio.TypeDir | cpio.FileMode(item.Mode.Perm()),
		Links:   numLinks,
		ModTime: item.ModTime,
	}

	return w.writeHeader(header)
}

// WriteRegular copies the content of the item from source into the archive.
func (w *CPIOWriter) WriteRegular(item Item, source io.Reader) error {
	if !item.Mode.IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegularFile, item.Name)
	}

	header := &cpio.Header{
		Name:    item.Name,
		Mode:    cpio.TypeReg | cpio.FileMode(item.Mode.Perm()),
		Links:   1,
		Size:    item.Size,
		ModTime: item.ModTime,
	}

	err := w.writeHeader(header)
	if err != nil {
		return err
	}

	_, err = io.Copy(w.cpioWriter, source)
	if err != nil {
		return fmt.Errorf("write body for %s: %w", item.Name, err)
	}

	return nil
}

func newCPIO(w io.Writer) Writer {
	return NewCPIOWriter(w)
}
