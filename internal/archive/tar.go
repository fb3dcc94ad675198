// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"archive/tar"
	"fmt"
	"io"
)

// TarWriter implements [Writer] for [tar.Writer].
type TarWriter struct {
	tarWriter *tar.Writer
}

var _ Writer = (*TarWriter)(nil)

// NewTarWriter creates a new archive writer.
func NewTarWriter(w io.Writer) *TarWriter {
	return &TarWriter{tar.NewWriter(w)}
}

// Close writes the tar trailer. It does not close the underlying writer.
func (w *TarWriter) Close() error {
	err := w.tarWriter.Close()
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return nil
}

func (w *TarWriter) writeHeader(hdr *tar.Header) error {
	err := w.tarWriter.WriteHeader(hdr)
	if err != nil {
		return fmt.Errorf("write header for %s: %w", hdr.Name, err)
	}

	return nil
}

// WriteDirectory adds a directory entry for the given item.
func (w *TarWriter) WriteDirectory(item Item) error {
	header := &tar.Header{
		Typeflag: tar.TypeDir,
		Name:     item.Name + "/",
		Mode:     int64(item.Mode.Perm()),
		ModTime:  item.ModTime,
		Format:   tar.FormatPAX,
	}

	return w.writeHeader(header)
}

// WriteRegular copies the content of the item from source into the archive.
func (w *TarWriter) WriteRegular(item Item, source io.Reader) error {
	if !item.Mode.IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegularFile, item.Name)
	}

	header := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     item.Name,
		Mode:     int64(item.Mode.Perm()),
		Size:     item.Size,
		ModTime:  item.ModTime,
		Format:   tar.FormatPAX,
	}

	err := w.writeHeader(header)
	if err != nil {
		return err
	}

	_, err = io.Copy(w.tarWriter, source)
	if err != nil {
		return fmt.Errorf("write body for %s: %w", item.Name, err)
	}

	return nil
}

func newTar(w io.Writer) Writer {
	return NewTarWriter(w)
}
