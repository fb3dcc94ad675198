// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"archive/zip"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
)

// ZipWriter implements [Writer] for [zip.Writer].
//
// Deflate is provided by klauspost/compress instead of compress/flate, zstd
// uses the method ID registered by WinZip.
type ZipWriter struct {
	zipWriter *zip.Writer
	method    uint16
}

var _ Writer = (*ZipWriter)(nil)

// NewZipWriter creates a new archive writer compressing each regular item
// with the given method.
func NewZipWriter(w io.Writer, method Method) (*ZipWriter, error) {
	zipMethod, err := zipMethodFor(method)
	if err != nil {
		return nil, err
	}

	zipWriter := zip.NewWriter(w)
	zipWriter.RegisterCompressor(zip.Deflate, newFlateWriter)
	zipWriter.RegisterCompressor(zstd.ZipMethodWinZip, zstd.ZipCompressor())

	return &ZipWriter{
		zipWriter: zipWriter,
		method:    zipMethod,
	}, nil
}

func zipMethodFor(method Method) (uint16, error) {
	switch method {
	case MethodStore:
		return zip.Store, nil
	case MethodDeflate:
		return zip.Deflate, nil
	case MethodZstd:
		return zstd.ZipMethodWinZip, nil
	default:
		return 0, fmt.Errorf("%w for zip: %s", ErrMethodInvalid, method)
	}
}

func newFlateWriter(w io.Writer) (io.WriteCloser, error) {
	return flate.NewWriter(w, flate.DefaultCompression) //nolint:wrapcheck
}

// Close writes the central directory. It does not close the underlying
// writer.
func (w *ZipWriter) Close() error {
	err := w.zipWriter.Close()
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return nil
}

// WriteDirectory adds a directory entry for the given item.
func (w *ZipWriter) WriteDirectory(item Item) error {
	header := &zip.FileHeader{
		Name:     item.Name + "/",
		Method:   zip.Store,
		Modified: item.ModTime,
	}
	header.SetMode(item.Mode)

	_, err := w.zipWriter.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("write header for %s: %w", header.Name, err)
	}

	return nil
}

// WriteRegular copies the content of the item from source into the archive.
func (w *ZipWriter) WriteRegular(item Item, source io.Reader) error {
	if !item.Mode.IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegularFile, item.Name)
	}

	header := &zip.FileHeader{
		Name:     item.Name,
		Method:   w.method,
		Modified: item.ModTime,
	}
	header.SetMode(item.Mode)

	body, err := w.zipWriter.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("write header for %s: %w", item.Name, err)
	}

	_, err = io.Copy(body, source)
	if err != nil {
		return fmt.Errorf("write body for %s: %w", item.Name, err)
	}

	return nil
}

func newZip(w io.Writer, method Method) (Writer, error) {
	return NewZipWriter(w, method)
}
