// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cavaliergopher/cpio"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
)

// ItemVisitor is called by [Walk] for each item of an archive. The item's
// content can be read from content until the function returns.
type ItemVisitor func(item Item, content io.Reader) error

// List returns the items of the archive read from r.
func List(r io.Reader, format Format, method Method) ([]Item, error) {
	var items []Item

	err := Walk(r, format, method, func(item Item, _ io.Reader) error {
		items = append(items, item)
		return nil
	})

	return items, err
}

// Walk calls fn for each item of the archive read from r in archive order.
// An empty method selects the format's default method.
func Walk(r io.Reader, format Format, method Method, fn ItemVisitor) error {
	if method == "" {
		method = format.DefaultMethod()
	}

	if !format.Supports(method) {
		return fmt.Errorf("%w for %s: %s", ErrMethodInvalid, format, method)
	}

	switch format {
	case FormatZip:
		return walkZip(r, fn)
	case FormatTar, FormatCPIO:
		decompressor, err := newDecompressor(r, method)
		if err != nil {
			return err
		}
		defer decompressor.Close()

		if format == FormatTar {
			return walkTar(decompressor, fn)
		}

		return walkCPIO(decompressor, fn)
	default:
		return fmt.Errorf("%w: %s", ErrFormatInvalid, format)
	}
}

func walkZip(r io.Reader, fn ItemVisitor) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	zipReader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}

	zipReader.RegisterDecompressor(zip.Deflate, flate.NewReader)
	zipReader.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())

	for idx, file := range zipReader.File {
		item := Item{
			Index:   idx,
			Name:    strings.TrimSuffix(file.Name, "/"),
			Size:    int64(file.UncompressedSize64), //nolint:gosec
			Mode:    file.Mode(),
			ModTime: file.Modified,
			IsDir:   file.FileInfo().IsDir(),
		}

		err := visitZipFile(file, item, fn)
		if err != nil {
			return err
		}
	}

	return nil
}

func visitZipFile(file *zip.File, item Item, fn ItemVisitor) error {
	if item.IsDir {
		return fn(item, bytes.NewReader(nil))
	}

	content, err := file.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", file.Name, err)
	}
	defer content.Close()

	return fn(item, content)
}

func walkTar(r io.Reader, fn ItemVisitor) error {
	tarReader := tar.NewReader(r)

	for idx := 0; ; idx++ {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("read tar: %w", err)
		}

		info := header.FileInfo()

		err = fn(Item{
			Index:   idx,
			Name:    strings.TrimSuffix(header.Name, "/"),
			Size:    header.Size,
			Mode:    info.Mode(),
			ModTime: header.ModTime,
			IsDir:   info.IsDir(),
		}, tarReader)
		if err != nil {
			return err
		}
	}
}

func walkCPIO(r io.Reader, fn ItemVisitor) error {
	cpioReader := cpio.NewReader(r)

	for idx := 0; ; idx++ {
		header, err := cpioReader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("read cpio: %w", err)
		}

		info := header.FileInfo()

		err = fn(Item{
			Index:   idx,
			Name:    header.Name,
			Size:    header.Size,
			Mode:    info.Mode(),
			ModTime: header.ModTime,
			IsDir:   info.IsDir(),
		}, cpioReader)
		if err != nil {
			return err
		}
	}
}
