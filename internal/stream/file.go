// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// CopyFunc transforms the data read from src and writes the result to dst.
type CopyFunc func(ctx context.Context, dst io.Writer, src io.Reader) error

// Compressor returns a [CopyFunc] that runs [Compress] with the given
// options.
func Compressor(opts ...Option) CopyFunc {
	return func(ctx context.Context, dst io.Writer, src io.Reader) error {
		return Compress(ctx, src, dst, opts...)
	}
}

// Decompressor returns a [CopyFunc] that runs [Decompress] with the given
// options.
func Decompressor(opts ...Option) CopyFunc {
	return func(ctx context.Context, dst io.Writer, src io.Reader) error {
		_, err := Decompress(ctx, src, dst, opts...)
		return err
	}
}

// CompressFile compresses the file src into the newly created file dst.
//
// Both files are closed before it returns. On any failure, including
// cancellation, dst is removed.
func CompressFile(ctx context.Context, src, dst string, opts ...Option) error {
	return CopyFile(ctx, src, dst, Compressor(opts...))
}

// DecompressFile decompresses the file src into the newly created file dst.
// See [CompressFile].
func DecompressFile(ctx context.Context, src, dst string, opts ...Option) error {
	return CopyFile(ctx, src, dst, Decompressor(opts...))
}

// CopyFile runs fn from the file src into the newly created file dst. On
// failure, dst is removed.
func CopyFile(ctx context.Context, src, dst string, fn CopyFunc) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	defer func() {
		closeErr := out.Close()
		if closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close output: %w", closeErr))
		}

		if err != nil {
			removeOutput(dst)
		}
	}()

	return fn(ctx, out, in)
}

func removeOutput(path string) {
	slog.Debug("Removing incomplete output", slog.String("path", path))

	err := os.Remove(path)
	if err != nil {
		slog.Error(
			"Failed to remove incomplete output",
			slog.String("path", path),
			slog.Any("error", err),
		)
	}
}
