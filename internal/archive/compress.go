// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

// newCompressor returns a writer that compresses everything written to it
// with the given method into w.
func newCompressor(w io.Writer, method Method) (io.WriteCloser, error) {
	switch method {
	case MethodStore:
		return nopWriteCloser{w}, nil
	case MethodGzip:
		return gzip.NewWriter(w), nil
	case MethodZstd:
		encoder, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}

		return encoder, nil
	case MethodLZ4:
		return lz4.NewWriter(w), nil
	case MethodXZ:
		writer, err := xz.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("xz: %w", err)
		}

		return writer, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrMethodInvalid, method)
	}
}

// newDecompressor returns a reader that decompresses r with the given
// method.
func newDecompressor(r io.Reader, method Method) (io.ReadCloser, error) {
	switch method {
	case MethodStore:
		return io.NopCloser(r), nil
	case MethodGzip:
		reader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}

		return reader, nil
	case MethodZstd:
		decoder, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}

		return decoder.IOReadCloser(), nil
	case MethodLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case MethodXZ:
		reader, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("xz: %w", err)
		}

		return io.NopCloser(reader), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrMethodInvalid, method)
	}
}
