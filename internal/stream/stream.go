// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package stream

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"log/slog"

	"github.com/aibor/packstream/internal/codec"
	"github.com/aibor/packstream/internal/packerr"
	"github.com/aibor/packstream/internal/progress"
)

// Compress encodes everything from in into out.
//
// The output is the property block of the codec, followed by the input length
// as 8 byte little endian integer and the encoded payload. This is the
// LZMA-alone layout known from ".lzma" files. If the length can not be
// determined, it is written as unknown and the payload carries an end marker.
//
// Progress is reported to the listener after each block of input. If the
// listener cancels or ctx is done, [progress.ErrCanceled] is returned and
// out is left as is.
func Compress(ctx context.Context, in io.Reader, out io.Writer, opts ...Option) error {
	o := newOptions(opts)

	coder := codec.NewLZMA()

	err := coder.SetProperties(append(codec.DefaultProperties(), o.props...))
	if err != nil {
		return err //nolint:wrapcheck
	}

	length := o.length
	if !o.hasLength {
		length, err = inputLength(in)
		if err != nil {
			return err
		}
	}

	if length < 0 {
		length = codec.UnknownSize
	}

	err = coder.WriteProperties(out)
	if err != nil {
		return err //nolint:wrapcheck
	}

	_, err = out.Write(codec.AppendSize(nil, length))
	if err != nil {
		return packerr.Codec("write length", err)
	}

	tracker := progress.NewTracker(o.listener, 0, max(length, 0))

	err = tracker.Checkpoint(ctx)
	if err != nil {
		return err //nolint:wrapcheck
	}

	sink := codec.ProgressSinkFunc(func(inSize, _ int64) error {
		tracker.Update(inSize)
		return tracker.Checkpoint(ctx)
	})

	err = coder.Code(in, out, length, codec.UnknownSize, sink)
	if err != nil {
		return err //nolint:wrapcheck
	}

	slog.Debug("Stream compressed",
		slog.Int64("length", tracker.Done()))

	return nil
}

// CompressBytes encodes data with [Compress].
func CompressBytes(data []byte) ([]byte, error) {
	var out bytes.Buffer

	err := Compress(
		context.Background(),
		bytes.NewReader(data),
		&out,
		WithLength(int64(len(data))),
	)
	if err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// ReadHeader reads and decodes the header written by [Compress].
func ReadHeader(r io.Reader) (codec.Header, error) {
	header, _, err := readHeader(r)
	return header, err
}

func readHeader(r io.Reader) (codec.Header, []byte, error) {
	raw := make([]byte, codec.HeaderLen)

	_, err := io.ReadFull(r, raw)
	if err != nil {
		return codec.Header{}, nil, packerr.Codec("read header", err)
	}

	header, err := codec.ParseHeader(raw)
	if err != nil {
		return codec.Header{}, nil, err //nolint:wrapcheck
	}

	return header, raw, nil
}

// Decompress decodes a stream written by [Compress] from in into out. It
// returns the number of bytes written to out.
//
// Progress is reported in decoded bytes out of the length stored in the
// header. [WithLength] and [WithProperties] are ignored.
func Decompress(
	ctx context.Context,
	in io.Reader,
	out io.Writer,
	opts ...Option,
) (int64, error) {
	o := newOptions(opts)

	header, raw, err := readHeader(in)
	if err != nil {
		return 0, err
	}

	tracker := progress.NewTracker(o.listener, 0, max(header.Size, 0))

	err = tracker.Checkpoint(ctx)
	if err != nil {
		return 0, err //nolint:wrapcheck
	}

	sink := codec.ProgressSinkFunc(func(_, outSize int64) error {
		tracker.Update(outSize)
		return tracker.Checkpoint(ctx)
	})

	written, err := codec.Decode(io.MultiReader(bytes.NewReader(raw), in), out, sink)
	if err != nil {
		return written, err //nolint:wrapcheck
	}

	return written, nil
}

// DecompressBytes decodes data with [Decompress].
func DecompressBytes(data []byte) ([]byte, error) {
	var out bytes.Buffer

	_, err := Decompress(context.Background(), bytes.NewReader(data), &out)
	if err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// inputLength returns the number of bytes left in r, or
// [codec.UnknownSize] if it can not be determined without consuming r.
func inputLength(r io.Reader) (int64, error) {
	if v, ok := r.(interface{ Len() int }); ok {
		return int64(v.Len()), nil
	}

	// Files that are not regular, like pipes and terminals, have no length.
	if v, ok := r.(interface{ Stat() (fs.FileInfo, error) }); ok {
		info, err := v.Stat()
		if err != nil || !info.Mode().IsRegular() {
			return codec.UnknownSize, nil
		}

		if _, seekable := r.(io.Seeker); !seekable {
			return info.Size(), nil
		}
	}

	if v, ok := r.(io.Seeker); ok {
		current, err := v.Seek(0, io.SeekCurrent)
		if err == nil {
			return seekLength(v, current)
		}

		slog.Debug("Input not seekable", slog.Any("error", err))
	}

	return codec.UnknownSize, nil
}

func seekLength(s io.Seeker, current int64) (int64, error) {
	end, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, packerr.Codec("seek input end", err)
	}

	_, err = s.Seek(current, io.SeekStart)
	if err != nil {
		return 0, packerr.Codec("seek input back", err)
	}

	return end - current, nil
}
