// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/aibor/packstream/internal/packerr"
)

var ErrInvalidHeader = errors.New("invalid header")

// UnknownSize is the size of streams whose length was not known when they
// were written. They are terminated by an end marker.
const UnknownSize = -1

const maxPropertiesByte = 9 * 5 * 5

// Header is the decoded LZMA-alone header.
type Header struct {
	LitContextBits int
	LitPosBits     int
	PosStateBits   int
	DictionarySize uint32
	// Size is the uncompressed size or [UnknownSize].
	Size int64
}

// ParseHeader decodes the first [HeaderLen] bytes of b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderLen {
		return Header{}, packerr.Codec("parse header",
			fmt.Errorf("%w: %d bytes", ErrInvalidHeader, len(b)))
	}

	propsByte := int(b[0])
	if propsByte >= maxPropertiesByte {
		return Header{}, packerr.Codec("parse header",
			fmt.Errorf("%w: properties byte %d", ErrInvalidHeader, propsByte))
	}

	header := Header{
		LitContextBits: propsByte % 9,
		LitPosBits:     (propsByte / 9) % 5,
		PosStateBits:   propsByte / 9 / 5,
		DictionarySize: binary.LittleEndian.Uint32(b[1:PropertiesLen]),
		Size:           UnknownSize,
	}

	size := binary.LittleEndian.Uint64(b[PropertiesLen:HeaderLen])
	if size != math.MaxUint64 {
		if size > math.MaxInt64 {
			return Header{}, packerr.Codec("parse header",
				fmt.Errorf("%w: size %d", ErrInvalidHeader, size))
		}

		header.Size = int64(size)
	}

	return header, nil
}

// AppendSize appends the 8 byte little endian size field. Negative sizes are
// written as unknown size.
func AppendSize(b []byte, size int64) []byte {
	if size < 0 {
		return binary.LittleEndian.AppendUint64(b, math.MaxUint64)
	}

	return binary.LittleEndian.AppendUint64(b, uint64(size))
}
