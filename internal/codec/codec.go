// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package codec

import (
	"errors"
	"io"
)

var (
	ErrPropertyType    = errors.New("invalid property type")
	ErrPropertyRange   = errors.New("property out of range")
	ErrUnknownProperty = errors.New("unknown property")
	ErrMatchFinder     = errors.New("unsupported match finder")
)

// ProgressSink receives the progress of [Codec.Code]. A non-nil return value
// aborts coding at the next block boundary and is returned by Code
// unchanged.
type ProgressSink interface {
	SetProgress(inSize, outSize int64) error
}

// ProgressSinkFunc is a function implementing [ProgressSink].
type ProgressSinkFunc func(inSize, outSize int64) error

// SetProgress implements [ProgressSink].
func (f ProgressSinkFunc) SetProgress(inSize, outSize int64) error {
	return f(inSize, outSize)
}

// Codec is a stream encoder.
type Codec interface {
	// SetProperties validates and applies the given properties. Properties
	// not given keep their current value.
	SetProperties(props []Property) error
	// WriteProperties writes the property block that a decoder needs.
	WriteProperties(w io.Writer) error
	// Code encodes everything from in to out. inSize is the number of bytes
	// in will provide or -1 if unknown. outSize is a hint and may be -1.
	Code(in io.Reader, out io.Writer, inSize, outSize int64, sink ProgressSink) error
}
