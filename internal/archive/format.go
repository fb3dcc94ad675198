// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"errors"
	"slices"
)

var (
	ErrFormatInvalid = errors.New("unknown archive format")
	ErrMethodInvalid = errors.New("unknown compression method")
)

const (
	// FormatZip is a zip archive. Items are compressed individually.
	FormatZip Format = "zip"
	// FormatTar is a tar archive. The whole archive is compressed as one
	// stream.
	FormatTar Format = "tar"
	// FormatCPIO is a cpio archive in "newc" format. The whole archive is
	// compressed as one stream.
	FormatCPIO Format = "cpio"
)

// Format is an archive container format.
type Format string

func (f Format) isKnown() bool {
	return slices.Contains(Formats(), f)
}

// Formats returns all supported formats.
func Formats() []Format {
	return []Format{FormatZip, FormatTar, FormatCPIO}
}

// String implements [fmt.Stringer].
func (f Format) String() string {
	if !f.isKnown() {
		return ""
	}

	return string(f)
}

// MarshalText implements [encoding.TextMarshaler].
func (f Format) MarshalText() ([]byte, error) {
	s := f.String()
	if s == "" {
		return nil, ErrFormatInvalid
	}

	return []byte(s), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (f *Format) UnmarshalText(text []byte) error {
	format := Format(text)

	if !format.isKnown() {
		return ErrFormatInvalid
	}

	*f = format

	return nil
}

// DefaultMethod returns the compression method used if none is given.
func (f Format) DefaultMethod() Method {
	switch f {
	case FormatZip:
		return MethodDeflate
	case FormatTar:
		return MethodXZ
	default:
		return MethodStore
	}
}

// Methods returns the compression methods supported by the format.
func (f Format) Methods() []Method {
	switch f {
	case FormatZip:
		return []Method{MethodStore, MethodDeflate, MethodZstd}
	case FormatTar, FormatCPIO:
		return []Method{
			MethodStore,
			MethodGzip,
			MethodZstd,
			MethodLZ4,
			MethodXZ,
		}
	default:
		return nil
	}
}

// Supports returns true if the format can be compressed with the method.
func (f Format) Supports(method Method) bool {
	return slices.Contains(f.Methods(), method)
}

const (
	MethodStore   Method = "store"
	MethodDeflate Method = "deflate"
	MethodGzip    Method = "gzip"
	MethodZstd    Method = "zstd"
	MethodLZ4     Method = "lz4"
	MethodXZ      Method = "xz"
)

// Method is a compression method.
type Method string

func (m Method) isKnown() bool {
	return slices.Contains([]Method{
		MethodStore,
		MethodDeflate,
		MethodGzip,
		MethodZstd,
		MethodLZ4,
		MethodXZ,
	}, m)
}

// String implements [fmt.Stringer].
func (m Method) String() string {
	if !m.isKnown() {
		return ""
	}

	return string(m)
}

// MarshalText implements [encoding.TextMarshaler]. The empty method is
// marshaled into empty text.
func (m Method) MarshalText() ([]byte, error) {
	if m == "" {
		return []byte{}, nil
	}

	s := m.String()
	if s == "" {
		return nil, ErrMethodInvalid
	}

	return []byte(s), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler]. The empty string
// selects the format's default method.
func (m *Method) UnmarshalText(text []byte) error {
	method := Method(text)

	if method != "" && !method.isKnown() {
		return ErrMethodInvalid
	}

	*m = method

	return nil
}
