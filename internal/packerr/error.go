// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package packerr

import (
	"fmt"
	"strconv"
)

// Kind classifies an [Error].
type Kind int

const (
	KindUnknown Kind = iota
	// KindInvalidInput is used for bad or empty path sets, paths that do not
	// share a root, missing directories and unsupported settings.
	KindInvalidInput
	// KindEmptyInput is used if there are no files to add.
	KindEmptyInput
	// KindCodec is used if the codec or archive engine rejected its
	// configuration or failed while processing.
	KindCodec
	// KindItemFailure is used if a single archive item failed.
	KindItemFailure
	// KindLibraryUnavailable is used if an archive engine could not be
	// initialized.
	KindLibraryUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindEmptyInput:
		return "empty input"
	case KindCodec:
		return "codec failure"
	case KindItemFailure:
		return "item failure"
	case KindLibraryUnavailable:
		return "engine unavailable"
	default:
		return "unknown failure"
	}
}

// Reason further classifies [KindItemFailure] errors.
type Reason int

const (
	ReasonOther Reason = iota
	ReasonAlreadyExists
	ReasonCreateFailed
)

func (r Reason) String() string {
	switch r {
	case ReasonAlreadyExists:
		return "already exists"
	case ReasonCreateFailed:
		return "could not be created"
	default:
		return "failed"
	}
}

// Error is the single error type returned by all packstream operations.
type Error struct {
	Kind   Kind
	Detail string

	// Index, Reason and Code are only set for [KindItemFailure]. Code is the
	// raw status reported by the archive engine.
	Index  int
	Reason Reason
	Code   int

	Err error
}

// Error implements the [error] interface.
func (e *Error) Error() string {
	msg := e.Kind.String()

	if e.Kind == KindItemFailure {
		msg += ": item " + strconv.Itoa(e.Index) + " " + e.Reason.String()
		if e.Reason == ReasonOther {
			msg += " with code " + strconv.Itoa(e.Code)
		}
	}

	if e.Detail != "" {
		msg += ": " + e.Detail
	}

	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

// Is implements the [errors.Is] interface. It matches any [Error] of the same
// [Kind]. A target with [KindUnknown] matches every [Error].
func (e *Error) Is(other error) bool {
	o, ok := other.(*Error)
	if !ok {
		return false
	}

	return o.Kind == KindUnknown || o.Kind == e.Kind
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *Error) Unwrap() error {
	return e.Err
}

// Targets for [errors.Is].
var (
	ErrInvalidInput       = &Error{Kind: KindInvalidInput}
	ErrEmptyInput         = &Error{Kind: KindEmptyInput}
	ErrCodec              = &Error{Kind: KindCodec}
	ErrItemFailure        = &Error{Kind: KindItemFailure}
	ErrLibraryUnavailable = &Error{Kind: KindLibraryUnavailable}
)

// InvalidInput creates a [KindInvalidInput] error with a formatted detail.
func InvalidInput(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Detail: fmt.Sprintf(format, args...)}
}

// EmptyInput creates a [KindEmptyInput] error with a formatted detail.
func EmptyInput(format string, args ...any) *Error {
	return &Error{Kind: KindEmptyInput, Detail: fmt.Sprintf(format, args...)}
}

// Codec wraps err as [KindCodec] error.
func Codec(detail string, err error) *Error {
	return &Error{Kind: KindCodec, Detail: detail, Err: err}
}

// ItemFailure creates a [KindItemFailure] error for the item with the given
// index.
func ItemFailure(index int, reason Reason, code int, err error) *Error {
	return &Error{
		Kind:   KindItemFailure,
		Index:  index,
		Reason: reason,
		Code:   code,
		Err:    err,
	}
}

// LibraryUnavailable wraps err as [KindLibraryUnavailable] error.
func LibraryUnavailable(name string, err error) *Error {
	return &Error{Kind: KindLibraryUnavailable, Detail: name, Err: err}
}
