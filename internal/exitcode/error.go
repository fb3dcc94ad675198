// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package exitcode

import (
	"errors"
	"fmt"

	"github.com/aibor/packstream/internal/packerr"
	"github.com/aibor/packstream/internal/progress"
)

// Exit codes for the error kinds of packstream operations.
const (
	OK                 = 0
	Failure            = 1
	InvalidInput       = 2
	EmptyInput         = 3
	Codec              = 4
	ItemFailure        = 5
	LibraryUnavailable = 6
	Canceled           = 130
)

// Error is an exit code that is considered an error.
type Error int

func (e Error) Error() string {
	return fmt.Sprintf("non-zero exit code: %d", e)
}

func (Error) Is(other error) bool {
	_, ok := other.(Error)
	return ok
}

// Code returns the exit code as basic int type.
func (e Error) Code() int {
	return int(e)
}

// From returns an exit code based on the given error and if the error was an
// [Error].
//
// If the error is nil, the exit code is 0. If the error is an [Error] the exit
// code is the return value of [Error.Code]. Otherwise the exit code is -1.
func From(err error) (int, bool) {
	if err == nil {
		return 0, false
	}

	var exitErr Error
	if errors.As(err, &exitErr) {
		return exitErr.Code(), true
	}

	return -1, false
}

var kindCodes = map[packerr.Kind]int{ //nolint:gochecknoglobals
	packerr.KindInvalidInput:       InvalidInput,
	packerr.KindEmptyInput:         EmptyInput,
	packerr.KindCodec:              Codec,
	packerr.KindItemFailure:        ItemFailure,
	packerr.KindLibraryUnavailable: LibraryUnavailable,
}

// For returns the exit code the process should terminate with for the given
// error.
//
// An [Error] carries its own code. Cancellation maps to [Canceled] and
// [packerr.Error]s to the code of their kind. Any other error is a
// [Failure].
func For(err error) int {
	if code, ok := From(err); ok || err == nil {
		return code
	}

	if errors.Is(err, progress.ErrCanceled) {
		return Canceled
	}

	var packErr *packerr.Error
	if errors.As(err, &packErr) {
		if code, exists := kindCodes[packErr.Kind]; exists {
			return code
		}
	}

	return Failure
}
