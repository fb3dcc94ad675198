// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"flag"
	"fmt"
)

var (
	ErrHelp            = flag.ErrHelp
	ErrReadBuildInfo   = errors.New("failed to read build info")
	ErrEmptyFilePath   = errors.New("file path must not be empty")
	ErrValueOutOfRange = errors.New("value is outside of range")
	ErrNoLZMASuffix    = errors.New("input has no " + lzmaSuffix + " suffix")
)

// ParseArgsError wraps errors that occur during argument parsing.
type ParseArgsError struct {
	err error
	msg string
}

func (e *ParseArgsError) Error() string {
	if e.err == nil {
		return e.msg
	}

	return fmt.Sprintf("%s: %v", e.msg, e.err)
}

func (e *ParseArgsError) Is(other error) bool {
	_, ok := other.(*ParseArgsError)
	return ok
}

func (e *ParseArgsError) Unwrap() error {
	return e.err
}
