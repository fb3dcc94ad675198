// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package stream

import (
	"github.com/aibor/packstream/internal/codec"
	"github.com/aibor/packstream/internal/progress"
)

type options struct {
	length    int64
	hasLength bool
	listener  progress.Listener
	props     []codec.Property
}

// Option configures [Compress] and [Decompress].
type Option func(o *options)

// WithLength sets the number of bytes the input provides. Without it, the
// length is derived from the input, if possible. A negative length means
// unknown.
func WithLength(length int64) Option {
	return func(o *options) {
		o.length = length
		o.hasLength = true
	}
}

// WithListener sets the [progress.Listener] that receives progress events.
func WithListener(listener progress.Listener) Option {
	return func(o *options) {
		o.listener = listener
	}
}

// WithProperties sets codec properties applied on top of
// [codec.DefaultProperties].
func WithProperties(props ...codec.Property) Option {
	return func(o *options) {
		o.props = append(o.props, props...)
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		length:   codec.UnknownSize,
		listener: progress.Nop,
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.listener == nil {
		o.listener = progress.Nop
	}

	return o
}
