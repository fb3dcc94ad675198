// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"context"
	"io"
	"io/fs"

	"github.com/aibor/packstream/internal/progress"
	"github.com/aibor/packstream/internal/walk"
)

// Option configures [CompressFiles] and [CompressDirectory].
type Option func(req *Request)

// WithFormat sets the archive format.
func WithFormat(format Format) Option {
	return func(req *Request) {
		req.Format = format
	}
}

// WithMethod sets the compression method.
func WithMethod(method Method) Option {
	return func(req *Request) {
		req.Method = method
	}
}

// WithPassword sets the archive password.
func WithPassword(password string) Option {
	return func(req *Request) {
		req.Password = password
	}
}

// WithListener sets the progress listener.
func WithListener(listener progress.Listener) Option {
	return func(req *Request) {
		req.Listener = listener
	}
}

// WithFS sets the file system the inputs are read from.
func WithFS(fsys fs.FS) Option {
	return func(req *Request) {
		req.FS = fsys
	}
}

// WithRoot sets the common root of [CompressFiles].
func WithRoot(root string) Option {
	return func(req *Request) {
		req.Root = root
	}
}

// WithPattern sets the search pattern of [CompressDirectory].
func WithPattern(pattern string) Option {
	return func(req *Request) {
		req.Pattern = pattern
	}
}

// WithRecursion sets whether [CompressDirectory] descends into
// subdirectories.
func WithRecursion(recursive bool) Option {
	return func(req *Request) {
		req.NoRecursion = !recursive
	}
}

// CompressFiles writes an archive of the given files to out. Names in the
// archive are relative to the common root of the paths, unless [WithRoot] is
// given.
func CompressFiles(ctx context.Context, paths []string, out io.Writer, opts ...Option) error {
	req := Request{Paths: paths}

	for _, opt := range opts {
		opt(&req)
	}

	req.Directory = ""

	return Build(ctx, req, out)
}

// CompressDirectory writes an archive of the files in dir to out. Names in
// the archive are relative to dir. By default all files are added
// recursively.
func CompressDirectory(ctx context.Context, dir string, out io.Writer, opts ...Option) error {
	req := Request{
		Directory: dir,
		Pattern:   walk.DefaultPattern,
	}

	for _, opt := range opts {
		opt(&req)
	}

	req.Paths = nil
	req.Root = ""

	return Build(ctx, req, out)
}
