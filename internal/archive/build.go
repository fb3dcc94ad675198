// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/aibor/packstream/internal/filetable"
	"github.com/aibor/packstream/internal/packerr"
	"github.com/aibor/packstream/internal/pathset"
	"github.com/aibor/packstream/internal/progress"
	"github.com/aibor/packstream/internal/walk"
)

var ErrNoSuchItem = errors.New("no such item")

// Request describes an archive to build.
//
// Either Paths or Directory must be set. With Paths, every path is added
// together with the directories between Root and the path. Root defaults to
// the common root of all paths. With Directory, all files in the directory
// matching Pattern are added, recursively unless NoRecursion is set. The
// directory itself is the root.
type Request struct {
	Paths       []string
	Directory   string
	Pattern     string
	NoRecursion bool
	Root        string

	// Format defaults to [FormatZip], Method to the format's default method.
	Format   Format
	Method   Method
	Password string

	// Listener receives progress events. It may be nil.
	Listener progress.Listener
	// FS is the file system the paths are looked up in. It must be rooted at
	// "/". Defaults to the host file system.
	FS fs.FS
}

// build is a resolved [Request]. Nothing has been written yet.
type build struct {
	format   Format
	settings Settings
	listener progress.Listener
	fsys     fs.FS
	table    *filetable.Table
	infos    []fs.FileInfo
	items    []Item
	paths    []string
	total    int64
}

// resolve validates the request and builds the file table. It does not
// touch any output.
func resolve(req Request) (*build, error) {
	b := &build{
		format:   req.Format,
		listener: req.Listener,
		fsys:     req.FS,
		settings: Settings{
			Method:   req.Method,
			Password: req.Password,
		},
	}

	if b.format == "" {
		b.format = FormatZip
	}

	if b.fsys == nil {
		b.fsys = os.DirFS("/")
	}

	err := b.validateSettings()
	if err != nil {
		return nil, err
	}

	table, err := b.fileTable(req)
	if err != nil {
		return nil, err
	}

	b.table = table

	err = b.stat()
	if err != nil {
		return nil, err
	}

	return b, nil
}

func (b *build) validateSettings() error {
	if !b.format.isKnown() {
		return packerr.InvalidInput("unknown format %q", string(b.format))
	}

	if b.settings.Method == "" {
		b.settings.Method = b.format.DefaultMethod()
	}

	if !b.format.Supports(b.settings.Method) {
		return packerr.InvalidInput("format %s does not support method %q",
			b.format, string(b.settings.Method))
	}

	if b.settings.Password != "" {
		return packerr.InvalidInput("format %s does not support encryption",
			b.format)
	}

	return nil
}

func (b *build) fileTable(req Request) (*filetable.Table, error) {
	switch {
	case req.Directory != "" && len(req.Paths) > 0:
		return nil, packerr.InvalidInput("both paths and directory given")
	case req.Directory != "":
		return directoryTable(b.fsys, req)
	case len(req.Paths) > 0:
		return pathsTable(req)
	default:
		return nil, packerr.InvalidInput("neither paths nor directory given")
	}
}

func directoryTable(fsys fs.FS, req Request) (*filetable.Table, error) {
	dir, err := pathset.AbsolutePath(req.Directory)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	walker := walk.Walker{FS: fsys}

	files, err := walker.ListFiles(dir, req.Pattern, !req.NoRecursion)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if len(files) == 0 {
		return nil, packerr.EmptyInput("no file in %s matches %q", dir, req.Pattern)
	}

	return filetable.Build(files, dir) //nolint:wrapcheck
}

func pathsTable(req Request) (*filetable.Table, error) {
	root := req.Root
	if root == "" {
		var err error

		root, err = pathset.CommonRoot(req.Paths)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}
	}

	return filetable.Build(req.Paths, root) //nolint:wrapcheck
}

// stat collects the metadata of all file table entries.
func (b *build) stat() error {
	table := b.table

	b.infos = make([]fs.FileInfo, table.Len())
	b.items = make([]Item, table.Len())
	b.paths = make([]string, table.Len())

	for idx, entry := range table.Entries {
		info, err := fs.Stat(b.fsys, pathset.FSName(entry.Path))
		if err != nil {
			return &packerr.Error{
				Kind:   packerr.KindInvalidInput,
				Detail: "stat " + entry.Path,
				Err:    err,
			}
		}

		item := Item{
			Index:   idx,
			Name:    table.Name(idx),
			Mode:    info.Mode(),
			ModTime: info.ModTime(),
			IsDir:   info.IsDir(),
		}

		if !item.IsDir {
			if !info.Mode().IsRegular() {
				return packerr.InvalidInput("%s is not a regular file", entry.Path)
			}

			item.Size = info.Size()
			b.total += item.Size
		}

		b.infos[idx] = info
		b.items[idx] = item
		b.paths[idx] = entry.Path
	}

	return nil
}

// run writes the archive to out.
func (b *build) run(ctx context.Context, out io.Writer) error {
	engine, err := engines.acquire(b.format)
	if err != nil {
		return err
	}
	defer engines.release(b.format)

	tracker := progress.NewTracker(b.listener, len(b.items), b.total)

	cb := &updateCallback{
		ctx:     ctx,
		fsys:    b.fsys,
		items:   b.items,
		paths:   b.paths,
		tracker: tracker,
	}

	status := engine.UpdateItems(out, len(b.items), b.settings, cb)

	err = status.Err(cb.err)
	if err != nil {
		return err
	}

	slog.Debug("Archive written",
		slog.String("format", b.format.String()),
		slog.String("method", b.settings.Method.String()),
		slog.Int("items", len(b.items)),
		slog.Int64("bytes", tracker.Done()))

	return nil
}

// Build writes the archive described by req to out.
//
// All inputs are resolved before anything is written to out. If the
// listener cancels or ctx is done, [progress.ErrCanceled] is returned and out
// contains an incomplete archive.
func Build(ctx context.Context, req Request, out io.Writer) error {
	b, err := resolve(req)
	if err != nil {
		return err
	}

	return b.run(ctx, out)
}

// BuildFile writes the archive described by req to the file at path.
//
// The file is created only after all inputs are resolved. It must not be one
// of the inputs. It is locked
// exclusively while written and removed again on any failure, including
// cancellation.
func BuildFile(ctx context.Context, req Request, path string) (err error) {
	b, err := resolve(req)
	if err != nil {
		return err
	}

	err = b.checkOutput(path)
	if err != nil {
		return err
	}

	file, err := createLocked(path)
	if err != nil {
		return err
	}

	defer func() {
		closeErr := file.Close()
		if closeErr != nil && err == nil {
			err = packerr.Codec("close output", closeErr)
		}

		if err != nil {
			removeOutput(path)
		}
	}()

	return b.run(ctx, file)
}

// checkOutput fails if the file at path is one of the files to archive.
func (b *build) checkOutput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		// Errors other than a missing file surface when creating the output.
		return nil //nolint:nilerr
	}

	for idx, entry := range b.table.Leaves() {
		if os.SameFile(info, b.infos[idx]) {
			return packerr.InvalidInput("output %s is input %s", path, entry.Path)
		}
	}

	return nil
}

func removeOutput(path string) {
	slog.Debug("Removing incomplete archive", slog.String("path", path))

	err := os.Remove(path)
	if err != nil {
		slog.Error(
			"Failed to remove incomplete archive",
			slog.String("path", path),
			slog.Any("error", fmt.Errorf("remove: %w", err)),
		)
	}
}
