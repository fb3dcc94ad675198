// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package walk

import (
	"errors"
	"io/fs"
	"os"
	"path"

	"github.com/aibor/packstream/internal/packerr"
	"github.com/aibor/packstream/internal/pathset"
)

// DefaultPattern matches all files.
const DefaultPattern = "*"

// legacyAllPattern is the "all files" pattern known from other archivers. It
// would only match names with a dot with [path.Match].
const legacyAllPattern = "*.*"

// Walker lists files of directory trees in FS.
//
// FS must be rooted at the file system root, so absolute paths can be looked
// up with the leading separator removed, like [os.DirFS]("/") does.
type Walker struct {
	FS fs.FS
}

// New creates a new [Walker] for the host file system.
func New() *Walker {
	return &Walker{FS: os.DirFS("/")}
}

// ListFiles lists the files in the given directory on the host file system.
// See [Walker.ListFiles].
func ListFiles(dir, pattern string, recursive bool) ([]string, error) {
	return New().ListFiles(dir, pattern, recursive)
}

// ListFiles returns the absolute paths of all regular files in dir whose name
// matches pattern. Symbolic links to regular files are included, other
// special files are skipped.
//
// If recursive is true, the matches of each subdirectory are appended after
// the matches of its parent. The order within a directory is the order
// [fs.ReadDir] returns.
//
// It fails with [packerr.ErrInvalidInput] if the directory does not exist and
// with [packerr.ErrEmptyInput] if there is no file anywhere in the tree.
func (w *Walker) ListFiles(dir, pattern string, recursive bool) ([]string, error) {
	absDir, err := pathset.AbsolutePath(dir)
	if err != nil {
		return nil, err
	}

	pattern = normalizePattern(pattern)

	_, err = path.Match(pattern, "")
	if err != nil {
		return nil, &packerr.Error{
			Kind:   packerr.KindInvalidInput,
			Detail: "pattern " + pattern,
			Err:    err,
		}
	}

	name := pathset.FSName(absDir)

	err = w.checkDir(name, absDir)
	if err != nil {
		return nil, err
	}

	empty, err := w.isEmpty(name)
	if err != nil {
		return nil, err
	}

	if empty {
		return nil, packerr.EmptyInput("directory %s contains no files", absDir)
	}

	return w.collect(nil, name, pattern, recursive)
}

// IsEmpty returns true if the directory and all its descendants contain no
// files. It stops at the first file found.
func (w *Walker) IsEmpty(dir string) (bool, error) {
	absDir, err := pathset.AbsolutePath(dir)
	if err != nil {
		return false, err
	}

	name := pathset.FSName(absDir)

	err = w.checkDir(name, absDir)
	if err != nil {
		return false, err
	}

	return w.isEmpty(name)
}

func (w *Walker) checkDir(name, absDir string) error {
	info, err := fs.Stat(w.FS, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return packerr.InvalidInput("directory %s does not exist", absDir)
		}

		return &packerr.Error{
			Kind:   packerr.KindInvalidInput,
			Detail: "stat " + absDir,
			Err:    err,
		}
	}

	if !info.IsDir() {
		return packerr.InvalidInput("%s is not a directory", absDir)
	}

	return nil
}

func (w *Walker) isEmpty(name string) (bool, error) {
	entries, err := w.readDir(name)
	if err != nil {
		return false, err
	}

	var subDirs []string

	for _, entry := range entries {
		entryName := path.Join(name, entry.Name())

		switch w.kind(entryName, entry) {
		case kindFile:
			return false, nil
		case kindDir:
			subDirs = append(subDirs, entryName)
		case kindOther:
		}
	}

	for _, subDir := range subDirs {
		empty, err := w.isEmpty(subDir)
		if err != nil || !empty {
			return false, err
		}
	}

	return true, nil
}

func (w *Walker) collect(
	files []string,
	name string,
	pattern string,
	recursive bool,
) ([]string, error) {
	entries, err := w.readDir(name)
	if err != nil {
		return nil, err
	}

	var subDirs []string

	for _, entry := range entries {
		entryName := path.Join(name, entry.Name())

		switch w.kind(entryName, entry) {
		case kindDir:
			subDirs = append(subDirs, entryName)
			continue
		case kindOther:
			continue
		case kindFile:
		}

		// Pattern has been validated already.
		matched, _ := path.Match(pattern, entry.Name())
		if matched {
			files = append(files, absPath(entryName))
		}
	}

	if !recursive {
		return files, nil
	}

	for _, subDir := range subDirs {
		files, err = w.collect(files, subDir, pattern, recursive)
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

type entryKind int

const (
	kindOther entryKind = iota
	kindFile
	kindDir
)

// kind returns the type of the directory entry. Symbolic links are resolved
// and count as files if they point to a regular file. Links to directories
// are not descended into.
func (w *Walker) kind(name string, entry fs.DirEntry) entryKind {
	mode := entry.Type()

	if mode&fs.ModeSymlink != 0 {
		info, err := fs.Stat(w.FS, name)
		if err != nil || !info.Mode().IsRegular() {
			return kindOther
		}

		return kindFile
	}

	switch {
	case mode.IsDir():
		return kindDir
	case mode.IsRegular():
		return kindFile
	default:
		return kindOther
	}
}

func (w *Walker) readDir(name string) ([]fs.DirEntry, error) {
	entries, err := fs.ReadDir(w.FS, name)
	if err != nil {
		return nil, &packerr.Error{
			Kind:   packerr.KindInvalidInput,
			Detail: "read directory " + absPath(name),
			Err:    err,
		}
	}

	return entries, nil
}

func normalizePattern(pattern string) string {
	if pattern == "" || pattern == legacyAllPattern {
		return DefaultPattern
	}

	return pattern
}

// absPath converts a name valid for [fs.FS] back to an absolute path.
func absPath(name string) string {
	if name == "." {
		return pathset.Separator
	}

	return pathset.Separator + name
}
