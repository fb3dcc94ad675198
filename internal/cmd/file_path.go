// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FilePath is a [flag.Value] that makes the path absolute.
type FilePath string

func (f *FilePath) String() string {
	return string(*f)
}

func (f *FilePath) Set(s string) error {
	path, err := AbsoluteFilePath(s)
	if err != nil {
		return err
	}

	*f = FilePath(path)

	return nil
}

// FilePathList is a [flag.Value] for a list of absolute paths. It can be set
// multiple times and each value may be a comma separated list. An empty value
// clears the list.
type FilePathList []string

func (f *FilePathList) String() string {
	return strings.Join(*f, ",")
}

func (f *FilePathList) Set(s string) error {
	if s == "" {
		*f = nil
		return nil
	}

	for e := range strings.SplitSeq(s, ",") {
		path, err := AbsoluteFilePath(e)
		if err != nil {
			return err
		}

		*f = append(*f, path)
	}

	return nil
}

// Unique returns the list without duplicates, keeping the first occurrence
// of each path.
func (f FilePathList) Unique() FilePathList {
	seen := make(map[string]bool, len(f))
	unique := make(FilePathList, 0, len(f))

	for _, path := range f {
		if seen[path] {
			continue
		}

		seen[path] = true
		unique = append(unique, path)
	}

	return unique
}

// AbsoluteFilePath returns the cleaned absolute path of the given path.
func AbsoluteFilePath(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyFilePath
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("absolute path: %w", err)
	}

	return path, nil
}
