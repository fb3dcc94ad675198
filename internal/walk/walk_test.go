// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package walk_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/aibor/packstream/internal/packerr"
	"github.com/aibor/packstream/internal/walk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"src/a.txt":          &fstest.MapFile{Data: []byte("a")},
		"src/b.log":          &fstest.MapFile{Data: []byte("b")},
		"src/sub/c.txt":      &fstest.MapFile{Data: []byte("c")},
		"src/sub/deep/d.txt": &fstest.MapFile{Data: []byte("d")},
		"src/sub/deep/e.bin": &fstest.MapFile{Data: []byte("e")},
		"src/nothing":        &fstest.MapFile{Mode: fs.ModeDir},
		"empty/x/y/z":        &fstest.MapFile{Mode: fs.ModeDir},
		"empty/w":            &fstest.MapFile{Mode: fs.ModeDir},
		"single/1/2/3/file":  &fstest.MapFile{Data: []byte("deep")},
		"single/1/other":     &fstest.MapFile{Mode: fs.ModeDir},
		"afile":              &fstest.MapFile{Data: []byte("x")},
	}
}

func TestWalker_ListFiles(t *testing.T) {
	tests := []struct {
		name        string
		dir         string
		pattern     string
		recursive   bool
		expected    []string
		expectedErr error
	}{
		{
			name:      "recursive all",
			dir:       "/src",
			recursive: true,
			expected: []string{
				"/src/a.txt",
				"/src/b.log",
				"/src/sub/c.txt",
				"/src/sub/deep/d.txt",
				"/src/sub/deep/e.bin",
			},
		},
		{
			name:      "recursive legacy all pattern",
			dir:       "/src",
			pattern:   "*.*",
			recursive: true,
			expected: []string{
				"/src/a.txt",
				"/src/b.log",
				"/src/sub/c.txt",
				"/src/sub/deep/d.txt",
				"/src/sub/deep/e.bin",
			},
		},
		{
			name:      "recursive with pattern",
			dir:       "/src",
			pattern:   "*.txt",
			recursive: true,
			expected: []string{
				"/src/a.txt",
				"/src/sub/c.txt",
				"/src/sub/deep/d.txt",
			},
		},
		{
			name:    "non recursive",
			dir:     "/src",
			pattern: "*",
			expected: []string{
				"/src/a.txt",
				"/src/b.log",
			},
		},
		{
			name:      "trailing separator",
			dir:       "/src/sub/",
			recursive: true,
			expected: []string{
				"/src/sub/c.txt",
				"/src/sub/deep/d.txt",
				"/src/sub/deep/e.bin",
			},
		},
		{
			name:      "single file at depth 3",
			dir:       "/single",
			recursive: true,
			expected:  []string{"/single/1/2/3/file"},
		},
		{
			name:        "empty tree",
			dir:         "/empty",
			recursive:   true,
			expectedErr: packerr.ErrEmptyInput,
		},
		{
			name:        "empty tree non recursive",
			dir:         "/empty",
			expectedErr: packerr.ErrEmptyInput,
		},
		{
			name:        "not existing",
			dir:         "/missing",
			recursive:   true,
			expectedErr: packerr.ErrInvalidInput,
		},
		{
			name:        "not a directory",
			dir:         "/afile",
			expectedErr: packerr.ErrInvalidInput,
		},
		{
			name:        "bad pattern",
			dir:         "/src",
			pattern:     "[",
			expectedErr: packerr.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			walker := walk.Walker{FS: testFS()}

			files, err := walker.ListFiles(tt.dir, tt.pattern, tt.recursive)
			require.ErrorIs(t, err, tt.expectedErr)
			assert.ElementsMatch(t, tt.expected, files)
		})
	}
}

func TestWalker_ListFiles_ParentBeforeChildren(t *testing.T) {
	walker := walk.Walker{FS: testFS()}

	files, err := walker.ListFiles("/src", "", true)
	require.NoError(t, err)

	index := func(name string) int {
		for idx, file := range files {
			if file == name {
				return idx
			}
		}

		return -1
	}

	assert.Less(t, index("/src/a.txt"), index("/src/sub/c.txt"))
	assert.Less(t, index("/src/sub/c.txt"), index("/src/sub/deep/d.txt"))
}

func TestWalker_IsEmpty(t *testing.T) {
	walker := walk.Walker{FS: testFS()}

	empty, err := walker.IsEmpty("/empty")
	require.NoError(t, err)
	assert.True(t, empty)

	empty, err = walker.IsEmpty("/single")
	require.NoError(t, err)
	assert.False(t, empty)

	_, err = walker.IsEmpty("/missing")
	assert.ErrorIs(t, err, packerr.ErrInvalidInput)
}

func TestListFiles_HostFS(t *testing.T) {
	dir := t.TempDir()

	deep := filepath.Join(dir, "a", "b", "c")
	require.NoError(t, os.MkdirAll(deep, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "x"), 0o755))

	_, err := walk.ListFiles(dir, "", true)
	require.ErrorIs(t, err, packerr.ErrEmptyInput)

	file := filepath.Join(deep, "file")
	require.NoError(t, os.WriteFile(file, []byte("content"), 0o600))

	files, err := walk.ListFiles(dir, "", true)
	require.NoError(t, err)
	assert.Equal(t, []string{file}, files)

	files, err = walk.ListFiles(dir, "", false)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestListFiles_HostFSSymlinks(t *testing.T) {
	outside := t.TempDir()
	target := filepath.Join(outside, "target")
	targetDir := filepath.Join(outside, "dir")

	require.NoError(t, os.WriteFile(target, []byte("content"), 0o600))
	require.NoError(t, os.MkdirAll(targetDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(targetDir, "file"), []byte("x"), 0o600))

	dir := t.TempDir()
	require.NoError(t, os.Symlink(targetDir, filepath.Join(dir, "dirlink")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "missing"), filepath.Join(dir, "broken")))

	empty, err := walk.New().IsEmpty(dir)
	require.NoError(t, err)
	assert.True(t, empty, "links to directories do not count as files")

	_, err = walk.ListFiles(dir, "", true)
	require.ErrorIs(t, err, packerr.ErrEmptyInput)

	fileLink := filepath.Join(dir, "filelink")
	require.NoError(t, os.Symlink(target, fileLink))

	files, err := walk.ListFiles(dir, "", true)
	require.NoError(t, err)
	assert.Equal(t, []string{fileLink}, files)
}
