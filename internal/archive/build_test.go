// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/aibor/packstream/internal/archive"
	"github.com/aibor/packstream/internal/packerr"
	"github.com/aibor/packstream/internal/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_FormatsAndMethods(t *testing.T) {
	expected := map[string]string{
		"a":    "/",
		"a/f1": "first file",
		"a/f2": "second file",
		"b":    "/",
		"b/f3": "third file",
	}

	for _, format := range archive.Formats() {
		methods := append([]archive.Method{""}, format.Methods()...)

		for _, method := range methods {
			t.Run(fmt.Sprintf("%s/%s", format, method), func(t *testing.T) {
				var out bytes.Buffer

				req := archive.Request{
					Paths:  []string{"/r/a/f1", "/r/a/f2", "/r/b/f3"},
					Format: format,
					Method: method,
					FS:     testFS(),
				}

				err := archive.Build(context.Background(), req, &out)
				require.NoError(t, err)

				assert.Equal(t, expected, content(t, out.Bytes(), format, method))
			})
		}
	}
}

func TestBuild_ItemOrderAndMetadata(t *testing.T) {
	var out bytes.Buffer

	req := archive.Request{
		Paths:  []string{"/r/b/f3", "/r/a/f1"},
		Format: archive.FormatTar,
		Method: archive.MethodStore,
		FS:     testFS(),
	}

	require.NoError(t, archive.Build(context.Background(), req, &out))

	items, err := archive.List(&out, archive.FormatTar, archive.MethodStore)
	require.NoError(t, err)

	names := make([]string, len(items))
	for idx, item := range items {
		names[idx] = item.Name
	}

	assert.Equal(t, []string{"b", "b/f3", "a", "a/f1"}, names)
	assert.True(t, items[0].IsDir)
	assert.Equal(t, int64(len("third file")), items[1].Size)
	assert.True(t, testTime.Equal(items[1].ModTime), "mod time")
	assert.EqualValues(t, 0o644, items[1].Mode.Perm())
}

func TestBuild_Directory(t *testing.T) {
	tests := []struct {
		name        string
		req         archive.Request
		expected    map[string]string
		expectedErr error
	}{
		{
			name: "recursive",
			req: archive.Request{
				Directory: "/r/b",
			},
			expected: map[string]string{
				"f3":          "third file",
				"deep":        "/",
				"deep/f4.txt": "fourth file",
				"deep/f5.log": "fifth file",
			},
		},
		{
			name: "recursive with pattern",
			req: archive.Request{
				Directory: "/r",
				Pattern:   "*.txt",
			},
			expected: map[string]string{
				"b":             "/",
				"b/deep":        "/",
				"b/deep/f4.txt": "fourth file",
			},
		},
		{
			name: "not recursive",
			req: archive.Request{
				Directory:   "/r/b",
				NoRecursion: true,
			},
			expected: map[string]string{
				"f3": "third file",
			},
		},
		{
			name: "pattern without match",
			req: archive.Request{
				Directory: "/r",
				Pattern:   "*.none",
			},
			expectedErr: packerr.ErrEmptyInput,
		},
		{
			name: "empty tree",
			req: archive.Request{
				Directory: "/empty",
			},
			expectedErr: packerr.ErrEmptyInput,
		},
		{
			name: "missing directory",
			req: archive.Request{
				Directory: "/missing",
			},
			expectedErr: packerr.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			req := tt.req
			req.FS = testFS()
			req.Format = archive.FormatZip

			err := archive.Build(context.Background(), req, &out)
			require.ErrorIs(t, err, tt.expectedErr)

			if tt.expectedErr != nil {
				assert.Zero(t, out.Len(), "output touched")
				return
			}

			assert.Equal(t, tt.expected, content(t, out.Bytes(), archive.FormatZip, ""))
		})
	}
}

func TestBuild_InvalidRequest(t *testing.T) {
	tests := []struct {
		name        string
		req         archive.Request
		expectedErr error
	}{
		{
			name:        "no input",
			req:         archive.Request{},
			expectedErr: packerr.ErrInvalidInput,
		},
		{
			name: "paths and directory",
			req: archive.Request{
				Paths:     []string{"/r/a/f1"},
				Directory: "/r",
			},
			expectedErr: packerr.ErrInvalidInput,
		},
		{
			name: "relative path",
			req: archive.Request{
				Paths: []string{"r/a/f1", "/r/a/f2"},
			},
			expectedErr: packerr.ErrInvalidInput,
		},
		{
			name: "no common root",
			req: archive.Request{
				Paths: []string{"/r/a/f1", "/big/blob"},
			},
			expectedErr: packerr.ErrInvalidInput,
		},
		{
			name: "path outside given root",
			req: archive.Request{
				Paths: []string{"/r/a/f1", "/big/blob"},
				Root:  "/r",
			},
			expectedErr: packerr.ErrInvalidInput,
		},
		{
			name: "missing file",
			req: archive.Request{
				Paths: []string{"/r/a/f1", "/r/a/missing"},
			},
			expectedErr: packerr.ErrInvalidInput,
		},
		{
			name: "unknown format",
			req: archive.Request{
				Paths:  []string{"/r/a/f1"},
				Format: "rar",
			},
			expectedErr: packerr.ErrInvalidInput,
		},
		{
			name: "unsupported method",
			req: archive.Request{
				Paths:  []string{"/r/a/f1"},
				Format: archive.FormatZip,
				Method: archive.MethodLZ4,
			},
			expectedErr: packerr.ErrInvalidInput,
		},
		{
			name: "password",
			req: archive.Request{
				Paths:    []string{"/r/a/f1"},
				Password: "secret",
			},
			expectedErr: packerr.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			req := tt.req
			req.FS = testFS()

			err := archive.Build(context.Background(), req, &out)
			require.ErrorIs(t, err, tt.expectedErr)
			assert.Zero(t, out.Len(), "output touched")
		})
	}
}

func TestBuild_Progress(t *testing.T) {
	var (
		items  []progress.ItemEvent
		events []progress.ProgressEvent
	)

	listener := progress.Funcs{
		OnItemStarted: func(event *progress.ItemEvent) {
			items = append(items, *event)
		},
		OnProgress: func(event *progress.ProgressEvent) {
			events = append(events, *event)
		},
	}

	req := archive.Request{
		Paths:    []string{"/big/blob", "/r/a/f1"},
		Root:     "/",
		Format:   archive.FormatCPIO,
		Listener: listener,
		FS:       testFS(),
	}

	require.NoError(t, archive.Build(context.Background(), req, &bytes.Buffer{}))

	require.Len(t, items, 5)
	assert.Equal(t, "big", items[0].Name)
	assert.Equal(t, "big/blob", items[1].Name)
	assert.Equal(t, "r/a/f1", items[4].Name)
	assert.Equal(t, uint8(100), items[4].PercentDone)

	total := int64(16*16384 + len("first file"))

	require.NotEmpty(t, events)

	var last int64
	for _, event := range events {
		assert.Greater(t, event.Done, last)
		assert.Equal(t, total, event.Total)
		last = event.Done
	}

	assert.Equal(t, total, last)
	assert.Equal(t, uint8(100), events[len(events)-1].PercentDone)
}

func TestBuild_Cancel(t *testing.T) {
	tests := []struct {
		name          string
		listener      func(started *int) progress.Listener
		expectedItems int
	}{
		{
			name: "first item event",
			listener: func(started *int) progress.Listener {
				return progress.Funcs{
					OnItemStarted: func(event *progress.ItemEvent) {
						*started++

						event.Cancel()
					},
				}
			},
			expectedItems: 1,
		},
		{
			name: "first progress event",
			listener: func(started *int) progress.Listener {
				return progress.Funcs{
					OnItemStarted: func(*progress.ItemEvent) {
						*started++
					},
					OnProgress: func(event *progress.ProgressEvent) {
						event.Cancel()
					},
				}
			},
			// Directory "a" and file "a/f1".
			expectedItems: 2,
		},
	}

	for _, format := range archive.Formats() {
		for _, tt := range tests {
			t.Run(fmt.Sprintf("%s/%s", format, tt.name), func(t *testing.T) {
				var started int

				req := archive.Request{
					Paths:    []string{"/r/a/f1", "/r/a/f2", "/r/b/f3"},
					Format:   format,
					Listener: tt.listener(&started),
					FS:       testFS(),
				}

				err := archive.Build(context.Background(), req, &bytes.Buffer{})
				require.ErrorIs(t, err, progress.ErrCanceled)
				assert.NotErrorIs(t, err, packerr.ErrCodec)
				assert.Equal(t, tt.expectedItems, started)
				assert.Less(t, started, 5)
			})
		}
	}
}

func TestBuild_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var started int

	req := archive.Request{
		Paths: []string{"/r/a/f1"},
		Listener: progress.Funcs{
			OnItemStarted: func(*progress.ItemEvent) { started++ },
		},
		FS: testFS(),
	}

	err := archive.Build(ctx, req, &bytes.Buffer{})
	require.ErrorIs(t, err, progress.ErrCanceled)
	assert.Zero(t, started)
}

type failingWriter struct {
	after int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.after < len(p) {
		return 0, assert.AnError
	}

	w.after -= len(p)

	return len(p), nil
}

func TestBuild_OutputFailure(t *testing.T) {
	fsys := testFS()
	fsys["big/other"] = fsys["big/blob"]

	req := archive.Request{
		Paths:  []string{"/big/blob", "/big/other"},
		Root:   "/",
		Format: archive.FormatTar,
		Method: archive.MethodStore,
		FS:     fsys,
	}

	err := archive.Build(context.Background(), req, &failingWriter{after: 4096})
	require.Error(t, err)
	require.ErrorIs(t, err, packerr.ErrItemFailure)
	require.ErrorIs(t, err, assert.AnError)

	var packErr *packerr.Error
	require.ErrorAs(t, err, &packErr)
	assert.Equal(t, 1, packErr.Index)
	assert.Equal(t, packerr.ReasonOther, packErr.Reason)
	assert.Equal(t, 16, packErr.Code)
}

func TestCompressFiles(t *testing.T) {
	var out bytes.Buffer

	err := archive.CompressFiles(
		context.Background(),
		[]string{"/r/a/f1", "/r/b/f3"},
		&out,
		archive.WithFS(testFS()),
		archive.WithRoot("/r/"),
		archive.WithFormat(archive.FormatCPIO),
		archive.WithMethod(archive.MethodLZ4),
		archive.WithListener(progress.Nop),
	)
	require.NoError(t, err)

	expected := map[string]string{
		"a":    "/",
		"a/f1": "first file",
		"b":    "/",
		"b/f3": "third file",
	}
	assert.Equal(t, expected, content(t, out.Bytes(), archive.FormatCPIO, archive.MethodLZ4))
}

func TestCompressFiles_Password(t *testing.T) {
	err := archive.CompressFiles(
		context.Background(),
		[]string{"/r/a/f1"},
		&bytes.Buffer{},
		archive.WithFS(testFS()),
		archive.WithPassword("secret"),
	)
	require.ErrorIs(t, err, packerr.ErrInvalidInput)
}

func TestCompressDirectory(t *testing.T) {
	var out bytes.Buffer

	err := archive.CompressDirectory(
		context.Background(),
		"/r/b",
		&out,
		archive.WithFS(testFS()),
		archive.WithRecursion(false),
		archive.WithFormat(archive.FormatTar),
		archive.WithMethod(archive.MethodZstd),
	)
	require.NoError(t, err)

	expected := map[string]string{
		"f3": "third file",
	}
	assert.Equal(t, expected, content(t, out.Bytes(), archive.FormatTar, archive.MethodZstd))
}

func TestCompressDirectory_Pattern(t *testing.T) {
	var out bytes.Buffer

	err := archive.CompressDirectory(
		context.Background(),
		"/r/b/deep",
		&out,
		archive.WithFS(testFS()),
		archive.WithPattern("*.log"),
	)
	require.NoError(t, err)

	expected := map[string]string{
		"f5.log": "fifth file",
	}
	assert.Equal(t, expected, content(t, out.Bytes(), archive.FormatZip, ""))
}
