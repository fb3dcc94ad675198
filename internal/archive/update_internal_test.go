// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/aibor/packstream/internal/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCallback serves a fixed list of items with their names as content.
type fakeCallback struct {
	items     []Item
	openErr   error
	cancelAt  int64
	completed []int64
	errs      map[int]error
}

func (c *fakeCallback) Next(index int) (Item, error) {
	return c.items[index], nil
}

func (c *fakeCallback) Open(index int) (io.ReadCloser, error) {
	if c.openErr != nil {
		return nil, c.openErr
	}

	return io.NopCloser(strings.NewReader(c.items[index].Name)), nil
}

func (c *fakeCallback) SetCompleted(done int64) error {
	c.completed = append(c.completed, done)

	if c.cancelAt > 0 && done >= c.cancelAt {
		return progress.ErrCanceled
	}

	return nil
}

func (c *fakeCallback) ReportError(index int, err error) {
	if c.errs == nil {
		c.errs = map[int]error{}
	}

	c.errs[index] = err
}

func fakeItems(names ...string) []Item {
	items := make([]Item, len(names))
	for idx, name := range names {
		items[idx] = Item{
			Index: idx,
			Name:  name,
			Size:  int64(len(name)),
			Mode:  0o644,
		}
	}

	return items
}

func TestContainerEngine_UpdateItems(t *testing.T) {
	tests := []struct {
		name           string
		settings       Settings
		cb             *fakeCallback
		expectedStatus Status
		expectedErrs   []int
		expectedErr    error
	}{
		{
			name:           "success",
			cb:             &fakeCallback{items: fakeItems("one", "two")},
			expectedStatus: StatusOK,
		},
		{
			name:           "duplicate name",
			cb:             &fakeCallback{items: fakeItems("one", "two", "one")},
			expectedStatus: 24,
			expectedErrs:   []int{2},
			expectedErr:    ErrDuplicateName,
		},
		{
			name: "open failure",
			cb: &fakeCallback{
				items:   fakeItems("one"),
				openErr: assert.AnError,
			},
			expectedStatus: 5,
			expectedErrs:   []int{0},
			expectedErr:    assert.AnError,
		},
		{
			name: "canceled while reading",
			cb: &fakeCallback{
				items:    fakeItems("one", "two"),
				cancelAt: 4,
			},
			expectedStatus: StatusAborted,
		},
		{
			name:           "password",
			settings:       Settings{Password: "secret"},
			cb:             &fakeCallback{items: fakeItems("one")},
			expectedStatus: StatusUnsupported,
			expectedErrs:   []int{-1},
			expectedErr:    ErrEncryption,
		},
		{
			name:           "unsupported method",
			settings:       Settings{Method: MethodDeflate},
			cb:             &fakeCallback{items: fakeItems("one")},
			expectedStatus: StatusUnsupported,
			expectedErrs:   []int{-1},
			expectedErr:    ErrMethodInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &containerEngine{
				format:    FormatTar,
				newWriter: compressedStream(newTar),
			}

			status := engine.UpdateItems(&bytes.Buffer{}, len(tt.cb.items), tt.settings, tt.cb)
			assert.Equal(t, tt.expectedStatus, status, "status")

			for _, index := range tt.expectedErrs {
				require.Contains(t, tt.cb.errs, index)
				require.ErrorIs(t, tt.cb.errs[index], tt.expectedErr)
			}

			if tt.expectedErrs == nil {
				assert.Empty(t, tt.cb.errs, "reported errors")
			}
		})
	}
}

func TestContainerEngine_Completion(t *testing.T) {
	cb := &fakeCallback{items: fakeItems("one", "three")}

	engine := &containerEngine{
		format:    FormatCPIO,
		newWriter: compressedStream(newCPIO),
	}

	status := engine.UpdateItems(&bytes.Buffer{}, 2, Settings{}, cb)
	require.Equal(t, StatusOK, status)

	assert.Equal(t, []int64{3, 8}, cb.completed)
}
