// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/aibor/packstream/internal/packerr"
	"github.com/aibor/packstream/internal/progress"
)

// Item is a single entry of an archive.
type Item struct {
	// Index of the item in the file table.
	Index int
	// Name relative to the archive root, slash separated.
	Name    string
	Size    int64
	Mode    fs.FileMode
	ModTime time.Time
	IsDir   bool
}

// Settings are passed to [Engine.UpdateItems].
type Settings struct {
	Method   Method
	Password string
}

// UpdateCallback is the interface an [Engine] pulls items and their content
// through.
type UpdateCallback interface {
	// Next returns the item with the given index. It is the cancellation
	// checkpoint between items and returns [progress.ErrCanceled] once
	// cancellation has been requested.
	Next(index int) (Item, error)
	// Open opens the content of the regular item with the given index.
	Open(index int) (io.ReadCloser, error)
	// SetCompleted reports the total number of content bytes consumed so
	// far. It returns [progress.ErrCanceled] once cancellation has been
	// requested.
	SetCompleted(done int64) error
	// ReportError reports the cause of a failure. Index is -1 for failures
	// not related to a single item.
	ReportError(index int, err error)
}

// Engine writes archives of a single format.
type Engine interface {
	// UpdateItems writes an archive with count items to out. Items are
	// pulled from cb in index order.
	UpdateItems(out io.Writer, count int, settings Settings, cb UpdateCallback) Status
}

// Status is the result of [Engine.UpdateItems].
//
// Zero is success. [StatusAborted] means the operation was canceled. Other
// negative values are failures of the whole operation. Positive values
// encode the failure of a single item as index*10 + sub code.
type Status int

const (
	StatusOK          Status = 0
	StatusAborted     Status = -1
	StatusFailed      Status = -2
	StatusUnsupported Status = -3
)

// Sub codes of item failures.
const (
	SubAlreadyExists = 4
	SubCreateFailed  = 5
	SubReadFailed    = 6

	subCodes = 10
)

// ItemStatus returns the [Status] for the failure of the item with the given
// index.
func ItemStatus(index, sub int) Status {
	return Status(index*subCodes + sub)
}

// Err translates the status into an error. cause is the error the engine
// reported, if any.
func (s Status) Err(cause error) error {
	switch {
	case s == StatusOK:
		return nil
	case s == StatusAborted:
		return progress.ErrCanceled
	case s < 0:
		return packerr.Codec(fmt.Sprintf("engine status %d", s), cause)
	}

	index, sub := int(s)/subCodes, int(s)%subCodes

	reason := packerr.ReasonOther

	switch sub {
	case SubAlreadyExists:
		reason = packerr.ReasonAlreadyExists
	case SubCreateFailed:
		reason = packerr.ReasonCreateFailed
	}

	return packerr.ItemFailure(index, reason, int(s), cause)
}
