// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

var ErrOutputLocked = errors.New("output file is locked by another process")

const outputFileMode = 0o644

// createLocked opens the file at path for writing, creating it if necessary,
// and takes an exclusive advisory lock on it. The file is truncated only
// after the lock is held. The lock is released when the file is closed.
func createLocked(path string) (*os.File, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, outputFileMode)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}

	err = unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err != nil {
		_ = file.Close()

		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("%w: %s", ErrOutputLocked, path)
		}

		return nil, fmt.Errorf("lock output: %w", err)
	}

	err = file.Truncate(0)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("truncate output: %w", err)
	}

	return file, nil
}
