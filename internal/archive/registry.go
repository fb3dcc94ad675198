// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aibor/packstream/internal/packerr"
)

// loadFunc initializes the engine for a format.
type loadFunc func() (Engine, error)

type handle struct {
	engine Engine
	refs   int
}

// registry holds the loaded engines. An engine is loaded on first acquire
// and freed on the last release. A single lock guards all handles.
type registry struct {
	mu      sync.Mutex
	loaders map[Format]loadFunc
	handles map[Format]*handle
}

func newRegistry(loaders map[Format]loadFunc) *registry {
	return &registry{
		loaders: loaders,
		handles: make(map[Format]*handle),
	}
}

func defaultLoaders() map[Format]loadFunc {
	return map[Format]loadFunc{
		FormatZip: func() (Engine, error) {
			return &containerEngine{format: FormatZip, newWriter: newZip}, nil
		},
		FormatTar: func() (Engine, error) {
			return &containerEngine{
				format:    FormatTar,
				newWriter: compressedStream(newTar),
			}, nil
		},
		FormatCPIO: func() (Engine, error) {
			return &containerEngine{
				format:    FormatCPIO,
				newWriter: compressedStream(newCPIO),
			}, nil
		},
	}
}

var engines = newRegistry(defaultLoaders()) //nolint:gochecknoglobals

// acquire returns the engine for the format and increments its reference
// count. Each successful acquire must be paired with a release.
func (r *registry) acquire(format Format) (Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, exists := r.handles[format]; exists {
		h.refs++
		return h.engine, nil
	}

	load, exists := r.loaders[format]
	if !exists {
		return nil, packerr.LibraryUnavailable(string(format), ErrFormatInvalid)
	}

	engine, err := load()
	if err != nil {
		return nil, packerr.LibraryUnavailable(format.String(), err)
	}

	r.handles[format] = &handle{engine: engine, refs: 1}

	slog.Debug("Engine loaded", slog.String("format", format.String()))

	return engine, nil
}

// release decrements the reference count of the format's engine and frees it
// once unused.
func (r *registry) release(format Format) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, exists := r.handles[format]
	if !exists {
		return
	}

	h.refs--
	if h.refs > 0 {
		return
	}

	delete(r.handles, format)

	if closer, ok := h.engine.(io.Closer); ok {
		err := closer.Close()
		if err != nil {
			slog.Warn("Failed to free engine",
				slog.String("format", format.String()),
				slog.Any("error", fmt.Errorf("close: %w", err)))
		}
	}

	slog.Debug("Engine freed", slog.String("format", format.String()))
}

// refs returns the current reference count of the format's engine.
func (r *registry) refs(format Format) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, exists := r.handles[format]; exists {
		return h.refs
	}

	return 0
}
