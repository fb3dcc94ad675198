// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pathset

import (
	"path/filepath"
	"strings"

	"github.com/aibor/packstream/internal/packerr"
)

// Separator is the directory separator all paths are split on.
const Separator = string(filepath.Separator)

// AbsolutePath returns the cleaned absolute path for the given path.
func AbsolutePath(path string) (string, error) {
	if path == "" {
		return "", packerr.InvalidInput("empty path")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &packerr.Error{
			Kind:   packerr.KindInvalidInput,
			Detail: "absolute path for " + path,
			Err:    err,
		}
	}

	return abs, nil
}

// Clean checks that all given paths are absolute and returns them cleaned by
// [filepath.Clean]. The input is not modified.
func Clean(paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, packerr.InvalidInput("no paths given")
	}

	cleaned := make([]string, len(paths))

	for idx, path := range paths {
		if path == "" {
			return nil, packerr.InvalidInput("path %d is empty", idx)
		}

		if !filepath.IsAbs(path) {
			return nil, packerr.InvalidInput("path %s is not absolute", path)
		}

		cleaned[idx] = filepath.Clean(path)
	}

	return cleaned, nil
}

// CommonRoot returns the deepest directory shared by all given absolute paths.
//
// Paths are compared segment by segment, so "/data" and "/data2" do not
// share "/data". The last segment of each path is treated as leaf and never
// becomes part of the root, so the result is always a directory. The
// returned root has no trailing separator.
//
// It fails if the paths share nothing but the file system root, e.g.
// "/a/x" and "/b/y".
func CommonRoot(paths []string) (string, error) {
	cleaned, err := Clean(paths)
	if err != nil {
		return "", err
	}

	split := make([][]string, len(cleaned))
	for idx, path := range cleaned {
		segments := strings.Split(path, Separator)
		split[idx] = segments[:len(segments)-1]
	}

	minLen := len(split[0])
	for _, segments := range split[1:] {
		minLen = min(minLen, len(segments))
	}

	var root strings.Builder

	for idx := range minLen {
		if !segmentShared(split, idx) {
			break
		}

		root.WriteString(split[0][idx])
		root.WriteString(Separator)
	}

	result := strings.TrimSuffix(root.String(), Separator)
	if result == "" {
		return "", packerr.InvalidInput("paths do not share a common root")
	}

	return result, nil
}

// segmentShared returns true if the segment at idx is equal for all paths.
// It stops at the first mismatch.
func segmentShared(split [][]string, idx int) bool {
	first := split[0][idx]

	for _, segments := range split[1:] {
		if segments[idx] != first {
			return false
		}
	}

	return true
}

// ValidateRoot checks that all paths are below the given root and returns the
// root with a single trailing separator removed.
//
// A path is only considered below the root if the root is followed by a
// separator in the path. A plain string prefix like root "/data" for path
// "/data2/file" is rejected.
func ValidateRoot(paths []string, root string) (string, error) {
	if root == "" {
		return "", packerr.InvalidInput("empty root")
	}

	normalized := strings.TrimSuffix(root, Separator)

	for _, path := range paths {
		if !IsBelow(path, normalized) {
			return "", packerr.InvalidInput(
				"path %s not below root %s on a segment boundary",
				path, root,
			)
		}
	}

	return normalized, nil
}

// IsBelow returns true if path starts with root followed by a separator and
// at least one more character. The root must not have a trailing separator,
// except for the empty root that stands for the file system root.
func IsBelow(path, root string) bool {
	if len(path) <= len(root)+1 {
		return false
	}

	return strings.HasPrefix(path, root) &&
		path[len(root)] == filepath.Separator
}

// FSName converts an absolute path into a name valid for a file system rooted
// at "/", like the one returned by os.DirFS("/").
func FSName(absPath string) string {
	name := strings.TrimPrefix(absPath, Separator)
	if name == "" {
		return "."
	}

	return name
}
