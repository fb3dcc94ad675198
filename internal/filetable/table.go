// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package filetable

import (
	"iter"
	"strings"

	"github.com/aibor/packstream/internal/pathset"
)

// Entry is a single directory or file of a [Table].
type Entry struct {
	// Absolute path of the entry.
	Path string
	// Leaf is true if the entry is the final segment of at least one of the
	// paths the table was built from.
	Leaf bool
}

// Table is the ordered, deduplicated list of entries an archive is built
// from. It contains every directory between the root and each input path.
type Table struct {
	Entries []Entry
	// RootLength is the length of the root including its trailing
	// separator. Cutting it from an entry's path results in the name relative
	// to the root.
	RootLength int
}

// Build creates a [Table] for the given absolute paths below root.
//
// For each path, every directory segment between root and the path itself
// becomes an entry. Entries are unique by path and ordered by first
// occurrence, iterating the paths in the given order.
func Build(paths []string, root string) (*Table, error) {
	cleaned, err := pathset.Clean(paths)
	if err != nil {
		return nil, err
	}

	root, err = pathset.ValidateRoot(cleaned, root)
	if err != nil {
		return nil, err
	}

	table := &Table{
		RootLength: len(root) + 1,
	}

	set := newOrderedSet(len(cleaned))

	for _, path := range cleaned {
		segments := strings.Split(path[table.RootLength:], pathset.Separator)
		current := root

		for idx, segment := range segments {
			current += pathset.Separator + segment
			set.insert(current, idx == len(segments)-1)
		}
	}

	table.Entries = set.entries

	return table, nil
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.Entries)
}

// Name returns the path of the entry with the given index relative to the
// root.
func (t *Table) Name(idx int) string {
	return t.Entries[idx].Path[t.RootLength:]
}

// Leaves returns an iterator over the indexes and entries of all leaf
// entries.
func (t *Table) Leaves() iter.Seq2[int, Entry] {
	return func(yield func(int, Entry) bool) {
		for idx, entry := range t.Entries {
			if entry.Leaf && !yield(idx, entry) {
				return
			}
		}
	}
}

// orderedSet keeps entries unique by path in insertion order.
type orderedSet struct {
	index   map[string]int
	entries []Entry
}

func newOrderedSet(capacity int) *orderedSet {
	return &orderedSet{
		index:   make(map[string]int, capacity),
		entries: make([]Entry, 0, capacity),
	}
}

// insert adds the path if not present yet. The leaf flag of an existing entry
// is only ever set, never cleared.
func (s *orderedSet) insert(path string, leaf bool) {
	if idx, exists := s.index[path]; exists {
		if leaf {
			s.entries[idx].Leaf = true
		}

		return
	}

	s.index[path] = len(s.entries)
	s.entries = append(s.entries, Entry{Path: path, Leaf: leaf})
}
