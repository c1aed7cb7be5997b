// Package resolver turns a command's arguments, plus an optional
// reply-to target, into the concrete registry entries to operate on.
// Reply-targeted and indexed resolution both feed the same Resolution
// shape so command handlers never branch on how operands were picked.
package resolver

import (
	"strconv"
	"strings"

	"github.com/pagecraft/page-craft-bot/types"
)

type Resolution struct {
	// Primary is the replied-to entry in reply-targeted mode, nil in
	// indexed mode.
	Primary *types.FileEntry
	Entries []types.FileEntry
}

// ParseIndexList parses a comma-separated list of 1-based indices.
func ParseIndexList(arg string, count int) ([]int, error) {
	parts := strings.Split(arg, ",")
	indices := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, &InvalidIndexError{Token: part, Count: count}
		}
		if n < 1 || n > count {
			return nil, &InvalidIndexError{Index: n, Count: count}
		}
		indices = append(indices, n)
	}
	return indices, nil
}

// ResolveMerge handles indexed-mode merge: explicit indices in order,
// or every uploaded file when arg is empty.
func ResolveMerge(files []types.FileEntry, arg string) (Resolution, error) {
	arg = strings.TrimSpace(arg)

	var selected []types.FileEntry
	if arg == "" {
		selected = append(selected, files...)
	} else {
		indices, err := ParseIndexList(arg, len(files))
		if err != nil {
			return Resolution{}, err
		}
		for _, n := range indices {
			selected = append(selected, files[n-1])
		}
	}

	if len(selected) < 2 {
		return Resolution{}, ErrNotEnoughFiles
	}
	return Resolution{Entries: selected}, nil
}

// ResolveMergeWith handles reply-targeted merge: the replied entry
// leads, indices add more files, and the replied entry is skipped if
// its own index shows up in the list.
func ResolveMergeWith(files []types.FileEntry, primary types.FileEntry, arg string) (Resolution, error) {
	indices, err := ParseIndexList(arg, len(files))
	if err != nil {
		return Resolution{}, err
	}

	selected := []types.FileEntry{primary}
	for _, n := range indices {
		entry := files[n-1]
		if entry.OriginMessageID == primary.OriginMessageID {
			continue
		}
		selected = append(selected, entry)
	}

	if len(selected) < 2 {
		return Resolution{}, ErrNotEnoughFiles
	}
	return Resolution{Primary: &primary, Entries: selected}, nil
}

// ResolveByIndex picks one entry by 1-based index, or the most recent
// upload when arg is empty.
func ResolveByIndex(files []types.FileEntry, arg string) (Resolution, error) {
	if len(files) == 0 {
		return Resolution{}, ErrNotEnoughFiles
	}
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return Resolution{Entries: []types.FileEntry{files[len(files)-1]}}, nil
	}

	n, err := strconv.Atoi(arg)
	if err != nil {
		return Resolution{}, &InvalidIndexError{Token: arg, Count: len(files)}
	}
	if n < 1 || n > len(files) {
		return Resolution{}, &InvalidIndexError{Index: n, Count: len(files)}
	}
	return Resolution{Entries: []types.FileEntry{files[n-1]}}, nil
}

// FilterKind keeps only entries of one kind, preserving upload order.
func FilterKind(files []types.FileEntry, kind types.FileKind) []types.FileEntry {
	out := make([]types.FileEntry, 0, len(files))
	for _, f := range files {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}
