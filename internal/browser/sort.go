package browser

import (
	"sort"
	"strings"
)

// SortMode orders the file list. Cycled with the 's' key.
type SortMode int

const (
	SortModified SortMode = iota
	SortName
	SortSize
	SortType
)

func (m SortMode) Next() SortMode {
	switch m {
	case SortModified:
		return SortName
	case SortName:
		return SortSize
	case SortSize:
		return SortType
	default:
		return SortModified
	}
}

func (m SortMode) String() string {
	switch m {
	case SortModified:
		return "Modified"
	case SortName:
		return "Name"
	case SortSize:
		return "Size"
	case SortType:
		return "Type"
	default:
		return "Unknown"
	}
}

// ParseSortMode maps CLI sort flags onto a mode; unknown values fall back to
// modified, the default.
func ParseSortMode(s string) SortMode {
	switch strings.ToLower(s) {
	case "name":
		return SortName
	case "size":
		return SortSize
	case "type":
		return SortType
	default:
		return SortModified
	}
}

// SortEntries orders directories first, then applies the mode: modified and
// size descend by default, name and type ascend case-insensitively.
// Directories stay first even when the order is reversed.
func SortEntries(entries []Entry, mode SortMode, reverse bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		c := compareEntries(a, b, mode)
		if reverse {
			return c > 0
		}
		return c < 0
	})
}

func compareEntries(a, b Entry, mode SortMode) int {
	switch mode {
	case SortModified:
		return b.Modified.Compare(a.Modified) // newest first
	case SortName:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case SortSize:
		switch {
		case a.Size > b.Size:
			return -1
		case a.Size < b.Size:
			return 1
		}
		return 0
	case SortType:
		return strings.Compare(a.Extension, b.Extension)
	}
	return 0
}
