package core

import (
	"sort"
	"strings"

	"github.com/jmylchreest/voidaudio/internal/model"
)

// SortField represents a field to sort by.
type SortField string

const (
	SortByID     SortField = "id"
	SortByKind   SortField = "kind"
	SortBySource SortField = "source"
	SortBySize   SortField = "size"
	SortByVolume SortField = "volume"
)

// SortOrder represents ascending or descending order.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortOptions specifies sorting criteria.
type SortOptions struct {
	Field SortField // Field to sort by
	Order SortOrder // Sort order (asc/desc)
}

// DefaultSortOptions returns default sort options (by id, ascending).
func DefaultSortOptions() SortOptions {
	return SortOptions{
		Field: SortByID,
		Order: SortAsc,
	}
}

// Sort sorts tracks in place based on the provided options.
// Ties keep their relative order.
func Sort(tracks []model.Track, opts SortOptions) {
	if len(tracks) == 0 {
		return
	}

	sort.SliceStable(tracks, func(i, j int) bool {
		a, b := tracks[i], tracks[j]
		if opts.Order == SortDesc {
			a, b = b, a
		}

		switch opts.Field {
		case SortByKind:
			return a.Kind < b.Kind
		case SortBySource:
			return strings.ToLower(a.Source) < strings.ToLower(b.Source)
		case SortBySize:
			return a.Size < b.Size
		case SortByVolume:
			return a.Volume < b.Volume
		default:
			return strings.ToLower(a.ID) < strings.ToLower(b.ID)
		}
	})
}

// ParseSortField parses a sort field string. Unknown fields sort by id.
func ParseSortField(s string) SortField {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kind", "type", "k":
		return SortByKind
	case "source", "src", "s":
		return SortBySource
	case "size", "z":
		return SortBySize
	case "volume", "vol", "v":
		return SortByVolume
	default:
		return SortByID
	}
}

// ParseSortOrder parses a sort order string. Unknown orders are ascending.
func ParseSortOrder(s string) SortOrder {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "desc", "descending", "d":
		return SortDesc
	default:
		return SortAsc
	}
}
