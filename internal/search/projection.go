package search

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/nikbrunner/vidlib/internal/model"
)

// SortKey selects the ordering applied by Project.
type SortKey string

const (
	SortFeatured SortKey = "featured"
	SortDate     SortKey = "date"
	SortHot      SortKey = "hot"
	SortLength   SortKey = "length"   // lexicographic on the length string
	SortDuration SortKey = "duration" // numeric elapsed time parsed from length
)

// SortKeys lists the keys in the order the UI cycles through them.
var SortKeys = []SortKey{SortFeatured, SortDate, SortHot, SortLength, SortDuration}

// Label returns a short human-readable name for the sort key.
func (k SortKey) Label() string {
	switch k {
	case SortFeatured:
		return "Featured"
	case SortDate:
		return "Date Created"
	case SortHot:
		return "What's Hot"
	case SortLength:
		return "Length"
	case SortDuration:
		return "Duration"
	default:
		return string(k)
	}
}

// Next returns the key after k in SortKeys, wrapping around.
func (k SortKey) Next() SortKey {
	idx := slices.Index(SortKeys, k)
	return SortKeys[(idx+1)%len(SortKeys)]
}

// ParseSortKey validates a sort key name.
func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(SortKeys, key) {
		return "", fmt.Errorf("unknown sort key %q (want one of featured, date, hot, length, duration)", s)
	}
	return key, nil
}

// Query holds the active filter term and sort key.
type Query struct {
	Term string
	Sort SortKey
}

// Project derives the display list: filter by term, then stable sort by key.
// The input slice is never modified.
func Project(videos []model.Video, q Query) []model.Video {
	result := Filter(videos, q.Term)
	Sort(result, q.Sort)
	return result
}

// Filter keeps videos whose title contains term, case-insensitively.
// An empty term matches everything. Always returns a new slice.
func Filter(videos []model.Video, term string) []model.Video {
	needle := strings.ToLower(term)
	result := make([]model.Video, 0, len(videos))
	for _, v := range videos {
		if strings.Contains(strings.ToLower(v.Title), needle) {
			result = append(result, v)
		}
	}
	return result
}

// Sort orders videos in place by key. Ties keep their prior order.
// Date and hot have no comparator and leave the order unchanged.
func Sort(videos []model.Video, key SortKey) {
	switch key {
	case SortFeatured:
		slices.SortStableFunc(videos, func(a, b model.Video) int {
			return boolRank(b.Featured) - boolRank(a.Featured)
		})
	case SortLength:
		slices.SortStableFunc(videos, func(a, b model.Video) int {
			return strings.Compare(a.Length, b.Length)
		})
	case SortDuration:
		slices.SortStableFunc(videos, compareDuration)
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// compareDuration orders by parsed seconds; unparsable lengths go last.
func compareDuration(a, b model.Video) int {
	da, okA := ParseLength(a.Length)
	db, okB := ParseLength(b.Length)
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	}
	return da - db
}

// ParseLength converts "MM:SS" or "HH:MM:SS" into seconds.
func ParseLength(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}

	total := 0
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, false
		}
		// Minutes and seconds after the leading field must be below 60.
		if i > 0 && n >= 60 {
			return 0, false
		}
		total = total*60 + n
	}
	return total, true
}
