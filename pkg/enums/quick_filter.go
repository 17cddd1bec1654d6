package enums

import "fmt"

// QuickFilter is a named, server-defined product subset, distinct from the
// attribute filters mined from inventory.
type QuickFilter string

const (
	QuickFilterTrending    QuickFilter = "trending"
	QuickFilterNewArrivals QuickFilter = "new_arrivals"
	QuickFilterStaffPicks  QuickFilter = "staff_picks"
	QuickFilterHighTHC     QuickFilter = "high_thc"
)

var validQuickFilters = []QuickFilter{
	QuickFilterTrending,
	QuickFilterNewArrivals,
	QuickFilterStaffPicks,
	QuickFilterHighTHC,
}

// String implements fmt.Stringer.
func (q QuickFilter) String() string {
	return string(q)
}

// IsValid reports whether the value is a known QuickFilter.
func (q QuickFilter) IsValid() bool {
	for _, candidate := range validQuickFilters {
		if candidate == q {
			return true
		}
	}
	return false
}

// ParseQuickFilter converts raw input into a QuickFilter.
func ParseQuickFilter(value string) (QuickFilter, error) {
	for _, candidate := range validQuickFilters {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quick filter %q", value)
}
